package request

// CreateShopRequest represents a shop registration
type CreateShopRequest struct {
	Name      string  `json:"name" binding:"required,max=255"`
	OwnerName string  `json:"owner_name" binding:"required,max=255"`
	NIC       string  `json:"nic" binding:"required,nic"`
	Address   string  `json:"address" binding:"required"`
	District  string  `json:"district" binding:"required,district"`
	Area      string  `json:"area" binding:"required"`
	Email     *string `json:"email"`
	Phone     string  `json:"phone" binding:"required,lkphone"`
	WhatsApp  *string `json:"whatsapp"`
	Username  string  `json:"username" binding:"required,max=100"`
	Password  string  `json:"password" binding:"required,min=6"`
}

// UpdateShopRequest is a partial shop update. A password is re-hashed
// only when present.
type UpdateShopRequest struct {
	Name      *string `json:"name" binding:"omitempty,max=255"`
	OwnerName *string `json:"owner_name" binding:"omitempty,max=255"`
	NIC       *string `json:"nic" binding:"omitempty,nic"`
	Address   *string `json:"address"`
	District  *string `json:"district" binding:"omitempty,district"`
	Area      *string `json:"area"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone" binding:"omitempty,lkphone"`
	WhatsApp  *string `json:"whatsapp"`
	Username  *string `json:"username" binding:"omitempty,max=100"`
	Password  *string `json:"password" binding:"omitempty,min=6"`
}
