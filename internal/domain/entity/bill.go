package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/shopdesk-api/internal/domain/enum"
	"github.com/sangkips/shopdesk-api/pkg/finance"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Bill is a sale to a shop. Number is unique within the shop.
type Bill struct {
	ID               uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	ShopID           uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_bills_shop_number,where:deleted_at IS NULL" json:"shop_id"`
	Number           string            `gorm:"size:100;not null;uniqueIndex:idx_bills_shop_number,where:deleted_at IS NULL" json:"number"`
	Date             time.Time         `gorm:"type:date;not null;index" json:"date"`
	PaymentType      enum.PaymentType  `gorm:"size:20;not null;default:'cash'" json:"payment_type"`
	CreditOption     enum.CreditOption `gorm:"size:20;not null;default:'none'" json:"credit_option"`
	CreditPeriodDays int               `gorm:"not null;default:0" json:"credit_period_days"`
	Discount         decimal.Decimal   `gorm:"type:numeric(15,2);not null;default:0" json:"discount"`
	SubTotal         decimal.Decimal   `gorm:"type:numeric(15,2);not null;default:0" json:"sub_total"`
	GrandTotal       decimal.Decimal   `gorm:"type:numeric(15,2);not null;default:0" json:"grand_total"`
	Notes            *string           `gorm:"type:text" json:"notes,omitempty"`
	CreatedBy        *uuid.UUID        `gorm:"type:uuid" json:"created_by,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
	DeletedAt        gorm.DeletedAt    `gorm:"index" json:"-"`

	Shop  *Shop      `gorm:"foreignKey:ShopID" json:"shop,omitempty"`
	Items []BillItem `gorm:"foreignKey:BillID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

func (b *Bill) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

func (Bill) TableName() string {
	return "bills"
}

// FinanceDocument exposes the fields the billing arithmetic needs.
func (b *Bill) FinanceDocument() finance.Document {
	lines := make([]finance.Line, len(b.Items))
	for i, it := range b.Items {
		lines[i] = finance.Line{Quantity: it.Quantity, UnitPrice: it.UnitPrice}
	}
	return finance.Document{
		Date:       b.Date,
		CreditDays: b.CreditPeriodDays,
		Discount:   b.Discount,
		Lines:      lines,
	}
}

// BillItem is one line of a bill.
type BillItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	BillID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"bill_id"`
	Description string          `gorm:"size:255;not null" json:"description"`
	Quantity    decimal.Decimal `gorm:"type:numeric(15,3);not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(15,2);not null" json:"unit_price"`
	Total       decimal.Decimal `gorm:"type:numeric(15,2);not null" json:"total"`
	Position    int             `gorm:"not null;default:0" json:"-"`
}

func (i *BillItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

func (BillItem) TableName() string {
	return "bill_items"
}
