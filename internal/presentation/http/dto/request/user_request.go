package request

import "github.com/sangkips/shopdesk-api/internal/domain/enum"

// CreateUserRequest registers a dashboard operator
type CreateUserRequest struct {
	Name     string    `json:"name" binding:"required,max=255"`
	Email    string    `json:"email" binding:"required,email"`
	Password string    `json:"password" binding:"omitempty,min=8"`
	Role     enum.Role `json:"role" binding:"omitempty,oneof=admin staff"`
}

// UpdateUserRequest changes an operator's name, role or active flag
type UpdateUserRequest struct {
	Name   *string    `json:"name" binding:"omitempty,max=255"`
	Role   *enum.Role `json:"role" binding:"omitempty,oneof=admin staff"`
	Active *bool      `json:"active"`
}
