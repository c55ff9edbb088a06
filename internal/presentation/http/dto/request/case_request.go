package request

import (
	"github.com/google/uuid"
	"github.com/sangkips/shopdesk-api/internal/domain/enum"
)

// CriticalCaseRequest creates a critical case
type CriticalCaseRequest struct {
	ShopIDs     []uuid.UUID   `json:"shop_ids"`
	BillIDs     []uuid.UUID   `json:"bill_ids"`
	Description string        `json:"description" binding:"required"`
	Severity    enum.Severity `json:"severity" binding:"required"`
	Remarks     *string       `json:"remarks"`
}

// UpdateCriticalCaseRequest is a partial update. Link lists replace the
// stored ones when present.
type UpdateCriticalCaseRequest struct {
	ShopIDs     []uuid.UUID    `json:"shop_ids"`
	BillIDs     []uuid.UUID    `json:"bill_ids"`
	Description *string        `json:"description"`
	Severity    *enum.Severity `json:"severity"`
	Remarks     *string        `json:"remarks"`
}

// TicketRequest opens a support ticket for a shop
type TicketRequest struct {
	ShopID      uuid.UUID     `json:"shop_id" binding:"required"`
	Title       string        `json:"title" binding:"required,max=255"`
	Description string        `json:"description" binding:"required"`
	Priority    enum.Priority `json:"priority"`
}

// UpdateTicketRequest is a partial ticket update
type UpdateTicketRequest struct {
	ShopID      *uuid.UUID     `json:"shop_id"`
	Title       *string        `json:"title" binding:"omitempty,max=255"`
	Description *string        `json:"description"`
	Priority    *enum.Priority `json:"priority"`
}

// TicketStatusRequest moves a ticket through its workflow
type TicketStatusRequest struct {
	Status enum.TicketStatus `json:"status" binding:"required"`
}

// WarningRequest issues a warning to a shop
type WarningRequest struct {
	ShopID  uuid.UUID   `json:"shop_id" binding:"required"`
	BillIDs []uuid.UUID `json:"bill_ids"`
	Title   string      `json:"title" binding:"required,max=255"`
	Message string      `json:"message" binding:"required"`
}

// UpdateWarningRequest is a partial warning update
type UpdateWarningRequest struct {
	BillIDs []uuid.UUID `json:"bill_ids"`
	Title   *string     `json:"title" binding:"omitempty,max=255"`
	Message *string     `json:"message"`
}

// WarningStatusRequest moves a warning forward
type WarningStatusRequest struct {
	Status enum.WarningStatus `json:"status" binding:"required"`
}

// NoteRequest creates a note
type NoteRequest struct {
	Date     *Date         `json:"date"`
	Title    string        `json:"title" binding:"required,max=255"`
	Content  string        `json:"content" binding:"required"`
	Priority enum.Priority `json:"priority"`
	ShopID   *uuid.UUID    `json:"shop_id"`
	BillID   *uuid.UUID    `json:"bill_id"`
	Tags     []string      `json:"tags"`
}

// UpdateNoteRequest is a partial note update. clear_shop and clear_bill
// detach the note from its shop or bill.
type UpdateNoteRequest struct {
	Date      *Date          `json:"date"`
	Title     *string        `json:"title" binding:"omitempty,max=255"`
	Content   *string        `json:"content"`
	Priority  *enum.Priority `json:"priority"`
	ShopID    *uuid.UUID     `json:"shop_id"`
	BillID    *uuid.UUID     `json:"bill_id"`
	ClearShop bool           `json:"clear_shop"`
	ClearBill bool           `json:"clear_bill"`
	Tags      []string       `json:"tags"`
}
