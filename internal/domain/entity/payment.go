package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/shopdesk-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payment settles part of a bill (money in) or an invoice (money out).
type Payment struct {
	ID           uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	DocumentType enum.DocumentType  `gorm:"size:20;not null;index:idx_payments_document,priority:1" json:"document_type"`
	DocumentID   uuid.UUID          `gorm:"type:uuid;not null;index:idx_payments_document,priority:2" json:"document_id"`
	Amount       decimal.Decimal    `gorm:"type:numeric(15,2);not null" json:"amount"`
	Method       enum.PaymentMethod `gorm:"size:20;not null;default:'cash'" json:"method"`
	ChequeNumber *string            `gorm:"size:50" json:"cheque_number,omitempty"`
	Date         time.Time          `gorm:"type:date;not null" json:"date"`
	Note         *string            `gorm:"type:text" json:"note,omitempty"`
	RecordedBy   *uuid.UUID         `gorm:"type:uuid" json:"recorded_by,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
	DeletedAt    gorm.DeletedAt     `gorm:"index" json:"-"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (Payment) TableName() string {
	return "payments"
}
