package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/shopdesk-api/pkg/finance"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Supplier sells stock to the business.
type Supplier struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Address   *string        `gorm:"type:text" json:"address,omitempty"`
	Mobile    string         `gorm:"size:20;not null" json:"mobile"`
	Email     *string        `gorm:"size:255" json:"email,omitempty"`
	Notes     *string        `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Invoices []Invoice `gorm:"foreignKey:SupplierID" json:"-"`
}

func (s *Supplier) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

func (Supplier) TableName() string {
	return "suppliers"
}

// Invoice is a purchase from a supplier. Number is unique per supplier.
type Invoice struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	SupplierID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_invoices_supplier_number,where:deleted_at IS NULL" json:"supplier_id"`
	Number     string          `gorm:"size:100;not null;uniqueIndex:idx_invoices_supplier_number,where:deleted_at IS NULL" json:"number"`
	Date       time.Time       `gorm:"type:date;not null;index" json:"date"`
	SalesRep   *string         `gorm:"size:255" json:"sales_rep,omitempty"`
	CreditDays int             `gorm:"not null;default:0" json:"credit_days"`
	Discount   decimal.Decimal `gorm:"type:numeric(15,2);not null;default:0" json:"discount"`
	SubTotal   decimal.Decimal `gorm:"type:numeric(15,2);not null;default:0" json:"sub_total"`
	GrandTotal decimal.Decimal `gorm:"type:numeric(15,2);not null;default:0" json:"grand_total"`
	Notes      *string         `gorm:"type:text" json:"notes,omitempty"`
	CreatedBy  *uuid.UUID      `gorm:"type:uuid" json:"created_by,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	DeletedAt  gorm.DeletedAt  `gorm:"index" json:"-"`

	Supplier *Supplier     `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	Items    []InvoiceItem `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

func (Invoice) TableName() string {
	return "invoices"
}

func (i *Invoice) FinanceDocument() finance.Document {
	lines := make([]finance.Line, len(i.Items))
	for n, it := range i.Items {
		lines[n] = finance.Line{Quantity: it.Quantity, UnitPrice: it.UnitPrice}
	}
	return finance.Document{
		Date:       i.Date,
		CreditDays: i.CreditDays,
		Discount:   i.Discount,
		Lines:      lines,
	}
}

type InvoiceItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id"`
	Description string          `gorm:"size:255;not null" json:"description"`
	Quantity    decimal.Decimal `gorm:"type:numeric(15,3);not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(15,2);not null" json:"unit_price"`
	Total       decimal.Decimal `gorm:"type:numeric(15,2);not null" json:"total"`
	Position    int             `gorm:"not null;default:0" json:"-"`
}

func (i *InvoiceItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

func (InvoiceItem) TableName() string {
	return "invoice_items"
}
