package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/shopdesk-api/internal/domain/enum"
	"gorm.io/gorm"
)

// CriticalCase flags a problem that spans one or more shops and bills.
type CriticalCase struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Description string         `gorm:"type:text;not null" json:"description"`
	Severity    enum.Severity  `gorm:"size:20;not null;index" json:"severity"`
	Remarks     *string        `gorm:"type:text" json:"remarks,omitempty"`
	CreatedBy   *uuid.UUID     `gorm:"type:uuid" json:"created_by,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Shops []Shop `gorm:"many2many:critical_case_shops" json:"shops"`
	Bills []Bill `gorm:"many2many:critical_case_bills" json:"bills"`
}

func (c *CriticalCase) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (CriticalCase) TableName() string {
	return "critical_cases"
}

// Ticket is a support request raised for a shop.
type Ticket struct {
	ID          uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	ShopID      uuid.UUID         `gorm:"type:uuid;not null;index" json:"shop_id"`
	Title       string            `gorm:"size:255;not null" json:"title"`
	Description string            `gorm:"type:text;not null" json:"description"`
	Priority    enum.Priority     `gorm:"size:20;not null;index" json:"priority"`
	Status      enum.TicketStatus `gorm:"size:20;not null;default:'open';index" json:"status"`
	ResolvedAt  *time.Time        `json:"resolved_at,omitempty"`
	CreatedBy   *uuid.UUID        `gorm:"type:uuid" json:"created_by,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	DeletedAt   gorm.DeletedAt    `gorm:"index" json:"-"`

	Shop *Shop `gorm:"foreignKey:ShopID" json:"shop,omitempty"`
}

func (t *Ticket) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

func (Ticket) TableName() string {
	return "tickets"
}

// Warning is a notice issued to a shop, optionally about specific bills.
type Warning struct {
	ID        uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	ShopID    uuid.UUID          `gorm:"type:uuid;not null;index" json:"shop_id"`
	Title     string             `gorm:"size:255;not null" json:"title"`
	Message   string             `gorm:"type:text;not null" json:"message"`
	Status    enum.WarningStatus `gorm:"size:20;not null;default:'open';index" json:"status"`
	SentAt    *time.Time         `json:"sent_at,omitempty"`
	CreatedBy *uuid.UUID         `gorm:"type:uuid" json:"created_by,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
	DeletedAt gorm.DeletedAt     `gorm:"index" json:"-"`

	Shop  *Shop  `gorm:"foreignKey:ShopID" json:"shop,omitempty"`
	Bills []Bill `gorm:"many2many:warning_bills" json:"bills"`
}

func (w *Warning) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

func (Warning) TableName() string {
	return "warnings"
}

// Note is a dated free-text record, optionally tied to a shop or bill.
type Note struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Date      time.Time      `gorm:"type:date;not null;index" json:"date"`
	Title     string         `gorm:"size:255;not null" json:"title"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	Priority  enum.Priority  `gorm:"size:20;not null;default:'medium'" json:"priority"`
	ShopID    *uuid.UUID     `gorm:"type:uuid;index" json:"shop_id,omitempty"`
	BillID    *uuid.UUID     `gorm:"type:uuid;index" json:"bill_id,omitempty"`
	Tags      []string       `gorm:"type:jsonb;serializer:json" json:"tags"`
	CreatedBy *uuid.UUID     `gorm:"type:uuid" json:"created_by,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Shop *Shop `gorm:"foreignKey:ShopID" json:"shop,omitempty"`
	Bill *Bill `gorm:"foreignKey:BillID" json:"bill,omitempty"`
}

func (n *Note) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

func (Note) TableName() string {
	return "notes"
}
