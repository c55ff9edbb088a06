package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Shop is a retail customer the business bills.
type Shop struct {
	ID               uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name             string         `gorm:"size:255;not null" json:"name"`
	OwnerName        string         `gorm:"size:255;not null" json:"owner_name"`
	NIC              string         `gorm:"column:nic;size:12;not null" json:"nic"`
	Address          string         `gorm:"type:text;not null" json:"address"`
	District         string         `gorm:"size:100;not null;index" json:"district"`
	Area             string         `gorm:"size:100;not null" json:"area"`
	Email            *string        `gorm:"size:255" json:"email,omitempty"`
	Phone            string         `gorm:"size:20;not null" json:"phone"`
	WhatsApp         *string        `gorm:"column:whatsapp;size:20" json:"whatsapp,omitempty"`
	Username         string         `gorm:"size:100;not null;uniqueIndex:idx_shops_username,where:deleted_at IS NULL" json:"username"`
	Password         string         `gorm:"size:255;not null" json:"-"`
	LogoURL          *string        `gorm:"size:512" json:"logo_url,omitempty"`
	LogoThumbnailURL *string        `gorm:"size:512" json:"logo_thumbnail_url,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`

	Bills []Bill `gorm:"foreignKey:ShopID" json:"-"`
}

func (s *Shop) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

func (Shop) TableName() string {
	return "shops"
}
