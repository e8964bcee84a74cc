package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/mverbeke/kassa-api/internal/domain/enum"
	"gorm.io/gorm"
)

// LoyaltyCard is a customer loyalty account. The tier is derived from
// the point balance and recomputed whenever points are awarded.
type LoyaltyCard struct {
	ID           uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	Number       string           `gorm:"size:50;uniqueIndex;not null" json:"number"`
	CustomerName string           `gorm:"size:255;not null" json:"customer_name"`
	Email        string           `gorm:"size:255" json:"email"`
	Phone        *string          `gorm:"size:50" json:"phone,omitempty"`
	Points       int              `gorm:"default:0" json:"points"`
	Tier         enum.LoyaltyTier `gorm:"size:20;default:bronze" json:"tier"`
	LastUsed     *time.Time       `json:"last_used,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	DeletedAt    gorm.DeletedAt   `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new loyalty card
func (c *LoyaltyCard) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the LoyaltyCard model
func (LoyaltyCard) TableName() string {
	return "loyalty_cards"
}
