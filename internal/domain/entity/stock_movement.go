package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/mverbeke/kassa-api/internal/domain/enum"
	"gorm.io/gorm"
)

// StockMovement is one entry in the inventory audit trail. Quantity is
// the signed delta applied to the product's stock; PreviousStock and
// NewStock are filled by the repository inside the same transaction
// that applies the delta.
type StockMovement struct {
	ID            uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	ProductID     uuid.UUID         `gorm:"type:uuid;not null;index" json:"product_id"`
	Type          enum.MovementType `gorm:"size:20;not null" json:"type"`
	Quantity      int               `gorm:"not null" json:"quantity"` // signed delta
	PreviousStock int               `gorm:"not null" json:"previous_stock"`
	NewStock      int               `gorm:"not null" json:"new_stock"`
	Reason        string            `gorm:"size:255" json:"reason,omitempty"`
	EmployeeID    uuid.UUID         `gorm:"type:uuid;index" json:"employee_id"`
	Reference     string            `gorm:"size:100;index" json:"reference,omitempty"` // receipt number for sales/returns
	CreatedAt     time.Time         `gorm:"index" json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new stock movement
func (m *StockMovement) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the StockMovement model
func (StockMovement) TableName() string {
	return "stock_movements"
}
