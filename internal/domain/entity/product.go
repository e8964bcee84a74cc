package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/mverbeke/kassa-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Promotion is a time-boxed price reduction attached to a product.
// It is embedded in the product row as a JSON column and snapshotted
// into sale items, so past receipts keep the promotion that applied.
type Promotion struct {
	Type        enum.PromotionType `json:"type"`
	Value       int64              `json:"value"` // percent for percentage, cents for fixed
	Description string             `json:"description,omitempty"`
	BuyQuantity int                `json:"buy_quantity,omitempty"`
	GetFree     int                `json:"get_free,omitempty"`
	StartDate   time.Time          `json:"start_date"`
	EndDate     time.Time          `json:"end_date"`
}

// ActiveAt reports whether the promotion window covers the given instant.
func (p *Promotion) ActiveAt(at time.Time) bool {
	if p == nil {
		return false
	}
	return !at.Before(p.StartDate) && !at.After(p.EndDate)
}

// Product represents a catalog item with its current stock level
type Product struct {
	ID                uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name              string         `gorm:"size:255;not null" json:"name"`
	Category          string         `gorm:"size:255;index" json:"category"`
	Barcode           *string        `gorm:"size:100;uniqueIndex" json:"barcode,omitempty"`
	Price             int64          `gorm:"not null" json:"-"` // cents, VAT-inclusive
	Stock             int            `gorm:"default:0" json:"stock"`
	LowStockThreshold int            `gorm:"default:0" json:"low_stock_threshold"`
	VATRate           enum.VATRate   `gorm:"not null" json:"vat_rate"`
	Supplier          *string        `gorm:"size:255" json:"supplier,omitempty"`
	Promotion         *Promotion     `gorm:"serializer:json" json:"promotion,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// GetPriceDecimal returns the unit price in euros (for display)
func (p *Product) GetPriceDecimal() float64 {
	return float64(p.Price) / 100
}

// SetPriceFromDecimal sets the unit price from a euro value
func (p *Product) SetPriceFromDecimal(price float64) {
	p.Price = int64(price*100 + 0.5)
}

// LowOnStock reports whether the stock level has reached the alert threshold
func (p *Product) LowOnStock() bool {
	return p.Stock <= p.LowStockThreshold
}

// LinePrice returns the VAT-inclusive price in cents for quantity units,
// applying the product's promotion when it is active at the given time.
func (p *Product) LinePrice(quantity int, at time.Time) int64 {
	full := p.Price * int64(quantity)
	promo := p.Promotion
	if !promo.ActiveAt(at) {
		return full
	}

	switch promo.Type {
	case enum.PromotionPercentage:
		discounted := full * (100 - promo.Value) / 100
		if discounted < 0 {
			return 0
		}
		return discounted
	case enum.PromotionFixed:
		unit := p.Price - promo.Value
		if unit < 0 {
			unit = 0
		}
		return unit * int64(quantity)
	case enum.PromotionBuyXGetY:
		if promo.BuyQuantity <= 0 || promo.GetFree <= 0 {
			return full
		}
		setSize := promo.BuyQuantity + promo.GetFree
		sets := quantity / setSize
		remainder := quantity % setSize
		paid := sets*promo.BuyQuantity + min(remainder, promo.BuyQuantity)
		return p.Price * int64(paid)
	}
	return full
}

// MarshalJSON converts Product to JSON with the price as a decimal
func (p Product) MarshalJSON() ([]byte, error) {
	type Alias Product
	return json.Marshal(&struct {
		Alias
		Price float64 `json:"price"`
	}{
		Alias: Alias(p),
		Price: p.GetPriceDecimal(),
	})
}
