package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/mverbeke/kassa-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Discount is an ad-hoc reduction applied to a sale at the register
type Discount struct {
	Type        string `json:"type"` // loyalty, student, senior, custom
	Value       int64  `json:"value"`
	Description string `json:"description,omitempty"`
}

// Sale is an immutable record of a completed transaction. Only the
// refund fields are ever written after creation.
type Sale struct {
	ID             uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	ReceiptNumber  string             `gorm:"size:100;uniqueIndex;not null" json:"receipt_number"`
	EmployeeID     uuid.UUID          `gorm:"type:uuid;not null;index" json:"employee_id"`
	SubTotal       int64              `gorm:"not null" json:"-"` // cents, VAT excluded
	VAT6           int64              `gorm:"default:0" json:"-"`
	VAT12          int64              `gorm:"default:0" json:"-"`
	VAT21          int64              `gorm:"default:0" json:"-"`
	Total          int64              `gorm:"not null" json:"-"` // cents, VAT included
	PaymentMethod  enum.PaymentMethod `gorm:"size:10;not null" json:"payment_method"`
	AmountReceived int64              `gorm:"default:0" json:"-"`
	Change         int64              `gorm:"default:0" json:"-"`
	Discounts      []Discount         `gorm:"serializer:json" json:"discounts,omitempty"`
	LoyaltyCardID  *uuid.UUID         `gorm:"type:uuid;index" json:"loyalty_card_id,omitempty"`
	PointsEarned   int                `gorm:"default:0" json:"points_earned"`
	SoldAt         time.Time          `gorm:"not null;index" json:"sold_at"`
	CreatedAt      time.Time          `json:"created_at"`

	// Refund fields, the only mutable part of the record
	Refunded     bool                `gorm:"default:false" json:"refunded"`
	RefundMethod *enum.PaymentMethod `gorm:"size:10" json:"refund_method,omitempty"`
	RefundAmount int64               `gorm:"default:0" json:"-"`
	RefundedAt   *time.Time          `json:"refunded_at,omitempty"`
	FullRefund   bool                `gorm:"default:false" json:"full_refund"`

	// Relationships
	Items       []SaleItem   `gorm:"foreignKey:SaleID" json:"items,omitempty"`
	LoyaltyCard *LoyaltyCard `gorm:"foreignKey:LoyaltyCardID" json:"loyalty_card,omitempty"`
}

// BeforeCreate generates a UUID before creating a new sale
func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Sale model
func (Sale) TableName() string {
	return "sales"
}

// VATTotal returns the summed VAT across all three buckets, in cents
func (s *Sale) VATTotal() int64 {
	return s.VAT6 + s.VAT12 + s.VAT21
}

// GetTotalDecimal returns the total in euros
func (s *Sale) GetTotalDecimal() float64 {
	return float64(s.Total) / 100
}

// MarshalJSON converts the cent amounts to decimals for API responses
func (s Sale) MarshalJSON() ([]byte, error) {
	type Alias Sale
	return json.Marshal(&struct {
		Alias
		SubTotal       float64 `json:"subtotal"`
		VAT6           float64 `json:"vat_6"`
		VAT12          float64 `json:"vat_12"`
		VAT21          float64 `json:"vat_21"`
		Total          float64 `json:"total"`
		AmountReceived float64 `json:"amount_received"`
		Change         float64 `json:"change"`
		RefundAmount   float64 `json:"refund_amount,omitempty"`
	}{
		Alias:          Alias(s),
		SubTotal:       float64(s.SubTotal) / 100,
		VAT6:           float64(s.VAT6) / 100,
		VAT12:          float64(s.VAT12) / 100,
		VAT21:          float64(s.VAT21) / 100,
		Total:          float64(s.Total) / 100,
		AmountReceived: float64(s.AmountReceived) / 100,
		Change:         float64(s.Change) / 100,
		RefundAmount:   float64(s.RefundAmount) / 100,
	})
}

// UnmarshalJSON restores the cent amounts from the decimal fields, so
// a cached sale round-trips without losing the money columns
func (s *Sale) UnmarshalJSON(data []byte) error {
	type Alias Sale
	aux := &struct {
		*Alias
		SubTotal       float64 `json:"subtotal"`
		VAT6           float64 `json:"vat_6"`
		VAT12          float64 `json:"vat_12"`
		VAT21          float64 `json:"vat_21"`
		Total          float64 `json:"total"`
		AmountReceived float64 `json:"amount_received"`
		Change         float64 `json:"change"`
		RefundAmount   float64 `json:"refund_amount"`
	}{Alias: (*Alias)(s)}

	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}

	s.SubTotal = centsFromDecimal(aux.SubTotal)
	s.VAT6 = centsFromDecimal(aux.VAT6)
	s.VAT12 = centsFromDecimal(aux.VAT12)
	s.VAT21 = centsFromDecimal(aux.VAT21)
	s.Total = centsFromDecimal(aux.Total)
	s.AmountReceived = centsFromDecimal(aux.AmountReceived)
	s.Change = centsFromDecimal(aux.Change)
	s.RefundAmount = centsFromDecimal(aux.RefundAmount)
	return nil
}

func centsFromDecimal(v float64) int64 {
	if v < 0 {
		return -int64(-v*100 + 0.5)
	}
	return int64(v*100 + 0.5)
}

// SaleItem is one receipt line. The product fields are copied by value
// at sale time, so later catalog edits never change a recorded sale.
type SaleItem struct {
	ID          uuid.UUID    `gorm:"type:uuid;primary_key" json:"id"`
	SaleID      uuid.UUID    `gorm:"type:uuid;not null;index" json:"sale_id"`
	Line        int          `gorm:"not null" json:"line"` // receipt printing order
	ProductID   uuid.UUID    `gorm:"type:uuid;not null;index" json:"product_id"`
	ProductName string       `gorm:"size:255;not null" json:"product_name"`
	Category    string       `gorm:"size:255" json:"category"`
	UnitPrice   int64        `gorm:"not null" json:"-"` // cents at sale time
	VATRate     enum.VATRate `gorm:"not null" json:"vat_rate"`
	Promotion   *Promotion   `gorm:"serializer:json" json:"promotion,omitempty"`
	Quantity    int          `gorm:"not null" json:"quantity"`
	LineTotal   int64        `gorm:"not null" json:"-"` // cents after promotion
	CreatedAt   time.Time    `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new sale item
func (i *SaleItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SaleItem model
func (SaleItem) TableName() string {
	return "sale_items"
}

// MarshalJSON converts the cent amounts to decimals for API responses
func (i SaleItem) MarshalJSON() ([]byte, error) {
	type Alias SaleItem
	return json.Marshal(&struct {
		Alias
		UnitPrice float64 `json:"unit_price"`
		LineTotal float64 `json:"line_total"`
	}{
		Alias:     Alias(i),
		UnitPrice: float64(i.UnitPrice) / 100,
		LineTotal: float64(i.LineTotal) / 100,
	})
}

// UnmarshalJSON restores the cent amounts from the decimal fields
func (i *SaleItem) UnmarshalJSON(data []byte) error {
	type Alias SaleItem
	aux := &struct {
		*Alias
		UnitPrice float64 `json:"unit_price"`
		LineTotal float64 `json:"line_total"`
	}{Alias: (*Alias)(i)}

	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}

	i.UnitPrice = centsFromDecimal(aux.UnitPrice)
	i.LineTotal = centsFromDecimal(aux.LineTotal)
	return nil
}
