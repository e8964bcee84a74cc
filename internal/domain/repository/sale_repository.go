package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mverbeke/kassa-api/internal/domain/entity"
)

// SaleFilterParams narrows sale listings. All filters are optional;
// results are always ordered newest-first by sale time.
type SaleFilterParams struct {
	EmployeeID *uuid.UUID
	StartDate  *time.Time // inclusive
	EndDate    *time.Time // inclusive
	Limit      int        // 0 means no limit
}

// SaleRepository persists sales. Create and Refund are atomic: the
// sale row, its items, the stock deltas and the movement audit rows
// commit or roll back together.
type SaleRepository interface {
	// Create persists the sale with its items and applies one stock
	// delta per movement. Movements carry the signed quantity delta;
	// the repository fills PreviousStock/NewStock from the product
	// rows it locks inside the transaction.
	Create(ctx context.Context, sale *entity.Sale, movements []entity.StockMovement) error

	// GetByID returns (nil, nil) when no sale matches.
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error)

	// GetByReceiptNumber returns (nil, nil) when no sale matches.
	GetByReceiptNumber(ctx context.Context, receiptNumber string) (*entity.Sale, error)

	// List returns sales matching the filters, newest-first.
	List(ctx context.Context, params *SaleFilterParams) ([]entity.Sale, error)

	// SumTotals returns the sum of sale totals (cents) in the
	// inclusive range. Zero matching sales yield 0, nil.
	SumTotals(ctx context.Context, start, end time.Time) (int64, error)

	// Refund writes the sale's refund fields and applies the stock
	// restoration movements in one transaction.
	Refund(ctx context.Context, sale *entity.Sale, movements []entity.StockMovement) error
}
