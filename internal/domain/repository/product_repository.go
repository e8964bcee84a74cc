package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/mverbeke/kassa-api/internal/domain/entity"
	"github.com/mverbeke/kassa-api/pkg/pagination"
)

// ProductFilterParams narrows product listings
type ProductFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Category   string
	LowStock   bool
}

// ProductRepository persists catalog items and their stock levels
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error

	// GetByID returns (nil, nil) when no product matches.
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)

	// GetByIDs fetches multiple products in a single query.
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error)

	// GetByBarcode returns (nil, nil) when no product matches.
	GetByBarcode(ctx context.Context, barcode string) (*entity.Product, error)

	List(ctx context.Context, params *ProductFilterParams) ([]entity.Product, int64, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetLowStock(ctx context.Context) ([]entity.Product, error)

	// AdjustStock applies the movement's signed quantity delta to the
	// product's stock and records the movement, atomically. The
	// movement's PreviousStock/NewStock are filled in.
	AdjustStock(ctx context.Context, movement *entity.StockMovement) error
}

// StockMovementRepository reads the inventory audit trail. Writes
// happen only through SaleRepository and ProductRepository, which
// insert movements inside their transactions.
type StockMovementRepository interface {
	ListByProduct(ctx context.Context, productID uuid.UUID, limit int) ([]entity.StockMovement, error)
	ListByReference(ctx context.Context, reference string) ([]entity.StockMovement, error)
}
