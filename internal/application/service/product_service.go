package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mverbeke/kassa-api/internal/domain/entity"
	"github.com/mverbeke/kassa-api/internal/domain/enum"
	"github.com/mverbeke/kassa-api/internal/domain/repository"
	"github.com/mverbeke/kassa-api/pkg/apperror"
	"github.com/mverbeke/kassa-api/pkg/pagination"
)

// ProductService handles catalog and stock operations
type ProductService struct {
	productRepo  repository.ProductRepository
	movementRepo repository.StockMovementRepository
}

// NewProductService creates a new product service
func NewProductService(
	productRepo repository.ProductRepository,
	movementRepo repository.StockMovementRepository,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		movementRepo: movementRepo,
	}
}

// PromotionInput represents a promotion attached to a product
type PromotionInput struct {
	Type        enum.PromotionType
	Value       float64 // percent for percentage, euros for fixed
	Description string
	BuyQuantity int
	GetFree     int
	StartDate   time.Time
	EndDate     time.Time
}

// ProductInput represents the create/update product input
type ProductInput struct {
	Name              string
	Category          string
	Barcode           *string
	Price             float64 // euros, VAT-inclusive
	Stock             int
	LowStockThreshold int
	VATRate           enum.VATRate
	Supplier          *string
	Promotion         *PromotionInput
}

func (in *ProductInput) validate() error {
	var fieldErrors []apperror.FieldError
	if in.Name == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "name", Message: "Name is required"})
	}
	if in.Price < 0 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "price", Message: "Price cannot be negative"})
	}
	if !in.VATRate.Valid() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "vat_rate", Message: "VAT rate must be 6, 12 or 21"})
	}
	if in.Promotion != nil {
		if !in.Promotion.Type.Valid() {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: "promotion.type", Message: "Unknown promotion type"})
		}
		if in.Promotion.EndDate.Before(in.Promotion.StartDate) {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: "promotion.end_date", Message: "Promotion ends before it starts"})
		}
		if in.Promotion.Type == enum.PromotionBuyXGetY && (in.Promotion.BuyQuantity <= 0 || in.Promotion.GetFree <= 0) {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: "promotion.buy_quantity", Message: "Buy and free quantities must be positive"})
		}
	}
	if len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}
	return nil
}

func (in *ProductInput) promotion() *entity.Promotion {
	if in.Promotion == nil {
		return nil
	}
	value := int64(in.Promotion.Value)
	if in.Promotion.Type == enum.PromotionFixed {
		value = centsFromEuros(in.Promotion.Value)
	}
	return &entity.Promotion{
		Type:        in.Promotion.Type,
		Value:       value,
		Description: in.Promotion.Description,
		BuyQuantity: in.Promotion.BuyQuantity,
		GetFree:     in.Promotion.GetFree,
		StartDate:   in.Promotion.StartDate,
		EndDate:     in.Promotion.EndDate,
	}
}

// CreateProduct adds a catalog item
func (s *ProductService) CreateProduct(ctx context.Context, input *ProductInput) (*entity.Product, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	if input.Barcode != nil && *input.Barcode != "" {
		existing, err := s.productRepo.GetByBarcode(ctx, *input.Barcode)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apperror.NewConflictError(fmt.Sprintf("Barcode %s is already in use", *input.Barcode))
		}
	}

	product := &entity.Product{
		Name:              input.Name,
		Category:          input.Category,
		Barcode:           input.Barcode,
		Stock:             input.Stock,
		LowStockThreshold: input.LowStockThreshold,
		VATRate:           input.VATRate,
		Supplier:          input.Supplier,
		Promotion:         input.promotion(),
	}
	product.SetPriceFromDecimal(input.Price)

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// GetProduct retrieves a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// GetProductByBarcode retrieves a product by its barcode
func (s *ProductService) GetProductByBarcode(ctx context.Context, barcode string) (*entity.Product, error) {
	product, err := s.productRepo.GetByBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// ListProducts lists products with filtering
func (s *ProductService) ListProducts(ctx context.Context, params *repository.ProductFilterParams) (*pagination.PaginatedResult[entity.Product], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}

	products, total, err := s.productRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(products, pag), nil
}

// UpdateProduct updates a catalog item. Stock is not touched here;
// every stock change goes through AdjustStock so the audit trail stays
// complete.
func (s *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, input *ProductInput) (*entity.Product, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	if input.Barcode != nil && *input.Barcode != "" {
		existing, err := s.productRepo.GetByBarcode(ctx, *input.Barcode)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, apperror.NewConflictError(fmt.Sprintf("Barcode %s is already in use", *input.Barcode))
		}
	}

	product.Name = input.Name
	product.Category = input.Category
	product.Barcode = input.Barcode
	product.LowStockThreshold = input.LowStockThreshold
	product.VATRate = input.VATRate
	product.Supplier = input.Supplier
	product.Promotion = input.promotion()
	product.SetPriceFromDecimal(input.Price)

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes a catalog item
func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return apperror.NewNotFoundError("Product")
	}
	return s.productRepo.Delete(ctx, id)
}

// GetLowStockProducts returns products at or below their threshold
func (s *ProductService) GetLowStockProducts(ctx context.Context) ([]entity.Product, error) {
	return s.productRepo.GetLowStock(ctx)
}

// AdjustStockInput represents a manual stock mutation
type AdjustStockInput struct {
	ProductID  uuid.UUID
	Type       enum.MovementType
	Quantity   int // signed delta
	Reason     string
	EmployeeID uuid.UUID
}

// AdjustStock applies a signed stock delta and records the movement.
// Sale and return movements are written by the sale flow, not here.
func (s *ProductService) AdjustStock(ctx context.Context, input *AdjustStockInput) (*entity.StockMovement, error) {
	if input.Quantity == 0 {
		return nil, apperror.NewBadRequestError("Quantity cannot be zero")
	}
	switch input.Type {
	case enum.MovementAdjustment, enum.MovementReception, enum.MovementLoss, enum.MovementInventory:
	case enum.MovementSale, enum.MovementReturn:
		return nil, apperror.NewBadRequestError("Sale and return movements are recorded through the sale flow")
	default:
		return nil, apperror.NewBadRequestError(fmt.Sprintf("Unknown movement type %q", input.Type))
	}
	if input.Type == enum.MovementReception && input.Quantity < 0 {
		return nil, apperror.NewBadRequestError("A reception cannot decrease stock")
	}
	if input.Type == enum.MovementLoss && input.Quantity > 0 {
		return nil, apperror.NewBadRequestError("A loss cannot increase stock")
	}

	product, err := s.productRepo.GetByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	movement := &entity.StockMovement{
		ProductID:  input.ProductID,
		Type:       input.Type,
		Quantity:   input.Quantity,
		Reason:     input.Reason,
		EmployeeID: input.EmployeeID,
	}

	if err := s.productRepo.AdjustStock(ctx, movement); err != nil {
		return nil, err
	}
	return movement, nil
}

// GetStockHistory returns the movement audit trail for a product,
// newest-first
func (s *ProductService) GetStockHistory(ctx context.Context, productID uuid.UUID, limit int) ([]entity.StockMovement, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return s.movementRepo.ListByProduct(ctx, productID, limit)
}
