package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/mverbeke/kassa-api/internal/domain/entity"
	"github.com/mverbeke/kassa-api/internal/domain/enum"
	"github.com/mverbeke/kassa-api/internal/domain/repository"
	"github.com/mverbeke/kassa-api/internal/metrics"
	"github.com/mverbeke/kassa-api/pkg/apperror"
	"github.com/mverbeke/kassa-api/pkg/receipt"
)

// DefaultRecentLimit is used when no recent-sales window is configured.
const DefaultRecentLimit = 10

// SaleService handles checkout and sale queries
type SaleService struct {
	saleRepo    repository.SaleRepository
	productRepo repository.ProductRepository
	loyaltyRepo repository.LoyaltyCardRepository
	cache       repository.SalesCache
	recentLimit int
}

// NewSaleService creates a new sale service. recentLimit sets the
// recent-sales window cached and served by default.
func NewSaleService(
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	loyaltyRepo repository.LoyaltyCardRepository,
	cache repository.SalesCache,
	recentLimit int,
) *SaleService {
	if recentLimit <= 0 {
		recentLimit = DefaultRecentLimit
	}
	return &SaleService{
		saleRepo:    saleRepo,
		productRepo: productRepo,
		loyaltyRepo: loyaltyRepo,
		cache:       cache,
		recentLimit: recentLimit,
	}
}

// SaleItemInput represents one cart line
type SaleItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// DiscountInput represents an ad-hoc discount applied at the register
type DiscountInput struct {
	Type        string
	Value       float64 // euros
	Description string
}

// RecordSaleInput represents the checkout input
type RecordSaleInput struct {
	EmployeeID        uuid.UUID
	Items             []SaleItemInput
	PaymentMethod     enum.PaymentMethod
	AmountReceived    float64 // euros, cash only
	ReceiptNumber     string  // generated when empty
	Discounts         []DiscountInput
	LoyaltyCardNumber string
}

// RecordSale validates the cart, snapshots the products, prices
// promotions and discounts, computes the VAT breakdown and persists
// the sale together with its stock decrements in one transaction.
// Loyalty points are awarded after the commit.
func (s *SaleService) RecordSale(ctx context.Context, input *RecordSaleInput) (*entity.Sale, error) {
	if len(input.Items) == 0 {
		return nil, apperror.ErrEmptyCart
	}
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, apperror.NewBadRequestError("Item quantity must be positive")
		}
	}
	if !input.PaymentMethod.Valid() {
		return nil, apperror.NewBadRequestError(fmt.Sprintf("Unknown payment method %q", input.PaymentMethod))
	}

	// Resolve the loyalty card first so an unknown number fails before
	// anything is written
	var card *entity.LoyaltyCard
	if input.LoyaltyCardNumber != "" {
		var err error
		card, err = s.loyaltyRepo.GetByNumber(ctx, input.LoyaltyCardNumber)
		if err != nil {
			return nil, err
		}
		if card == nil {
			return nil, apperror.NewNotFoundError("Loyalty card")
		}
	}

	// Batch fetch all products in one query (prevents N+1)
	productIDs := make([]uuid.UUID, len(input.Items))
	for i, item := range input.Items {
		productIDs[i] = item.ProductID
	}

	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	productMap := make(map[uuid.UUID]*entity.Product, len(products))
	for i := range products {
		productMap[products[i].ID] = &products[i]
	}

	now := time.Now()

	// Snapshot each line and accumulate the VAT-inclusive gross per
	// VAT bucket
	items := make([]entity.SaleItem, 0, len(input.Items))
	bucketGross := make(map[enum.VATRate]int64, 3)
	var gross int64

	for i, item := range input.Items {
		product, exists := productMap[item.ProductID]
		if !exists {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("Product %s", item.ProductID))
		}

		lineTotal := product.LinePrice(item.Quantity, now)
		gross += lineTotal
		bucketGross[product.VATRate] += lineTotal

		var promo *entity.Promotion
		if product.Promotion.ActiveAt(now) {
			p := *product.Promotion
			promo = &p
		}

		items = append(items, entity.SaleItem{
			Line:        i + 1,
			ProductID:   product.ID,
			ProductName: product.Name,
			Category:    product.Category,
			UnitPrice:   product.Price,
			VATRate:     product.VATRate,
			Promotion:   promo,
			Quantity:    item.Quantity,
			LineTotal:   lineTotal,
		})
	}

	// Collect discounts: the loyalty tier discount plus whatever the
	// register added
	discounts := make([]entity.Discount, 0, len(input.Discounts)+1)
	var discountTotal int64

	if card != nil {
		if pct := card.Tier.DiscountPercent(); pct > 0 {
			value := gross * int64(pct) / 100
			discounts = append(discounts, entity.Discount{
				Type:        "loyalty",
				Value:       value,
				Description: fmt.Sprintf("%s tier %d%%", card.Tier, pct),
			})
			discountTotal += value
		}
	}
	for _, d := range input.Discounts {
		value := centsFromEuros(d.Value)
		if value <= 0 {
			continue
		}
		discounts = append(discounts, entity.Discount{
			Type:        d.Type,
			Value:       value,
			Description: d.Description,
		})
		discountTotal += value
	}
	if discountTotal > gross {
		discountTotal = gross
	}

	// Spread the discount over the VAT buckets in proportion to their
	// gross, then extract VAT from the discounted amounts. The bucket
	// sums add up to the discounted total exactly, so
	// total = subtotal + vat6 + vat12 + vat21 holds by construction.
	discounted := discountBuckets(bucketGross, gross, discountTotal)

	var vat6, vat12, vat21, total int64
	for rate, amount := range discounted {
		total += amount
		switch rate {
		case enum.VAT6:
			vat6 = rate.ExtractFromGross(amount)
		case enum.VAT12:
			vat12 = rate.ExtractFromGross(amount)
		case enum.VAT21:
			vat21 = rate.ExtractFromGross(amount)
		}
	}
	subTotal := total - vat6 - vat12 - vat21

	amountReceived := centsFromEuros(input.AmountReceived)
	var change int64
	if input.PaymentMethod == enum.PaymentCash {
		if amountReceived < total {
			return nil, apperror.NewBadRequestError("Amount received is less than the total")
		}
		change = amountReceived - total
	} else {
		amountReceived = total
	}

	receiptNumber := input.ReceiptNumber
	if receiptNumber == "" {
		receiptNumber = receipt.Generate()
	}

	var pointsEarned int
	var cardID *uuid.UUID
	if card != nil {
		pointsEarned = int(float64(total/100) * card.Tier.PointsMultiplier())
		cardID = &card.ID
	}

	sale := &entity.Sale{
		ReceiptNumber:  receiptNumber,
		EmployeeID:     input.EmployeeID,
		SubTotal:       subTotal,
		VAT6:           vat6,
		VAT12:          vat12,
		VAT21:          vat21,
		Total:          total,
		PaymentMethod:  input.PaymentMethod,
		AmountReceived: amountReceived,
		Change:         change,
		Discounts:      discounts,
		LoyaltyCardID:  cardID,
		PointsEarned:   pointsEarned,
		SoldAt:         now,
		Items:          items,
	}

	movements := make([]entity.StockMovement, 0, len(items))
	for _, item := range items {
		movements = append(movements, entity.StockMovement{
			ProductID:  item.ProductID,
			Type:       enum.MovementSale,
			Quantity:   -item.Quantity,
			Reason:     "Sale",
			EmployeeID: input.EmployeeID,
			Reference:  receiptNumber,
		})
	}

	if err := s.saleRepo.Create(ctx, sale, movements); err != nil {
		return nil, err
	}

	// Points are a courtesy, never worth failing a committed sale over
	if card != nil && pointsEarned > 0 {
		card.Points += pointsEarned
		card.Tier = enum.TierForPoints(card.Points)
		card.LastUsed = &now
		if err := s.loyaltyRepo.Update(ctx, card); err != nil {
			log.Printf("Warning: failed to award %d points to card %s: %v", pointsEarned, card.Number, err)
		}
	}

	s.cache.Invalidate(ctx)

	metrics.SalesRecorded.WithLabelValues(string(input.PaymentMethod)).Inc()
	metrics.SalesAmount.WithLabelValues(string(input.PaymentMethod)).Add(float64(total))

	return sale, nil
}

// discountBuckets spreads discount over the buckets in proportion to
// their share of gross, pushing the rounding remainder onto the
// largest bucket so the discounted sums stay exact.
func discountBuckets(bucketGross map[enum.VATRate]int64, gross, discount int64) map[enum.VATRate]int64 {
	discounted := make(map[enum.VATRate]int64, len(bucketGross))
	if gross == 0 || discount == 0 {
		for rate, amount := range bucketGross {
			discounted[rate] = amount
		}
		return discounted
	}

	var allocated int64
	var largest enum.VATRate
	var largestGross int64
	for rate, amount := range bucketGross {
		share := discount * amount / gross
		discounted[rate] = amount - share
		allocated += share
		if amount > largestGross {
			largest = rate
			largestGross = amount
		}
	}
	discounted[largest] -= discount - allocated
	return discounted
}

func centsFromEuros(v float64) int64 {
	if v < 0 {
		return -int64(-v*100 + 0.5)
	}
	return int64(v*100 + 0.5)
}

// GetSales returns all sales, newest-first
func (s *SaleService) GetSales(ctx context.Context) ([]entity.Sale, error) {
	return s.saleRepo.List(ctx, &repository.SaleFilterParams{})
}

// GetSaleByID returns one sale or a not-found error
func (s *SaleService) GetSaleByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	sale, err := s.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	return sale, nil
}

// GetSalesByDate returns the sales in the inclusive day range,
// newest-first. The bounds are clamped to the start and end of their
// days, so passing the same date twice yields that whole day.
func (s *SaleService) GetSalesByDate(ctx context.Context, start, end time.Time) ([]entity.Sale, error) {
	if end.Before(start) {
		return nil, apperror.NewBadRequestError("End date is before start date")
	}

	dayStart := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	dayEnd := time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 999999999, end.Location())

	return s.saleRepo.List(ctx, &repository.SaleFilterParams{
		StartDate: &dayStart,
		EndDate:   &dayEnd,
	})
}

// GetSalesByEmployee returns one employee's sales, newest-first
func (s *SaleService) GetSalesByEmployee(ctx context.Context, employeeID uuid.UUID) ([]entity.Sale, error) {
	return s.saleRepo.List(ctx, &repository.SaleFilterParams{
		EmployeeID: &employeeID,
	})
}

// GetRecentSales returns the newest count sales, served from the cache
// when it is warm. On a miss the full recent window is fetched and
// cached, so an entry warmed by a small request still answers wider
// ones up to the window.
func (s *SaleService) GetRecentSales(ctx context.Context, count int) ([]entity.Sale, error) {
	if count <= 0 {
		count = s.recentLimit
	}

	if sales, ok := s.cache.GetRecent(ctx, count); ok {
		metrics.CacheHits.Inc()
		return sales, nil
	}
	metrics.CacheMisses.Inc()

	window := s.recentLimit
	if count > window {
		window = count
	}
	sales, err := s.saleRepo.List(ctx, &repository.SaleFilterParams{Limit: window})
	if err != nil {
		return nil, err
	}

	s.cache.SetRecent(ctx, sales)
	if len(sales) > count {
		sales = sales[:count]
	}
	return sales, nil
}

// CalculateSalesTotal sums the sale totals in the inclusive range,
// in cents. An empty range is 0, not an error.
func (s *SaleService) CalculateSalesTotal(ctx context.Context, start, end time.Time) (int64, error) {
	if end.Before(start) {
		return 0, apperror.NewBadRequestError("End date is before start date")
	}
	return s.saleRepo.SumTotals(ctx, start, end)
}

// RefundSaleInput represents a refund request
type RefundSaleInput struct {
	EmployeeID uuid.UUID
	Amount     float64             // euros; 0 means full refund
	Method     *enum.PaymentMethod // defaults to the original payment method
}

// RefundSale refunds a sale, fully or partially. A full refund returns
// every item to stock through "return" movements; a partial refund is
// money-only.
func (s *SaleService) RefundSale(ctx context.Context, saleID uuid.UUID, input *RefundSaleInput) (*entity.Sale, error) {
	sale, err := s.saleRepo.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	if sale.Refunded {
		return nil, apperror.ErrAlreadyRefunded
	}

	amount := centsFromEuros(input.Amount)
	if amount < 0 || amount > sale.Total {
		return nil, apperror.NewBadRequestError("Refund amount exceeds the sale total")
	}
	full := amount == 0 || amount == sale.Total
	if full {
		amount = sale.Total
	}

	method := sale.PaymentMethod
	if input.Method != nil {
		if !input.Method.Valid() {
			return nil, apperror.NewBadRequestError(fmt.Sprintf("Unknown refund method %q", *input.Method))
		}
		method = *input.Method
	}

	now := time.Now()
	sale.Refunded = true
	sale.RefundMethod = &method
	sale.RefundAmount = amount
	sale.RefundedAt = &now
	sale.FullRefund = full

	var movements []entity.StockMovement
	if full {
		for _, item := range sale.Items {
			movements = append(movements, entity.StockMovement{
				ProductID:  item.ProductID,
				Type:       enum.MovementReturn,
				Quantity:   item.Quantity,
				Reason:     "Refund",
				EmployeeID: input.EmployeeID,
				Reference:  sale.ReceiptNumber,
			})
		}
	}

	if err := s.saleRepo.Refund(ctx, sale, movements); err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx)
	metrics.RefundsRecorded.Inc()

	return sale, nil
}
