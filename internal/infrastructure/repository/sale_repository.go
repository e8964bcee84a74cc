package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mverbeke/kassa-api/internal/domain/entity"
	domainRepo "github.com/mverbeke/kassa-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type saleRepository struct {
	db *gorm.DB
}

// NewSaleRepository creates a new sale repository
func NewSaleRepository(db *gorm.DB) domainRepo.SaleRepository {
	return &saleRepository{db: db}
}

// applyMovement locks the product row, fills the movement's before and
// after stock levels, writes the new stock and records the movement.
// Must run inside a transaction.
func applyMovement(tx *gorm.DB, m *entity.StockMovement) error {
	var product entity.Product
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&product, "id = ?", m.ProductID).Error; err != nil {
		return err
	}

	m.PreviousStock = product.Stock
	m.NewStock = product.Stock + m.Quantity

	if err := tx.Model(&entity.Product{}).
		Where("id = ?", m.ProductID).
		Update("stock", m.NewStock).Error; err != nil {
		return err
	}

	return tx.Create(m).Error
}

// Create persists the sale with its items, decrements stock and writes
// the movement audit rows in one transaction. A failure on any step
// rolls back everything, so a sale is never recorded against stale
// stock levels.
func (r *saleRepository) Create(ctx context.Context, sale *entity.Sale, movements []entity.StockMovement) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(sale).Error; err != nil {
			return err
		}

		for i := range movements {
			if err := applyMovement(tx, &movements[i]); err != nil {
				return err
			}
		}

		return nil
	})
}

func (r *saleRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	var sale entity.Sale
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("LoyaltyCard").
		First(&sale, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &sale, err
}

func (r *saleRepository) GetByReceiptNumber(ctx context.Context, receiptNumber string) (*entity.Sale, error) {
	var sale entity.Sale
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("LoyaltyCard").
		First(&sale, "receipt_number = ?", receiptNumber).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &sale, err
}

func (r *saleRepository) List(ctx context.Context, params *domainRepo.SaleFilterParams) ([]entity.Sale, error) {
	var sales []entity.Sale

	query := r.db.WithContext(ctx).Model(&entity.Sale{})

	if params.EmployeeID != nil {
		query = query.Where("employee_id = ?", *params.EmployeeID)
	}

	if params.StartDate != nil {
		query = query.Where("sold_at >= ?", *params.StartDate)
	}

	if params.EndDate != nil {
		query = query.Where("sold_at <= ?", *params.EndDate)
	}

	if params.Limit > 0 {
		query = query.Limit(params.Limit)
	}

	err := query.
		Preload("Items").
		Order("sold_at DESC").
		Find(&sales).Error

	return sales, err
}

func (r *saleRepository) SumTotals(ctx context.Context, start, end time.Time) (int64, error) {
	var sum int64
	err := r.db.WithContext(ctx).Model(&entity.Sale{}).
		Where("sold_at >= ? AND sold_at <= ?", start, end).
		Select("COALESCE(SUM(total), 0)").
		Scan(&sum).Error
	return sum, err
}

// Refund writes the sale's refund fields and restores stock through the
// movement audit rows in one transaction.
func (r *saleRepository) Refund(ctx context.Context, sale *entity.Sale, movements []entity.StockMovement) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entity.Sale{}).
			Where("id = ?", sale.ID).
			Updates(map[string]interface{}{
				"refunded":      sale.Refunded,
				"refund_method": sale.RefundMethod,
				"refund_amount": sale.RefundAmount,
				"refunded_at":   sale.RefundedAt,
				"full_refund":   sale.FullRefund,
			}).Error; err != nil {
			return err
		}

		for i := range movements {
			if err := applyMovement(tx, &movements[i]); err != nil {
				return err
			}
		}

		return nil
	})
}
