package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mverbeke/kassa-api/internal/domain/entity"
	domainRepo "github.com/mverbeke/kassa-api/internal/domain/repository"
	"github.com/mverbeke/kassa-api/pkg/pagination"
	"gorm.io/gorm"
)

type loyaltyCardRepository struct {
	db *gorm.DB
}

// NewLoyaltyCardRepository creates a new loyalty card repository
func NewLoyaltyCardRepository(db *gorm.DB) domainRepo.LoyaltyCardRepository {
	return &loyaltyCardRepository{db: db}
}

func (r *loyaltyCardRepository) Create(ctx context.Context, card *entity.LoyaltyCard) error {
	return r.db.WithContext(ctx).Create(card).Error
}

func (r *loyaltyCardRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.LoyaltyCard, error) {
	var card entity.LoyaltyCard
	err := r.db.WithContext(ctx).First(&card, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &card, err
}

func (r *loyaltyCardRepository) GetByNumber(ctx context.Context, number string) (*entity.LoyaltyCard, error) {
	var card entity.LoyaltyCard
	err := r.db.WithContext(ctx).First(&card, "number = ?", number).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &card, err
}

func (r *loyaltyCardRepository) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.LoyaltyCard, int64, error) {
	var cards []entity.LoyaltyCard
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.LoyaltyCard{})

	if search != "" {
		query = query.Where("number ILIKE ? OR customer_name ILIKE ?",
			"%"+search+"%", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("customer_name ASC").
		Find(&cards).Error

	return cards, total, err
}

func (r *loyaltyCardRepository) Update(ctx context.Context, card *entity.LoyaltyCard) error {
	return r.db.WithContext(ctx).Save(card).Error
}

func (r *loyaltyCardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.LoyaltyCard{}, "id = ?", id).Error
}
