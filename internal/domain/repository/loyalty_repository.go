package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/mverbeke/kassa-api/internal/domain/entity"
	"github.com/mverbeke/kassa-api/pkg/pagination"
)

// LoyaltyCardRepository persists customer loyalty cards
type LoyaltyCardRepository interface {
	Create(ctx context.Context, card *entity.LoyaltyCard) error

	// GetByID returns (nil, nil) when no card matches.
	GetByID(ctx context.Context, id uuid.UUID) (*entity.LoyaltyCard, error)

	// GetByNumber returns (nil, nil) when no card matches.
	GetByNumber(ctx context.Context, number string) (*entity.LoyaltyCard, error)

	List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.LoyaltyCard, int64, error)
	Update(ctx context.Context, card *entity.LoyaltyCard) error
	Delete(ctx context.Context, id uuid.UUID) error
}
