package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/mverbeke/kassa-api/internal/domain/entity"
)

// IdempotencyRepository stores processed request keys so a retried
// checkout cannot record the same sale twice
type IdempotencyRepository interface {
	// GetByKey returns (nil, nil) when the key has not been seen.
	GetByKey(ctx context.Context, key string, employeeID uuid.UUID) (*entity.IdempotencyKey, error)

	Create(ctx context.Context, ikey *entity.IdempotencyKey) error
	DeleteExpired(ctx context.Context) error
}
