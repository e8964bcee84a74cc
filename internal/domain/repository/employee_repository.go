package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/mverbeke/kassa-api/internal/domain/entity"
)

// EmployeeRepository persists staff accounts
type EmployeeRepository interface {
	Create(ctx context.Context, employee *entity.Employee) error

	// GetByID returns (nil, nil) when no employee matches.
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Employee, error)

	// GetByEmail returns (nil, nil) when no employee matches.
	GetByEmail(ctx context.Context, email string) (*entity.Employee, error)

	List(ctx context.Context) ([]entity.Employee, error)
	Update(ctx context.Context, employee *entity.Employee) error
	Delete(ctx context.Context, id uuid.UUID) error
}
