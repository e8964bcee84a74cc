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

// LoyaltyService handles loyalty card operations
type LoyaltyService struct {
	loyaltyRepo repository.LoyaltyCardRepository
}

// NewLoyaltyService creates a new loyalty service
func NewLoyaltyService(loyaltyRepo repository.LoyaltyCardRepository) *LoyaltyService {
	return &LoyaltyService{loyaltyRepo: loyaltyRepo}
}

// LoyaltyCardInput represents the create/update card input
type LoyaltyCardInput struct {
	Number       string
	CustomerName string
	Email        string
	Phone        *string
}

// CreateCard registers a new loyalty card
func (s *LoyaltyService) CreateCard(ctx context.Context, input *LoyaltyCardInput) (*entity.LoyaltyCard, error) {
	if input.Number == "" {
		return nil, apperror.NewBadRequestError("Card number is required")
	}
	if input.CustomerName == "" {
		return nil, apperror.NewBadRequestError("Customer name is required")
	}

	existing, err := s.loyaltyRepo.GetByNumber(ctx, input.Number)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError(fmt.Sprintf("Card number %s is already registered", input.Number))
	}

	card := &entity.LoyaltyCard{
		Number:       input.Number,
		CustomerName: input.CustomerName,
		Email:        input.Email,
		Phone:        input.Phone,
		Tier:         enum.TierBronze,
	}

	if err := s.loyaltyRepo.Create(ctx, card); err != nil {
		return nil, err
	}
	return card, nil
}

// GetCard retrieves a card by ID
func (s *LoyaltyService) GetCard(ctx context.Context, id uuid.UUID) (*entity.LoyaltyCard, error) {
	card, err := s.loyaltyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, apperror.NewNotFoundError("Loyalty card")
	}
	return card, nil
}

// GetCardByNumber retrieves a card by its number, the register's usual
// lookup path
func (s *LoyaltyService) GetCardByNumber(ctx context.Context, number string) (*entity.LoyaltyCard, error) {
	card, err := s.loyaltyRepo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, apperror.NewNotFoundError("Loyalty card")
	}
	return card, nil
}

// ListCards lists cards with an optional search on number or name
func (s *LoyaltyService) ListCards(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.LoyaltyCard], error) {
	if params == nil {
		params = pagination.DefaultPagination()
	}

	cards, total, err := s.loyaltyRepo.List(ctx, params, search)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(cards, pag), nil
}

// UpdateCard updates the customer details on a card
func (s *LoyaltyService) UpdateCard(ctx context.Context, id uuid.UUID, input *LoyaltyCardInput) (*entity.LoyaltyCard, error) {
	card, err := s.loyaltyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, apperror.NewNotFoundError("Loyalty card")
	}

	if input.Number != "" && input.Number != card.Number {
		existing, err := s.loyaltyRepo.GetByNumber(ctx, input.Number)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apperror.NewConflictError(fmt.Sprintf("Card number %s is already registered", input.Number))
		}
		card.Number = input.Number
	}
	if input.CustomerName != "" {
		card.CustomerName = input.CustomerName
	}
	card.Email = input.Email
	card.Phone = input.Phone

	if err := s.loyaltyRepo.Update(ctx, card); err != nil {
		return nil, err
	}
	return card, nil
}

// DeleteCard removes a loyalty card
func (s *LoyaltyService) DeleteCard(ctx context.Context, id uuid.UUID) error {
	card, err := s.loyaltyRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if card == nil {
		return apperror.NewNotFoundError("Loyalty card")
	}
	return s.loyaltyRepo.Delete(ctx, id)
}

// AwardPoints adds points to a card and recomputes its tier. The tier
// only ever moves up; points are not spent through this path.
func (s *LoyaltyService) AwardPoints(ctx context.Context, id uuid.UUID, points int) (*entity.LoyaltyCard, error) {
	if points <= 0 {
		return nil, apperror.NewBadRequestError("Points must be positive")
	}

	card, err := s.loyaltyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, apperror.NewNotFoundError("Loyalty card")
	}

	now := time.Now()
	card.Points += points
	card.Tier = enum.TierForPoints(card.Points)
	card.LastUsed = &now

	if err := s.loyaltyRepo.Update(ctx, card); err != nil {
		return nil, err
	}
	return card, nil
}
