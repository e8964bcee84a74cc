package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/mverbeke/kassa-api/internal/domain/entity"
	"github.com/mverbeke/kassa-api/internal/domain/repository"
	"github.com/mverbeke/kassa-api/pkg/apperror"
	"github.com/mverbeke/kassa-api/pkg/utils"
)

// AuthService handles employee login and token refresh
type AuthService struct {
	employeeRepo repository.EmployeeRepository
	jwtManager   *utils.JWTManager
}

// NewAuthService creates a new auth service
func NewAuthService(employeeRepo repository.EmployeeRepository, jwtManager *utils.JWTManager) *AuthService {
	return &AuthService{
		employeeRepo: employeeRepo,
		jwtManager:   jwtManager,
	}
}

// TokenPair represents the issued tokens
type TokenPair struct {
	AccessToken  string           `json:"access_token"`
	RefreshToken string           `json:"refresh_token"`
	Employee     *entity.Employee `json:"employee"`
}

// Login verifies an employee's PIN and issues a token pair. The same
// invalid-credentials error covers unknown email, wrong PIN and
// deactivated account, so the response does not leak which one it was.
func (s *AuthService) Login(ctx context.Context, email, pin string) (*TokenPair, error) {
	employee, err := s.employeeRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if employee == nil || !employee.Active || !employee.CheckPIN(pin) {
		return nil, apperror.ErrInvalidCredentials
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(employee.ID, employee.Email, employee.Role)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.jwtManager.GenerateRefreshToken(employee.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	employee.LastLogin = &now
	if err := s.employeeRepo.Update(ctx, employee); err != nil {
		log.Printf("Warning: failed to record last login for %s: %v", employee.Email, err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Employee:     employee,
	}, nil
}

// Refresh exchanges a valid refresh token for a new token pair
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	employeeID, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperror.ErrInvalidToken
	}

	employee, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if employee == nil || !employee.Active {
		return nil, apperror.ErrUnauthorized
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(employee.ID, employee.Email, employee.Role)
	if err != nil {
		return nil, err
	}
	newRefresh, err := s.jwtManager.GenerateRefreshToken(employee.ID)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: newRefresh,
		Employee:     employee,
	}, nil
}

// GetProfile returns the employee behind a token
func (s *AuthService) GetProfile(ctx context.Context, id uuid.UUID) (*entity.Employee, error) {
	employee, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, apperror.NewNotFoundError("Employee")
	}
	return employee, nil
}
