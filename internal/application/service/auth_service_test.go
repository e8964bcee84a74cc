package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mverbeke/kassa-api/internal/application/service"
	"github.com/mverbeke/kassa-api/internal/domain/entity"
	"github.com/mverbeke/kassa-api/pkg/apperror"
	"github.com/mverbeke/kassa-api/pkg/utils"
)

func newAuthFixture(t *testing.T) (*memStore, *service.AuthService, *utils.JWTManager) {
	t.Helper()
	store := newMemStore()
	jwtManager := utils.NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	svc := service.NewAuthService(&memEmployeeRepo{store: store}, jwtManager)
	return store, svc, jwtManager
}

func seedEmployee(t *testing.T, store *memStore, email, pin string, active bool) *entity.Employee {
	t.Helper()
	employee := &entity.Employee{
		FirstName: "Lena",
		LastName:  "De Smet",
		Email:     email,
		Role:      "cashier",
		Active:    active,
	}
	require.NoError(t, employee.SetPIN(pin))
	require.NoError(t, (&memEmployeeRepo{store: store}).Create(context.Background(), employee))
	return employee
}

func TestLoginIssuesTokenPair(t *testing.T) {
	store, svc, jwtManager := newAuthFixture(t)
	employee := seedEmployee(t, store, "lena@example.be", "1234", true)

	tokens, err := svc.Login(context.Background(), "lena@example.be", "1234")
	require.NoError(t, err)

	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	require.NotNil(t, tokens.Employee)
	assert.Equal(t, employee.ID, tokens.Employee.ID)

	claims, err := jwtManager.ValidateAccessToken(tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, employee.ID, claims.EmployeeID)
	assert.Equal(t, "cashier", claims.Role)

	// Last login gets stamped
	stored, err := (&memEmployeeRepo{store: store}).GetByID(context.Background(), employee.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.LastLogin)
}

func TestLoginFailuresAreUniform(t *testing.T) {
	store, svc, _ := newAuthFixture(t)
	seedEmployee(t, store, "lena@example.be", "1234", true)
	seedEmployee(t, store, "inactive@example.be", "1234", false)

	cases := []struct {
		name  string
		email string
		pin   string
	}{
		{"unknown email", "nobody@example.be", "1234"},
		{"wrong pin", "lena@example.be", "9999"},
		{"deactivated account", "inactive@example.be", "1234"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), tc.email, tc.pin)
			assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
		})
	}
}

func TestRefreshRotatesTokens(t *testing.T) {
	store, svc, _ := newAuthFixture(t)
	seedEmployee(t, store, "lena@example.be", "1234", true)

	tokens, err := svc.Login(context.Background(), "lena@example.be", "1234")
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.NotEmpty(t, refreshed.RefreshToken)
}

func TestRefreshRejectsGarbageToken(t *testing.T) {
	_, svc, _ := newAuthFixture(t)

	_, err := svc.Refresh(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, apperror.ErrInvalidToken)
}

func TestRefreshRejectsDeactivatedEmployee(t *testing.T) {
	store, svc, _ := newAuthFixture(t)
	employee := seedEmployee(t, store, "lena@example.be", "1234", true)

	tokens, err := svc.Login(context.Background(), "lena@example.be", "1234")
	require.NoError(t, err)

	employee.Active = false
	require.NoError(t, (&memEmployeeRepo{store: store}).Update(context.Background(), employee))

	_, err = svc.Refresh(context.Background(), tokens.RefreshToken)
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestRefreshRejectsAccessTokenAsRefresh(t *testing.T) {
	store, svc, _ := newAuthFixture(t)
	seedEmployee(t, store, "lena@example.be", "1234", true)

	tokens, err := svc.Login(context.Background(), "lena@example.be", "1234")
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), tokens.AccessToken)
	assert.ErrorIs(t, err, apperror.ErrInvalidToken)
}
