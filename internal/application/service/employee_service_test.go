package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mverbeke/kassa-api/internal/application/service"
	"github.com/mverbeke/kassa-api/pkg/apperror"
)

func newEmployeeFixture() (*memStore, *service.EmployeeService) {
	store := newMemStore()
	return store, service.NewEmployeeService(&memEmployeeRepo{store: store})
}

func TestCreateEmployeeDefaultsToCashier(t *testing.T) {
	_, svc := newEmployeeFixture()

	employee, err := svc.CreateEmployee(context.Background(), &service.EmployeeInput{
		FirstName: "Karel",
		LastName:  "Maes",
		Email:     "karel@example.be",
		PIN:       "4512",
	})
	require.NoError(t, err)

	assert.Equal(t, "cashier", employee.Role)
	assert.True(t, employee.Active)
	assert.True(t, employee.CheckPIN("4512"))
	assert.False(t, employee.CheckPIN("0000"))
	assert.NotEmpty(t, employee.PINHash)
}

func TestCreateEmployeeValidation(t *testing.T) {
	_, svc := newEmployeeFixture()

	cases := []struct {
		name  string
		input service.EmployeeInput
	}{
		{"missing first name", service.EmployeeInput{Email: "a@b.be", PIN: "1234"}},
		{"missing email", service.EmployeeInput{FirstName: "A", PIN: "1234"}},
		{"pin too short", service.EmployeeInput{FirstName: "A", Email: "a@b.be", PIN: "12"}},
		{"pin too long", service.EmployeeInput{FirstName: "A", Email: "a@b.be", PIN: "1234567"}},
		{"pin not numeric", service.EmployeeInput{FirstName: "A", Email: "a@b.be", PIN: "12ab"}},
		{"bad role", service.EmployeeInput{FirstName: "A", Email: "a@b.be", PIN: "1234", Role: "owner"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateEmployee(context.Background(), &tc.input)
			require.Error(t, err)
			assert.Equal(t, 422, apperror.GetAppError(err).Code)
		})
	}
}

func TestCreateEmployeeDuplicateEmail(t *testing.T) {
	_, svc := newEmployeeFixture()

	_, err := svc.CreateEmployee(context.Background(), &service.EmployeeInput{
		FirstName: "Karel", Email: "karel@example.be", PIN: "4512",
	})
	require.NoError(t, err)

	_, err = svc.CreateEmployee(context.Background(), &service.EmployeeInput{
		FirstName: "Other", Email: "karel@example.be", PIN: "9999",
	})
	require.Error(t, err)
	assert.Equal(t, 409, apperror.GetAppError(err).Code)
}

func TestUpdateEmployeeKeepsPINWhenOmitted(t *testing.T) {
	_, svc := newEmployeeFixture()

	employee, err := svc.CreateEmployee(context.Background(), &service.EmployeeInput{
		FirstName: "Karel", Email: "karel@example.be", PIN: "4512",
	})
	require.NoError(t, err)

	updated, err := svc.UpdateEmployee(context.Background(), employee.ID, &service.EmployeeInput{
		FirstName: "Karel-Jan",
		Role:      "manager",
	})
	require.NoError(t, err)

	assert.Equal(t, "Karel-Jan", updated.FirstName)
	assert.Equal(t, "manager", updated.Role)
	assert.True(t, updated.CheckPIN("4512"))
}

func TestUpdateEmployeeDeactivates(t *testing.T) {
	_, svc := newEmployeeFixture()

	employee, err := svc.CreateEmployee(context.Background(), &service.EmployeeInput{
		FirstName: "Karel", Email: "karel@example.be", PIN: "4512",
	})
	require.NoError(t, err)

	inactive := false
	updated, err := svc.UpdateEmployee(context.Background(), employee.ID, &service.EmployeeInput{
		Active: &inactive,
	})
	require.NoError(t, err)
	assert.False(t, updated.Active)
}

func TestDeleteEmployeeNotFound(t *testing.T) {
	_, svc := newEmployeeFixture()

	err := svc.DeleteEmployee(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
}
