package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mverbeke/kassa-api/internal/domain/entity"
	"github.com/mverbeke/kassa-api/internal/domain/repository"
	"github.com/mverbeke/kassa-api/pkg/apperror"
)

// EmployeeService handles staff account management
type EmployeeService struct {
	employeeRepo repository.EmployeeRepository
}

// NewEmployeeService creates a new employee service
func NewEmployeeService(employeeRepo repository.EmployeeRepository) *EmployeeService {
	return &EmployeeService{employeeRepo: employeeRepo}
}

// EmployeeInput represents the create/update employee input
type EmployeeInput struct {
	FirstName string
	LastName  string
	Email     string
	PIN       string // empty on update keeps the current PIN
	Role      string
	Active    *bool
}

func validRole(role string) bool {
	return role == "admin" || role == "manager" || role == "cashier"
}

func validPIN(pin string) bool {
	if len(pin) < 4 || len(pin) > 6 {
		return false
	}
	for _, c := range pin {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// CreateEmployee registers a staff account
func (s *EmployeeService) CreateEmployee(ctx context.Context, input *EmployeeInput) (*entity.Employee, error) {
	var fieldErrors []apperror.FieldError
	if input.FirstName == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "first_name", Message: "First name is required"})
	}
	if input.Email == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "email", Message: "Email is required"})
	}
	if !validPIN(input.PIN) {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "pin", Message: "PIN must be 4 to 6 digits"})
	}
	if input.Role != "" && !validRole(input.Role) {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "role", Message: "Role must be admin, manager or cashier"})
	}
	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	existing, err := s.employeeRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError(fmt.Sprintf("Email %s is already registered", input.Email))
	}

	role := input.Role
	if role == "" {
		role = "cashier"
	}

	employee := &entity.Employee{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		Role:      role,
		Active:    true,
	}
	if err := employee.SetPIN(input.PIN); err != nil {
		return nil, err
	}

	if err := s.employeeRepo.Create(ctx, employee); err != nil {
		return nil, err
	}
	return employee, nil
}

// GetEmployee retrieves an employee by ID
func (s *EmployeeService) GetEmployee(ctx context.Context, id uuid.UUID) (*entity.Employee, error) {
	employee, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, apperror.NewNotFoundError("Employee")
	}
	return employee, nil
}

// ListEmployees returns all staff accounts
func (s *EmployeeService) ListEmployees(ctx context.Context) ([]entity.Employee, error) {
	return s.employeeRepo.List(ctx)
}

// UpdateEmployee updates a staff account. The PIN only changes when a
// new one is supplied.
func (s *EmployeeService) UpdateEmployee(ctx context.Context, id uuid.UUID, input *EmployeeInput) (*entity.Employee, error) {
	employee, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, apperror.NewNotFoundError("Employee")
	}

	if input.Email != "" && input.Email != employee.Email {
		existing, err := s.employeeRepo.GetByEmail(ctx, input.Email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apperror.NewConflictError(fmt.Sprintf("Email %s is already registered", input.Email))
		}
		employee.Email = input.Email
	}

	if input.FirstName != "" {
		employee.FirstName = input.FirstName
	}
	if input.LastName != "" {
		employee.LastName = input.LastName
	}
	if input.Role != "" {
		if !validRole(input.Role) {
			return nil, apperror.NewBadRequestError("Role must be admin, manager or cashier")
		}
		employee.Role = input.Role
	}
	if input.Active != nil {
		employee.Active = *input.Active
	}
	if input.PIN != "" {
		if !validPIN(input.PIN) {
			return nil, apperror.NewBadRequestError("PIN must be 4 to 6 digits")
		}
		if err := employee.SetPIN(input.PIN); err != nil {
			return nil, err
		}
	}

	if err := s.employeeRepo.Update(ctx, employee); err != nil {
		return nil, err
	}
	return employee, nil
}

// DeleteEmployee removes a staff account. Sales keep their employee
// attribution; the row is only soft-deleted.
func (s *EmployeeService) DeleteEmployee(ctx context.Context, id uuid.UUID) error {
	employee, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if employee == nil {
		return apperror.NewNotFoundError("Employee")
	}
	return s.employeeRepo.Delete(ctx, id)
}
