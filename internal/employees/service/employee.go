package service

import (
	"context"
	"errors"
	"sync"

	employeeserrors "hotelier/internal/employees/errors"
	"hotelier/internal/employees/repository"
	"hotelier/internal/employees/validator"
	"hotelier/pkg/config"
	apperrors "hotelier/pkg/errors"
	"hotelier/pkg/identifier"
	"hotelier/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

const maxCreateAttempts = 3

type EmployeeService interface {
	Create(ctx context.Context, employee *model.Employee) error
	GetByID(ctx context.Context, id string) (*model.Employee, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Employee, int64, error)
	Update(ctx context.Context, id string, updates *model.EmployeeUpdate) error
	Delete(ctx context.Context, id string) error
}

type employeeService struct {
	repo      repository.EmployeeRepository
	validator *validator.EmployeeValidator
	idgen     *identifier.Generator
	cfg       *config.Config
}

func NewEmployeeService(
	repo repository.EmployeeRepository,
	employeeValidator *validator.EmployeeValidator,
	idgen *identifier.Generator,
	cfg *config.Config,
) EmployeeService {
	return &employeeService{
		repo:      repo,
		validator: employeeValidator,
		idgen:     idgen,
		cfg:       cfg,
	}
}

func (s *employeeService) Create(ctx context.Context, employee *model.Employee) error {
	if err := s.validator.Validate(employee); err != nil {
		s.cfg.Log.Warn("Employee validation failed", "error", err)
		return apperrors.Validation("Employee validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.createWithFreshID(ctx, employee); err != nil {
		s.cfg.Log.Error("Failed to create employee", "email", employee.Email, "error", err)
		return err
	}

	s.cfg.Log.Info("Employee created", "id", employee.ID, "role", employee.Role)
	return nil
}

// createWithFreshID retries ID collisions but surfaces duplicate emails
// as a Conflict. A duplicate key error can mean either; the email probe
// disambiguates.
func (s *employeeService) createWithFreshID(ctx context.Context, employee *model.Employee) error {
	for attempt := 1; attempt <= maxCreateAttempts; attempt++ {
		id, err := s.idgen.Next(ctx, identifier.PrefixEmployee, s.repo)
		if err != nil {
			return apperrors.Internal("Failed to generate employee ID", err)
		}
		employee.ID = id

		err = s.repo.Create(ctx, employee)
		if err == nil {
			return nil
		}
		if !mongo.IsDuplicateKeyError(err) {
			return apperrors.Internal("Failed to create employee", err)
		}

		taken, probeErr := s.repo.ExistsByEmail(ctx, employee.Email)
		if probeErr != nil {
			return apperrors.Internal("Failed to verify employee email", probeErr)
		}
		if taken {
			return apperrors.Conflict("An employee with this email already exists")
		}
		s.cfg.Log.Warn("Employee ID collided, regenerating", "id", id, "attempt", attempt)
	}
	return apperrors.Internal("Failed to allocate a unique employee ID", nil)
}

func (s *employeeService) GetByID(ctx context.Context, id string) (*model.Employee, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Employee ID cannot be empty")
	}

	employee, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, employeeserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Employee", id)
		}
		return nil, apperrors.Internal("Failed to retrieve employee", err)
	}
	return employee, nil
}

func (s *employeeService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Employee, int64, error) {
	var count int64
	var employees []*model.Employee
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.Count(ctx)
		if err != nil {
			s.cfg.Log.Error("Failed to count employees", "error", err)
			errCount = apperrors.Internal("Failed to count employees", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		employees, err = s.repo.FindAll(ctx, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to list employees", "error", err)
			errFind = apperrors.Internal("Failed to retrieve employees", err)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}
	return employees, count, nil
}

func (s *employeeService) Update(ctx context.Context, id string, updates *model.EmployeeUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Employee ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, employeeserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Employee", id)
		}
		return apperrors.Internal("Failed to check employee existence", err)
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Employee update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := s.mergeEmployeeUpdates(existing, updates)
	if err := s.repo.Update(ctx, id, merged); err != nil {
		return apperrors.Internal("Failed to update employee", err)
	}

	s.cfg.Log.Info("Employee updated", "id", id)
	return nil
}

func (s *employeeService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Employee ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, employeeserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Employee", id)
		}
		return apperrors.Internal("Failed to delete employee", err)
	}

	s.cfg.Log.Info("Employee deleted", "id", id)
	return nil
}

func (s *employeeService) mergeEmployeeUpdates(existing *model.Employee, updates *model.EmployeeUpdate) *model.Employee {
	merged := *existing

	if updates.Name != "" {
		merged.Name = updates.Name
	}
	if updates.Role != "" {
		merged.Role = updates.Role
	}
	if updates.Phone != "" {
		merged.Phone = updates.Phone
	}
	if updates.Salary != nil {
		merged.Salary = *updates.Salary
	}

	return &merged
}
