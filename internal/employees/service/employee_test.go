package service

import (
	"context"
	"io"
	"strings"
	"testing"

	employeeserrors "hotelier/internal/employees/errors"
	"hotelier/internal/employees/validator"
	"hotelier/pkg/config"
	apperrors "hotelier/pkg/errors"
	"hotelier/pkg/identifier"
	"hotelier/pkg/logger"
	"hotelier/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

type fakeEmployeeRepo struct {
	byID    map[string]*model.Employee
	byEmail map[string]string
}

func newFakeEmployeeRepo() *fakeEmployeeRepo {
	return &fakeEmployeeRepo{
		byID:    make(map[string]*model.Employee),
		byEmail: make(map[string]string),
	}
}

func dupErr() error {
	return mongo.WriteException{
		WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "duplicate key"}},
	}
}

func (r *fakeEmployeeRepo) Create(_ context.Context, employee *model.Employee) error {
	if _, ok := r.byID[employee.ID]; ok {
		return dupErr()
	}
	if _, ok := r.byEmail[employee.Email]; ok {
		return dupErr()
	}
	copied := *employee
	r.byID[employee.ID] = &copied
	r.byEmail[employee.Email] = employee.ID
	return nil
}

func (r *fakeEmployeeRepo) FindByID(_ context.Context, id string) (*model.Employee, error) {
	e, ok := r.byID[id]
	if !ok {
		return nil, employeeserrors.ErrNotFound
	}
	return e, nil
}

func (r *fakeEmployeeRepo) FindAll(_ context.Context, _ int, _ int64) ([]*model.Employee, error) {
	var out []*model.Employee
	for _, e := range r.byID {
		out = append(out, e)
	}
	return out, nil
}

func (r *fakeEmployeeRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.byID)), nil
}

func (r *fakeEmployeeRepo) Update(_ context.Context, id string, employee *model.Employee) error {
	if _, ok := r.byID[id]; !ok {
		return employeeserrors.ErrNotFound
	}
	copied := *employee
	r.byID[id] = &copied
	return nil
}

func (r *fakeEmployeeRepo) Delete(_ context.Context, id string) error {
	e, ok := r.byID[id]
	if !ok {
		return employeeserrors.ErrNotFound
	}
	delete(r.byID, id)
	delete(r.byEmail, e.Email)
	return nil
}

func (r *fakeEmployeeRepo) Exists(_ context.Context, id string) (bool, error) {
	_, ok := r.byID[id]
	return ok, nil
}

func (r *fakeEmployeeRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, ok := r.byEmail[email]
	return ok, nil
}

func (r *fakeEmployeeRepo) LastID(_ context.Context, prefix string) (string, error) {
	last := ""
	for id := range r.byID {
		if strings.HasPrefix(id, prefix) && id > last {
			last = id
		}
	}
	return last, nil
}

func (r *fakeEmployeeRepo) EnsureIndexes(context.Context) error {
	return nil
}

func newTestEmployeeService(repo *fakeEmployeeRepo) EmployeeService {
	cfg := &config.Config{
		Log: logger.New(logger.Config{Level: "error", Output: io.Discard}),
	}
	idgen, err := identifier.New(identifier.StrategySequential, 6)
	if err != nil {
		panic(err)
	}
	return NewEmployeeService(repo, validator.NewEmployeeValidator(cfg.Log), idgen, cfg)
}

func staffMember(email string) *model.Employee {
	return &model.Employee{
		Name:   "Ravi Kumar",
		Role:   "Concierge",
		Email:  email,
		Phone:  "+91-9876543210",
		Salary: 42000,
	}
}

func TestCreateEmployee(t *testing.T) {
	svc := newTestEmployeeService(newFakeEmployeeRepo())

	employee := staffMember("ravi@hotel.example")
	if err := svc.Create(context.Background(), employee); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(employee.ID, identifier.PrefixEmployee) {
		t.Fatalf("expected E-prefixed ID, got %s", employee.ID)
	}
}

func TestCreateDuplicateEmailConflicts(t *testing.T) {
	svc := newTestEmployeeService(newFakeEmployeeRepo())

	if err := svc.Create(context.Background(), staffMember("ravi@hotel.example")); err != nil {
		t.Fatal(err)
	}

	err := svc.Create(context.Background(), staffMember("ravi@hotel.example"))
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeConflict {
		t.Fatalf("expected CONFLICT for duplicate email, got %v", err)
	}
}

func TestUpdateEmployeeMergesFields(t *testing.T) {
	repo := newFakeEmployeeRepo()
	svc := newTestEmployeeService(repo)

	employee := staffMember("ravi@hotel.example")
	if err := svc.Create(context.Background(), employee); err != nil {
		t.Fatal(err)
	}

	salary := 48000.0
	if err := svc.Update(context.Background(), employee.ID, &model.EmployeeUpdate{Salary: &salary}); err != nil {
		t.Fatal(err)
	}

	got, err := svc.GetByID(context.Background(), employee.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Salary != 48000 {
		t.Fatalf("expected salary 48000, got %v", got.Salary)
	}
	if got.Role != "Concierge" {
		t.Fatalf("unset fields must keep their values, got role %s", got.Role)
	}
}

func TestDeleteMissingEmployee(t *testing.T) {
	svc := newTestEmployeeService(newFakeEmployeeRepo())

	err := svc.Delete(context.Background(), "E999999")
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}
