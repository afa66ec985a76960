package validator

import (
	"hotelier/pkg/logger"
	"hotelier/pkg/model"
	"hotelier/pkg/validation"
)

type EmployeeValidator struct {
	logger *logger.Logger
}

func NewEmployeeValidator(log *logger.Logger) *EmployeeValidator {
	return &EmployeeValidator{logger: log}
}

func (v *EmployeeValidator) Validate(employee *model.Employee) error {
	return validation.Struct(employee)
}

func (v *EmployeeValidator) ValidateUpdate(update *model.EmployeeUpdate) error {
	return validation.Struct(update)
}
