package validator

import (
	"hotelier/pkg/logger"
	"hotelier/pkg/model"
	"hotelier/pkg/validation"
)

type EventValidator struct {
	logger *logger.Logger
}

func NewEventValidator(log *logger.Logger) *EventValidator {
	return &EventValidator{logger: log}
}

func (v *EventValidator) Validate(event *model.Event) error {
	return validation.Struct(event)
}

func (v *EventValidator) ValidateUpdate(update *model.EventUpdate) error {
	return validation.Struct(update)
}
