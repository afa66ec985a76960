package validator

import (
	"time"

	"hotelier/pkg/logger"
	"hotelier/pkg/model"
	"hotelier/pkg/validation"
)

type ParkingValidator struct {
	logger *logger.Logger
}

func NewParkingValidator(log *logger.Logger) *ParkingValidator {
	return &ParkingValidator{logger: log}
}

func (v *ParkingValidator) Validate(booking *model.ParkingBooking) error {
	if err := validation.Struct(booking); err != nil {
		return err
	}

	// Date must parse; the struct tag already pins the layout, this
	// guards impossible calendar dates like 2026-02-31.
	if _, err := time.Parse("2006-01-02", booking.Date); err != nil {
		return validation.FieldErrors{
			validation.FieldError{
				Field:   "Date",
				Message: "date must be a valid calendar day in 2006-01-02 format",
			},
		}
	}

	return nil
}
