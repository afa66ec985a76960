package validator

import (
	"hotelier/pkg/logger"
	"hotelier/pkg/model"
	"hotelier/pkg/validation"
)

type ReservationValidator struct {
	logger *logger.Logger
}

func NewReservationValidator(log *logger.Logger) *ReservationValidator {
	return &ReservationValidator{logger: log}
}

func (v *ReservationValidator) Validate(reservation *model.Reservation) error {
	if err := validation.Struct(reservation); err != nil {
		return err
	}

	if !reservation.CheckOut.After(reservation.CheckIn) {
		return validation.FieldErrors{
			validation.FieldError{Field: "CheckOut", Message: "check_out must be after check_in"},
		}
	}

	return nil
}

func (v *ReservationValidator) ValidateUpdate(update *model.ReservationUpdate) error {
	if err := validation.Struct(update); err != nil {
		return err
	}

	if update.CheckIn != nil && update.CheckOut != nil && !update.CheckOut.After(*update.CheckIn) {
		return validation.FieldErrors{
			validation.FieldError{Field: "CheckOut", Message: "check_out must be after check_in"},
		}
	}

	return nil
}
