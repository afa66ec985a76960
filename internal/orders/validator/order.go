package validator

import (
	"hotelier/pkg/logger"
	"hotelier/pkg/model"
	"hotelier/pkg/validation"
)

type OrderValidator struct {
	logger *logger.Logger
}

func NewOrderValidator(log *logger.Logger) *OrderValidator {
	return &OrderValidator{logger: log}
}

func (v *OrderValidator) Validate(order *model.Order) error {
	if err := validation.Struct(order); err != nil {
		return err
	}

	switch order.Type {
	case model.OrderTypeRoomService:
		if order.RoomNumber == "" {
			return validation.FieldErrors{
				validation.FieldError{Field: "RoomNumber", Message: "room_number is required for room service orders"},
			}
		}
	case model.OrderTypeTakeaway, model.OrderTypeDelivery:
		if order.ScheduledAt == nil {
			return validation.FieldErrors{
				validation.FieldError{Field: "ScheduledAt", Message: "scheduled_at is required for takeaway and delivery orders"},
			}
		}
	}

	return nil
}

func (v *OrderValidator) ValidateUpdate(update *model.OrderUpdate) error {
	return validation.Struct(update)
}
