package model

import "time"

const (
	ReservationKindRoom    = "room"
	ReservationKindVenue   = "venue"
	ReservationKindPackage = "package"
)

const (
	StatusPending   = "Pending"
	StatusConfirmed = "Confirmed"
	StatusPreparing = "Preparing"
	StatusCompleted = "Completed"
	StatusCancelled = "Cancelled"
)

// Reservation covers room stays, venue bookings and package purchases.
// ID is the human-readable "Res"-prefixed identifier and doubles as the
// document key, so the primary index enforces uniqueness.
type Reservation struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty"`
	Kind        string    `json:"kind" bson:"kind" validate:"required,oneof=room venue package"`
	ResourceID  string    `json:"resource_id" bson:"resource_id" validate:"required,min=1,max=40"`
	GuestName   string    `json:"guest_name" bson:"guest_name" validate:"required,min=2,max=100"`
	GuestEmail  string    `json:"guest_email" bson:"guest_email" validate:"required,email"`
	CheckIn     time.Time `json:"check_in" bson:"check_in" validate:"required"`
	CheckOut    time.Time `json:"check_out" bson:"check_out" validate:"required"`
	Guests      int       `json:"guests" bson:"guests" validate:"required,min=1,max=50"`
	TotalAmount float64   `json:"total_amount" bson:"total_amount" validate:"omitempty,min=0"`
	Status      string    `json:"status" bson:"status" validate:"omitempty,oneof=Pending Confirmed Cancelled"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

type ReservationUpdate struct {
	GuestName   string     `json:"guest_name,omitempty" validate:"omitempty,min=2,max=100"`
	CheckIn     *time.Time `json:"check_in,omitempty"`
	CheckOut    *time.Time `json:"check_out,omitempty"`
	Guests      *int       `json:"guests,omitempty" validate:"omitempty,min=1,max=50"`
	TotalAmount *float64   `json:"total_amount,omitempty" validate:"omitempty,min=0"`
	Status      string     `json:"status,omitempty" validate:"omitempty,oneof=Pending Confirmed Cancelled"`
}
