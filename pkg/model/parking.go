package model

import "time"

const (
	ParkingDurationFullDay = "Full day"
	ParkingDuration12Hours = "12 hours"
	ParkingDuration6Hours  = "6 hours"
)

// ParkingBooking reserves one physical slot for one calendar date.
// Date is a "2006-01-02" string so (slot, date) forms a stable
// compound uniqueness key.
type ParkingBooking struct {
	ID            string    `json:"id,omitempty" bson:"_id,omitempty"`
	Slot          string    `json:"slot" bson:"slot" validate:"required"`
	Date          string    `json:"date" bson:"date" validate:"required,datetime=2006-01-02"`
	Duration      string    `json:"duration" bson:"duration" validate:"required,oneof='Full day' '12 hours' '6 hours'"`
	VehicleNumber string    `json:"vehicle_number" bson:"vehicle_number" validate:"required,min=2,max=20"`
	UserEmail     string    `json:"user_email" bson:"user_email" validate:"required,email"`
	Price         float64   `json:"price" bson:"price"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
}

// SlotAvailability is the availability view for one date.
type SlotAvailability struct {
	Date           string   `json:"date"`
	AvailableSlots []string `json:"available_slots"`
	BookedSlots    []string `json:"booked_slots"`
}
