package model

import "time"

const (
	OrderTypeRoomService = "room_service"
	OrderTypeTakeaway    = "takeaway"
	OrderTypeDelivery    = "delivery"
)

type OrderItem struct {
	Name  string  `json:"name" bson:"name" validate:"required,min=1,max=100"`
	Price float64 `json:"price" bson:"price" validate:"min=0"`
	Note  string  `json:"note,omitempty" bson:"note,omitempty" validate:"omitempty,max=300"`
}

// Order is a room-service or takeaway/delivery food order. Takeaway and
// delivery orders carry a scheduled pickup time that must land in one of
// the fixed half-hour slots.
type Order struct {
	ID            string      `json:"id,omitempty" bson:"_id,omitempty"`
	Type          string      `json:"type" bson:"type" validate:"required,oneof=room_service takeaway delivery"`
	CustomerName  string      `json:"customer_name" bson:"customer_name" validate:"required,min=2,max=100"`
	CustomerEmail string      `json:"customer_email" bson:"customer_email" validate:"required,email"`
	RoomNumber    string      `json:"room_number,omitempty" bson:"room_number,omitempty" validate:"omitempty,max=10"`
	Items         []OrderItem `json:"items" bson:"items" validate:"required,min=1,max=50,dive"`
	Status        string      `json:"status" bson:"status" validate:"omitempty,oneof=Pending Preparing Completed Cancelled"`
	ScheduledAt   *time.Time  `json:"scheduled_at,omitempty" bson:"scheduled_at,omitempty"`
	Total         float64     `json:"total" bson:"total"`
	CreatedAt     time.Time   `json:"created_at" bson:"created_at"`
}

type OrderUpdate struct {
	Items       *[]OrderItem `json:"items,omitempty" validate:"omitempty,min=1,max=50,dive"`
	Status      string       `json:"status,omitempty" validate:"omitempty,oneof=Pending Preparing Completed Cancelled"`
	ScheduledAt *time.Time   `json:"scheduled_at,omitempty"`
}

// TakeawaySlot is the availability view for one half-hour pickup window.
type TakeawaySlot struct {
	Time             string `json:"time"`
	IsPast           bool   `json:"is_past"`
	Availability     int    `json:"availability"`
	EstimatedPrepMin int    `json:"estimated_prep_min"`
}
