package model

import "time"

// Event is a hotel-hosted happening (wedding, conference, tasting)
// that reminders reference by ID.
type Event struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty"`
	Name        string    `json:"name" bson:"name" validate:"required,min=2,max=150"`
	Venue       string    `json:"venue" bson:"venue" validate:"required,min=2,max=100"`
	Date        time.Time `json:"date" bson:"date" validate:"required"`
	Description string    `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=2000"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

type EventUpdate struct {
	Name        string     `json:"name,omitempty" validate:"omitempty,min=2,max=150"`
	Venue       string     `json:"venue,omitempty" validate:"omitempty,min=2,max=100"`
	Date        *time.Time `json:"date,omitempty"`
	Description string     `json:"description,omitempty" validate:"omitempty,max=2000"`
}
