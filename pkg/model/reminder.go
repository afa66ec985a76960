package model

import "time"

// Reminder asks for an email nudge about an event at RemindAt.
// The sweep flips Sent exactly once per successful delivery.
type Reminder struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	UserEmail string    `json:"user_email" bson:"user_email" validate:"required,email"`
	EventID   string    `json:"event_id" bson:"event_id" validate:"required,min=1,max=40"`
	RemindAt  time.Time `json:"remind_at" bson:"remind_at" validate:"required"`
	Sent      bool      `json:"sent" bson:"sent"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
