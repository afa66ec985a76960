package model

import "time"

// Room is an inventory item managed by staff; its ID carries the "I" prefix.
type Room struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty"`
	Number    string    `json:"number" bson:"number" validate:"required,min=1,max=10"`
	Type      string    `json:"type" bson:"type" validate:"required,oneof=standard deluxe suite"`
	Rate      float64   `json:"rate" bson:"rate" validate:"required,min=0"`
	Capacity  int       `json:"capacity" bson:"capacity" validate:"required,min=1,max=10"`
	Available bool      `json:"available" bson:"available"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

type RoomUpdate struct {
	Type      string   `json:"type,omitempty" validate:"omitempty,oneof=standard deluxe suite"`
	Rate      *float64 `json:"rate,omitempty" validate:"omitempty,min=0"`
	Capacity  *int     `json:"capacity,omitempty" validate:"omitempty,min=1,max=10"`
	Available *bool    `json:"available,omitempty"`
}

// Package bundles stays with extras (meals, spa, parking); "PKG" prefix.
type Package struct {
	ID         string    `json:"id,omitempty" bson:"_id,omitempty"`
	Name       string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Price      float64   `json:"price" bson:"price" validate:"required,min=0"`
	Inclusions []string  `json:"inclusions" bson:"inclusions" validate:"required,min=1,max=20,dive,min=2,max=100"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}

type PackageUpdate struct {
	Name       string    `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Price      *float64  `json:"price,omitempty" validate:"omitempty,min=0"`
	Inclusions *[]string `json:"inclusions,omitempty" validate:"omitempty,min=1,max=20,dive,min=2,max=100"`
}
