package model

import "time"

type Employee struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty"`
	Name      string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Role      string    `json:"role" bson:"role" validate:"required,min=2,max=60"`
	Email     string    `json:"email" bson:"email" validate:"required,email"`
	Phone     string    `json:"phone" bson:"phone" validate:"required,min=7,max=20"`
	Salary    float64   `json:"salary" bson:"salary" validate:"min=0"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

type EmployeeUpdate struct {
	Name   string   `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Role   string   `json:"role,omitempty" validate:"omitempty,min=2,max=60"`
	Phone  string   `json:"phone,omitempty" validate:"omitempty,min=7,max=20"`
	Salary *float64 `json:"salary,omitempty" validate:"omitempty,min=0"`
}
