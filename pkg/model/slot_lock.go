package model

import "time"

// SlotLock is an advisory lock document guarding a resource-allocation
// window (a parking slot+date, a takeaway slot bucket). The _id is the
// lock key; inserting a duplicate reports the conflict.
type SlotLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
