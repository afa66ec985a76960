package errors

import "errors"

var (
	ErrNotFound    = errors.New("parking booking not found")
	ErrUnknownSlot = errors.New("slot is not part of the parking universe")
)
