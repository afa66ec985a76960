package errors

import "errors"

var ErrNotFound = errors.New("reminder not found")
