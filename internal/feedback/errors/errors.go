package errors

import "errors"

var ErrNotFound = errors.New("feedback not found")
