package errors

import "errors"

var ErrNotFound = errors.New("employee not found")
