package errors

import "errors"

var ErrNotFound = errors.New("booking not found")
var ErrInvalidTransition = errors.New("status transition is not allowed")
var ErrVersionConflict = errors.New("booking was modified concurrently")
