package errors

import "errors"

var (
	ErrNotFound = errors.New("form not found")

	ErrInvalidID = errors.New("invalid form ID format")
)
