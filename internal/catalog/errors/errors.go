package errors

import "errors"

var (
	ErrServiceNotFound = errors.New("service not found")
	ErrEventNotFound   = errors.New("event not found")
	ErrPackageNotFound = errors.New("package not found")

	ErrInvalidID = errors.New("invalid catalog ID format")
)
