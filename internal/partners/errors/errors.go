package errors

import "errors"

var (
	ErrNotFound = errors.New("service partner not found")

	ErrInvalidID = errors.New("invalid service partner ID format")

	ErrDuplicate = errors.New("service partner already exists")
)
