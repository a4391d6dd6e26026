package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	ErrInvalidInstallment = errors.New("installment must be at least 1")

	ErrInvalidPrice = errors.New("package price must be positive")
)
