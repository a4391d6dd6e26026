// Package errors defines AppError, the error every service returns to its
// handler. Handlers turn it into a `{message, error?}` JSON body with the
// status carried by its code.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

const (
	CodeNotFound     = "NOT_FOUND"
	CodeValidation   = "VALIDATION_ERROR"
	CodeInvalidInput = "INVALID_INPUT"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeConflict     = "CONFLICT"
	CodeInternal     = "INTERNAL_ERROR"
)

var codeStatus = map[string]int{
	CodeNotFound:     http.StatusNotFound,
	CodeValidation:   http.StatusBadRequest,
	CodeInvalidInput: http.StatusBadRequest,
	CodeUnauthorized: http.StatusUnauthorized,
	CodeConflict:     http.StatusConflict,
	CodeInternal:     http.StatusInternalServerError,
}

// StatusForCode maps an error code to its HTTP status, defaulting to 500.
func StatusForCode(code string) int {
	if status, ok := codeStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func newError(code, message string) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: StatusForCode(code)}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) StatusCode() int {
	if e.HTTPStatus == 0 {
		return StatusForCode(e.Code)
	}
	return e.HTTPStatus
}

// Public reports whether the error detail may be shown to callers. Causes of
// 5xx errors stay in the logs.
func (e *AppError) Public() bool {
	return e.StatusCode() < http.StatusInternalServerError
}

func NotFound(resource string) *AppError {
	return newError(CodeNotFound, resource+" not found")
}

func NotFoundWithID(resource, id string) *AppError {
	err := NotFound(resource)
	err.Details = map[string]any{"resource": resource, "id": id}
	return err
}

func NotFoundMessage(message string) *AppError {
	return newError(CodeNotFound, message)
}

// Validation carries the per-field failures in Details.
func Validation(message string, details map[string]any) *AppError {
	err := newError(CodeValidation, message)
	err.Details = details
	return err
}

func InvalidInput(message string) *AppError {
	return newError(CodeInvalidInput, message)
}

func Unauthorized(message string) *AppError {
	return newError(CodeUnauthorized, message)
}

func Conflict(message string) *AppError {
	return newError(CodeConflict, message)
}

func Internal(message string, cause error) *AppError {
	err := newError(CodeInternal, message)
	err.Err = cause
	return err
}

// IsAppError reports whether err is, or wraps, an *AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError unwraps err to its *AppError, treating anything else as internal.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return Internal("An unexpected error occurred", err)
}

func HasCode(err error, code string) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr) && appErr.Code == code
}
