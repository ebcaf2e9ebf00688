package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that a structural constraint blocks the operation,
// e.g. deleting an account that still has children or journal references.
var ErrConflict = errors.New("operation conflicts with existing state")

// ErrUnauthorized indicates that the caller is not authenticated.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates that the caller lacks permission for the operation.
var ErrForbidden = errors.New("forbidden")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// ErrInsufficientFunds indicates that a cash movement would drive a cash box
// balance below zero.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrConfiguration indicates that a required posting account is missing or
// inactive; the operation is aborted before any write.
var ErrConfiguration = errors.New("posting configuration error")

// ErrInvalidTransition indicates a status change that is not permitted from
// the current state.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrConcurrencyConflict indicates an optimistic-concurrency version mismatch
// on write; callers are expected to retry the whole read-modify-write cycle.
var ErrConcurrencyConflict = errors.New("concurrent modification detected")

// AppError carries an HTTP-ish status code alongside a message and the
// underlying cause. Repositories use it for infrastructure failures that have
// no domain sentinel.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates a new AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}
