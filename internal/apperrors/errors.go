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

// ErrInvalidTransition indicates an attempt to move an obligation out of a
// terminal state, or an otherwise illegal state change.
var ErrInvalidTransition = errors.New("invalid state transition")

// ErrInsufficientFunds indicates that a debit posting would take an account
// below zero when the account does not allow overdraft.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrConcurrencyConflict indicates that a unit of work lost a serialization
// or deadlock race. Callers may retry.
var ErrConcurrencyConflict = errors.New("concurrency conflict")

// ErrIntegrityViolation indicates a discrepancy beyond tolerance between a
// cached derived value and its authoritative recomputation. It is reported,
// never auto-corrected outside the explicit apply-fix path.
var ErrIntegrityViolation = errors.New("integrity violation")

// AppError wraps an underlying error with an HTTP-ish status code and a
// human readable message for the handler layer.
type AppError struct {
	Code    int
	Message string
	Err     error
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

// NewAppError creates a new AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
