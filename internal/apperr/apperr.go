// Package apperr defines the error categories the service operates in terms of.
// Handlers map these onto HTTP statuses; everything below the handler layer
// works with errors.Is / errors.As against the sentinels and types here.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound marks a missing task, comment or user.
	ErrNotFound = errors.New("not found")

	// ErrForbidden marks a permission denial.
	ErrForbidden = errors.New("access denied")

	// ErrAlreadyRunning is returned when a timer start loses to a running timer.
	ErrAlreadyRunning = errors.New("timer is already running")

	// ErrNotRunning is returned when a timer stop finds no open session.
	ErrNotRunning = errors.New("timer is not running")

	// ErrDependency marks a storage failure. Nothing is partially applied when
	// this is returned.
	ErrDependency = errors.New("dependency failure")
)

// NotFound returns a not-found error naming the missing resource.
func NotFound(what string) error {
	return fmt.Errorf("%s: %w", what, ErrNotFound)
}

// Forbidden returns a denial with the minimal context callers may see.
func Forbidden(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrForbidden, fmt.Sprintf(format, args...))
}

// Dependency wraps a storage error with the operation that hit it.
func Dependency(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrDependency, op, err)
}

// ValidationError carries field-level detail for malformed input. It is always
// detected before any write.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// Validation builds a single-field validation error.
func Validation(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// NewValidation builds an empty validation error to accumulate fields into.
func NewValidation() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

// Add records a field failure and returns the error for chaining.
func (e *ValidationError) Add(field, message string) *ValidationError {
	e.Fields[field] = message
	return e
}

// Empty reports whether no field failures were recorded.
func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}
