package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidEmail is returned when an email address is malformed.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrInvalidWeekday is returned when a day value is outside the
	// monday-saturday scheduling week.
	ErrInvalidWeekday = errors.New("invalid scheduling weekday")

	// ErrInvalidTimeOfDay is returned when a time value cannot be parsed
	// or falls outside a single day.
	ErrInvalidTimeOfDay = errors.New("invalid time of day")

	// ErrInvalidTimeRange is returned when a lesson's end time does not
	// come after its start time.
	ErrInvalidTimeRange = errors.New("lesson end time must be after start time")

	// ErrInvalidLevel is returned when a lesson level is not part of the
	// known vocabulary.
	ErrInvalidLevel = errors.New("invalid lesson level")

	// ErrInvalidAge is returned when an age is negative.
	ErrInvalidAge = errors.New("age cannot be negative")

	// ErrEmptyName is returned when a required name field is empty.
	ErrEmptyName = errors.New("name cannot be empty")
)

// ValidationError provides field-level context for a validation failure.
// It wraps ErrValidation (or a more specific sentinel) so callers can use
// errors.Is while still seeing which field was rejected.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Field, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a new ValidationError for the given field.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}
