package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in
	// the store. This is the generic version of the entity-specific not
	// found errors (e.g., ErrHorseNotFound, ErrLessonNotFound).
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a
	// duplicate of a unique entity.
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation
	// before being stored, or references a missing entity. Check the
	// wrapped error for details.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrWriteConflict is returned when a concurrent commit invalidated
	// the snapshot a decision was evaluated under. The enrollment
	// service retries the whole evaluate-then-write sequence once
	// before surfacing this to the caller.
	ErrWriteConflict = errors.New("write conflict")

	// ErrTransactionFailed is returned when a database transaction
	// fails to commit or when an operation within a transaction fails.
	ErrTransactionFailed = errors.New("transaction failed")

	// Entity-specific "not found" errors

	// ErrHorseNotFound indicates that the requested horse does not exist in the store.
	ErrHorseNotFound = fmt.Errorf("%w: horse", ErrNotFound)

	// ErrRiderNotFound indicates that the requested rider does not exist in the store.
	ErrRiderNotFound = fmt.Errorf("%w: rider", ErrNotFound)

	// ErrInstructorNotFound indicates that the requested instructor does not exist in the store.
	ErrInstructorNotFound = fmt.Errorf("%w: instructor", ErrNotFound)

	// ErrLessonNotFound indicates that the requested lesson does not exist in the store.
	ErrLessonNotFound = fmt.Errorf("%w: lesson", ErrNotFound)

	// ErrEnrollmentNotFound indicates that the requested enrollment does not exist in the store.
	ErrEnrollmentNotFound = fmt.Errorf("%w: enrollment", ErrNotFound)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsWriteConflict checks if the error marks a serialization failure that
// warrants re-running the evaluate-then-write sequence.
func IsWriteConflict(err error) bool {
	return errors.Is(err, ErrWriteConflict)
}

// StoreError is a custom error type for store-specific errors with additional context.
type StoreError struct {
	Entity    string // The entity type (e.g., "horse", "enrollment")
	Operation string // The operation that failed (e.g., "create", "delete")
	Message   string // Error message
	Err       error  // Original error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf(
			"%s operation on %s failed: %s: %v",
			e.Operation,
			e.Entity,
			e.Message,
			e.Err,
		)
	}
	return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Entity, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError with the given entity, operation, message, and wrapped error.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
