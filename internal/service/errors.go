package service

import "fmt"

// ServiceError wraps failures from service operations with the operation
// name and a caller-safe message. The underlying error stays in the chain
// so callers can use errors.Is/errors.As to check for store sentinels or
// rule violations.
//
// Error handling principles:
// 1. Expected conditions surface sentinel errors (store.ErrNotFound family,
//    store.ErrWriteConflict) or a rules.ViolationError through the chain
// 2. Unexpected errors are wrapped with operation context
// 3. The API layer maps these onto HTTP status codes
type ServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
