package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/gradecalc/internal/domain"
	"github.com/phrazzld/gradecalc/internal/store"
)

// Common service errors - sentinel errors used across service implementations.
// Callers check for them with errors.Is; the API layer maps them to HTTP
// status codes.
var (
	// ErrSessionNotFound indicates the requested calculator session does not exist.
	// API layer should map this to HTTP 404 Not Found.
	ErrSessionNotFound = errors.New("session not found")
)

// passthrough lists the errors that NewCalculatorServiceError hands back
// without wrapping. They describe caller mistakes, not service failures.
var passthrough = []error{
	domain.ErrRowNotFound,
	domain.ErrLastRow,
	domain.ErrDuplicateRowID,
	domain.ErrInvalidState,
}

// CalculatorServiceError wraps errors from the calculator service with context.
type CalculatorServiceError struct {
	// Operation is the operation that failed (e.g., "add_subject", "calculate_gpa")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for CalculatorServiceError.
func (e *CalculatorServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("calculator service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("calculator service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *CalculatorServiceError) Unwrap() error {
	return e.Err
}

// NewCalculatorServiceError creates a new CalculatorServiceError.
// It returns known sentinel errors and validation errors directly without wrapping.
func NewCalculatorServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrSessionNotFound) || errors.Is(err, store.ErrSessionNotFound) {
		return ErrSessionNotFound
	}

	if ve, ok := domain.AsValidationError(err); ok {
		return ve
	}

	for _, sentinel := range passthrough {
		if errors.Is(err, sentinel) {
			return err
		}
	}

	// Already wrapped by an inner call
	var se *CalculatorServiceError
	if errors.As(err, &se) {
		return err
	}

	return &CalculatorServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
