package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a row list or entity fails validation.
	// It is wrapped by ValidationError.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrRowNotFound is returned when no row in a list has the requested ID.
	ErrRowNotFound = errors.New("row not found")

	// ErrLastRow is returned when removing a row would leave the list empty.
	ErrLastRow = errors.New("row list must contain at least one row")

	// ErrDuplicateRowID is returned when two rows in the same list share an ID.
	ErrDuplicateRowID = errors.New("duplicate row ID")

	// ErrInvalidState is returned when a calculator state transition is not allowed.
	ErrInvalidState = errors.New("invalid calculator state transition")

	// ErrUnauthorized is returned when an operation is not permitted.
	ErrUnauthorized = errors.New("unauthorized operation")
)

// Session-specific validation errors
var (
	ErrSessionIDEmpty = errors.New("session ID cannot be empty")
	ErrRowsEmpty      = errors.New("row list cannot be empty")
)

// Category classifies why a row list was rejected. Callers turn it into
// user-facing text; the domain only defines the set.
type Category string

const (
	CategoryMissingFields Category = "missing-fields"
	CategoryOutOfRange    Category = "out-of-range"
)

// ValidationError reports the first offending row of a rejected row list.
type ValidationError struct {
	Category Category
	RowIndex int
	RowID    string
	Field    string
	Message  string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Category, e.Message)
	}
	return fmt.Sprintf("%s: row %d (%s) %s %s", e.Category, e.RowIndex, e.RowID, e.Field, e.Message)
}

// Unwrap lets errors.Is match ErrValidation.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError creates a ValidationError for the row at index.
func NewValidationError(category Category, index int, rowID, field, message string) *ValidationError {
	return &ValidationError{
		Category: category,
		RowIndex: index,
		RowID:    rowID,
		Field:    field,
		Message:  message,
	}
}

// AsValidationError extracts a *ValidationError from err, if there is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
