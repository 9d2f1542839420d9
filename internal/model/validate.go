package model

import (
	"errors"
	"strings"
)

// Sentinel errors reported by the recorder and the store.
var (
	// ErrNotFound is returned when an event does not exist.
	ErrNotFound = errors.New("event not found")
	// ErrNotCreated is returned when the insert affected no rows.
	ErrNotCreated = errors.New("event could not be created")
	// ErrNotDeleted is returned when a delete affected no rows.
	ErrNotDeleted = errors.New("event failed to delete")
	// ErrUnrecognisedType is returned when recording an event whose type was
	// never registered. It signals a misconfigured caller rather than bad input
	// and is never folded into a ValidationError.
	ErrUnrecognisedType = errors.New("unrecognised event type")
)

// ValidationError holds a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation failure on a named field.
type FieldError struct {
	Field   string
	Message string
}

// Error formats the validation error as a semicolon-separated list of field messages.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HasErrors reports whether the validation error contains any field errors.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

// Add appends a field error.
func (e *ValidationError) Add(field, message string) {
	e.Errors = append(e.Errors, FieldError{Field: field, Message: message})
}

// Err returns e when it holds errors and nil otherwise.
func (e *ValidationError) Err() error {
	if e.HasErrors() {
		return e
	}
	return nil
}

// NewValidationError returns a ValidationError with a single field error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Errors: []FieldError{{Field: field, Message: message}}}
}

// IsValidation reports whether err is (or wraps) a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
