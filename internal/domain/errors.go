package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation error")

	// ErrNetwork means the transport could not complete a dictionary request.
	ErrNetwork = errors.New("network error")
	// ErrHTTPStatus means the dictionary answered with a non-success status.
	ErrHTTPStatus = errors.New("unexpected http status")
	// ErrExtractionPartial means markup was present but some fields could not be parsed.
	// It is logged, never returned from extraction.
	ErrExtractionPartial = errors.New("extraction partially failed")

	// ErrEmptyList is returned when a practice session is started with no words.
	ErrEmptyList = errors.New("word list is empty")
	// ErrInvalidState is returned when an operation is not valid in the current session state.
	ErrInvalidState = errors.New("invalid session state")
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NetworkError wraps a transport failure (connection refused, timeout, reset).
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network: %v", e.Err)
}

// Unwrap exposes both ErrNetwork and the underlying cause to errors.Is.
func (e *NetworkError) Unwrap() []error { return []error{ErrNetwork, e.Err} }

// HTTPStatusError reports a non-200 response from the dictionary.
type HTTPStatusError struct {
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("http status %d", e.StatusCode)
}

func (e *HTTPStatusError) Unwrap() error { return ErrHTTPStatus }
