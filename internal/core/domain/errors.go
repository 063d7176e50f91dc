package domain

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Common domain errors
var (
	ErrNotFound             = errors.New("resource not found")
	ErrUnauthenticated      = errors.New("authentication required")
	ErrForbidden            = errors.New("forbidden")
	ErrInvalidInput         = errors.New("invalid input")
	ErrInvalidQuantity      = errors.New("invalid quantity")
	ErrConfirmationRequired = errors.New("confirmation required")
	ErrCircuitOpen          = errors.New("backend temporarily unavailable")
	ErrUnknownSection       = errors.New("unknown configuration section")
)

// APIError is a non-2xx answer from the backend
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
}

// Is maps well known statuses onto the sentinel errors
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthenticated:
		return e.Status == http.StatusUnauthorized
	case ErrForbidden:
		return e.Status == http.StatusForbidden
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

// ValidationError carries per-field messages of a rejected form
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "validation failed: " + strings.Join(keys, ", ")
}

// Unwrap lets errors.Is(err, ErrInvalidInput) match
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// NewValidationError builds a ValidationError for a single field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}
