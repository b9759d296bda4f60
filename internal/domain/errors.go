package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrListingNotFound signals a missing listing.
	ErrListingNotFound = fmt.Errorf("listing %w", ErrNotFound)
	// ErrAlreadyExists signals a duplicate resource.
	ErrAlreadyExists = errors.New("already exists")
	// ErrValidation signals malformed or out-of-range input.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidFilterValue signals a search parameter whose value cannot be
	// interpreted for its field.
	ErrInvalidFilterValue = errors.New("invalid filter value")
	// ErrInvalidCredentials signals a failed login.
	ErrInvalidCredentials = errors.New("email and/or password are incorrect")
	// ErrUnauthenticated signals a missing, invalid or revoked session token.
	ErrUnauthenticated = errors.New("not authenticated")
	// ErrNoFiles signals an upload request without files.
	ErrNoFiles = errors.New("no files were uploaded")
)

// ValidationError names the offending field and carries a client-facing message.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError with a formatted message.
func NewValidationError(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
