package client

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors matched by *Error via errors.Is.
var (
	ErrBadRequest      = errors.New("bad request")
	ErrUnauthenticated = errors.New("not authenticated")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
)

// Error is a non-2xx reply from the API.
type Error struct {
	Status  int
	Message string
	Field   string
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("dira: %d %s (field %s)", e.Status, e.Message, e.Field)
	}
	return fmt.Sprintf("dira: %d %s", e.Status, e.Message)
}

// Is maps the HTTP status onto the package sentinels.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrBadRequest:
		return e.Status == http.StatusBadRequest
	case ErrUnauthenticated:
		return e.Status == http.StatusForbidden || e.Status == http.StatusUnauthorized
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrConflict:
		return e.Status == http.StatusConflict
	}
	return false
}
