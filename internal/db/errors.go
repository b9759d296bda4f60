package db

import "errors"

// Sentinel errors for database operations.
var (
	ErrKeyNotFound = errors.New("db: key not found")
	ErrKeyExists   = errors.New("db: key already exists")
	ErrIndexExists = errors.New("db: index already exists")
	// ErrInvalidValue signals a filter value the store cannot coerce to the
	// field's type.
	ErrInvalidValue = errors.New("db: invalid filter value")
)

// Op constants name the failing store command for error context.
const (
	OpCreateIndex = "FT.CREATE"
	OpSearch      = "FT.SEARCH"
	OpJSONSet     = "JSON.SET"
	OpJSONGet     = "JSON.GET"
	OpDel         = "DEL"
	OpGet         = "GET"
	OpSet         = "SET"
	OpInsert      = "insert"
	OpFind        = "find"
	OpCount       = "count"
	OpEnsureIndex = "ensureIndex"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
