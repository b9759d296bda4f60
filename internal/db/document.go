package db

import "github.com/dira-homes/dira/internal/domain/search/filter"

// FindQuery is the input for a filtered, paginated document find.
type FindQuery struct {
	Collection string
	Filter     filter.Expression
	Offset     int
	Limit      int
}

// Document is a stored JSON document with its id.
type Document struct {
	ID   string
	Data []byte
}
