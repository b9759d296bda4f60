package db

import (
	"context"
	"time"

	"github.com/dira-homes/dira/internal/domain/search/filter"
)

// Store is the Redis facade: a document store plus plain key-value access.
type Store interface {
	DocumentStore
	KVStore
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// DocumentStore persists JSON documents grouped in collections and answers
// filtered finds. Implemented by the redis and mongo drivers.
type DocumentStore interface {
	Pinger
	CollectionManager
	DocumentWriter
	DocumentReader
	Close()
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// CollectionManager prepares collections and their secondary indexes.
type CollectionManager interface {
	EnsureCollection(ctx context.Context, def *CollectionDefinition) error
}

// DocumentWriter stores documents.
type DocumentWriter interface {
	// InsertDocument stores data under id. Returns ErrKeyExists when id is taken.
	InsertDocument(ctx context.Context, collection, id string, data []byte) error
}

// DocumentReader loads documents.
type DocumentReader interface {
	// GetDocument returns the JSON document or ErrKeyNotFound.
	GetDocument(ctx context.Context, collection, id string) ([]byte, error)
	FindDocuments(ctx context.Context, q *FindQuery) ([]Document, error)
	CountDocuments(ctx context.Context, collection string, expr filter.Expression) (int, error)
}

// KVStore provides simple key-value operations.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// SetNX stores value only if key is absent and reports whether it did.
	SetNX(ctx context.Context, key string, value []byte) (bool, error)
	Del(ctx context.Context, key string) error
}
