// Package blob defines the object store holding attachment bytes.
package blob

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrNotFound signals a missing object.
	ErrNotFound = errors.New("blob not found")
	// ErrInvalidKey signals a key that cannot address an object.
	ErrInvalidKey = errors.New("invalid blob key")
)

// Object is a readable stored object. Callers must close Body.
type Object struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
}

// Store puts, gets and deletes objects by key.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (*Object, error)
	Delete(ctx context.Context, key string) error
	// Bucket and Region identify where objects are kept; they are recorded
	// on attachment metadata.
	Bucket() string
	Region() string
}
