// Package location caches the cities list and the per-city streets graph in
// the key-value store.
package location

import (
	"context"
	"errors"
	"fmt"

	"github.com/dira-homes/dira/internal/db"
	"github.com/dira-homes/dira/internal/domain"
)

// Cache keys, relative to the configured key prefix.
const (
	CitiesKey       = "locations-files:cities"
	StreetsGraphKey = "locations-files:streets-graph"
)

type kv interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Repo stores location files.
type Repo struct {
	kv     kv
	prefix string
}

// New creates a location repository.
func New(s kv, keyPrefix string) *Repo {
	return &Repo{kv: s, prefix: keyPrefix}
}

// Cities returns the stored cities JSON document.
func (r *Repo) Cities(ctx context.Context) ([]byte, error) {
	return r.get(ctx, CitiesKey)
}

// SetCities replaces the cities JSON document.
func (r *Repo) SetCities(ctx context.Context, data []byte) error {
	return r.set(ctx, CitiesKey, data)
}

// StreetsGraph returns the stored streets graph JSON document.
func (r *Repo) StreetsGraph(ctx context.Context) ([]byte, error) {
	return r.get(ctx, StreetsGraphKey)
}

// SetStreetsGraph replaces the streets graph JSON document.
func (r *Repo) SetStreetsGraph(ctx context.Context, data []byte) error {
	return r.set(ctx, StreetsGraphKey, data)
}

func (r *Repo) get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.kv.Get(ctx, r.prefix+key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, fmt.Errorf("%s: %w", key, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return data, nil
}

func (r *Repo) set(ctx context.Context, key string, data []byte) error {
	if err := r.kv.Set(ctx, r.prefix+key, data); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}
