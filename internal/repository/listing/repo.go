package listing

import (
	"context"
	"errors"
	"fmt"

	"github.com/dira-homes/dira/internal/db"
	"github.com/dira-homes/dira/internal/domain"
	"github.com/dira-homes/dira/internal/domain/listing"
	"github.com/dira-homes/dira/internal/domain/search/field"
	"github.com/dira-homes/dira/internal/domain/search/filter"
)

// store is the consumer interface for listings (ISP).
type store interface {
	EnsureCollection(ctx context.Context, def *db.CollectionDefinition) error
	InsertDocument(ctx context.Context, collection, id string, data []byte) error
	GetDocument(ctx context.Context, collection, id string) ([]byte, error)
	FindDocuments(ctx context.Context, q *db.FindQuery) ([]db.Document, error)
}

// Repo persists listings in the document store.
type Repo struct {
	store  store
	fields *field.Table
}

// New creates a listing repository.
func New(s store, fields *field.Table) *Repo {
	return &Repo{store: s, fields: fields}
}

// EnsureSchema prepares the collection and its filter indexes.
func (r *Repo) EnsureSchema(ctx context.Context) error {
	if err := r.store.EnsureCollection(ctx, collectionDefinition(r.fields)); err != nil {
		return fmt.Errorf("ensure %s: %w", Collection, err)
	}
	return nil
}

// Create stores a new listing.
func (r *Repo) Create(ctx context.Context, l *listing.Listing) error {
	data, err := encodeListing(l)
	if err != nil {
		return err
	}
	if err := r.store.InsertDocument(ctx, Collection, l.ID, data); err != nil {
		if errors.Is(err, db.ErrKeyExists) {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("insert listing %s: %w", l.ID, err)
	}
	return nil
}

// Get returns a listing by id.
func (r *Repo) Get(ctx context.Context, id string) (listing.Listing, error) {
	data, err := r.store.GetDocument(ctx, Collection, id)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return listing.Listing{}, domain.ErrListingNotFound
		}
		return listing.Listing{}, fmt.Errorf("get listing %s: %w", id, err)
	}
	return decodeListing(id, data)
}

// Exists reports whether a listing id is known.
func (r *Repo) Exists(ctx context.Context, id string) (bool, error) {
	_, err := r.store.GetDocument(ctx, Collection, id)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, db.ErrKeyNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("get listing %s: %w", id, err)
	}
}

// Find returns one page of listings matching expr.
func (r *Repo) Find(ctx context.Context, expr filter.Expression, offset, limit int) ([]listing.Listing, error) {
	docs, err := r.store.FindDocuments(ctx, &db.FindQuery{
		Collection: Collection,
		Filter:     expr,
		Offset:     offset,
		Limit:      limit,
	})
	if err != nil {
		return nil, findErr(err)
	}

	out := make([]listing.Listing, 0, len(docs))
	for _, d := range docs {
		l, err := decodeListing(d.ID, d.Data)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}

// ListByOwner returns one page of the listings created by owner.
func (r *Repo) ListByOwner(ctx context.Context, owner string, offset, limit int) ([]listing.Listing, error) {
	ownerSpec := r.fields.Spec(field.Owner)
	expr := filter.NewExpression(
		[]filter.Condition{filter.NewEq(ownerSpec.Path, filter.ValueString, owner)},
		nil, nil,
	)
	return r.Find(ctx, expr, offset, limit)
}

func findErr(err error) error {
	if errors.Is(err, db.ErrInvalidValue) {
		return fmt.Errorf("%w: %w", domain.ErrInvalidFilterValue, err)
	}
	return fmt.Errorf("find listings: %w", err)
}
