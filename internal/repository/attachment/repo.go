// Package attachment persists attachment metadata in the document store and
// guards the per-listing main-file flag.
package attachment

import (
	"context"
	"errors"
	"fmt"

	"github.com/dira-homes/dira/internal/db"
	"github.com/dira-homes/dira/internal/domain"
	"github.com/dira-homes/dira/internal/domain/attachment"
	"github.com/dira-homes/dira/internal/domain/search/filter"
)

// Collection is the document collection holding attachment metadata.
const Collection = "attachments"

// MaxPerListing bounds how many attachments are loaded for one listing.
const MaxPerListing = 100

const (
	ownerPath     = "owner"
	mainFilePath  = "isMainFile"
	createdAtPath = "createdAt"
)

// documents is the consumer interface for attachment metadata (ISP).
type documents interface {
	EnsureCollection(ctx context.Context, def *db.CollectionDefinition) error
	InsertDocument(ctx context.Context, collection, id string, data []byte) error
	FindDocuments(ctx context.Context, q *db.FindQuery) ([]db.Document, error)
	CountDocuments(ctx context.Context, collection string, expr filter.Expression) (int, error)
}

// claims is the consumer interface for the main-file claim.
type claims interface {
	SetNX(ctx context.Context, key string, value []byte) (bool, error)
	Del(ctx context.Context, key string) error
}

// Repo persists attachments.
type Repo struct {
	docs      documents
	kv        claims
	keyPrefix string
}

// New creates an attachment repository. keyPrefix namespaces claim keys.
func New(docs documents, kv claims, keyPrefix string) *Repo {
	return &Repo{docs: docs, kv: kv, keyPrefix: keyPrefix}
}

// EnsureSchema prepares the collection and its owner index.
func (r *Repo) EnsureSchema(ctx context.Context) error {
	def := &db.CollectionDefinition{
		Name: Collection,
		Fields: []db.CollectionField{
			{Path: ownerPath, Type: db.IndexFieldTag},
			{Path: mainFilePath, Type: db.IndexFieldTag},
			{Path: createdAtPath, Type: db.IndexFieldNumeric},
		},
	}
	if err := r.docs.EnsureCollection(ctx, def); err != nil {
		return fmt.Errorf("ensure %s: %w", Collection, err)
	}
	return nil
}

// Create stores attachment metadata.
func (r *Repo) Create(ctx context.Context, a *attachment.Attachment) error {
	data, err := encodeAttachment(a)
	if err != nil {
		return err
	}
	if err := r.docs.InsertDocument(ctx, Collection, a.ID, data); err != nil {
		if errors.Is(err, db.ErrKeyExists) {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("insert attachment %s: %w", a.ID, err)
	}
	return nil
}

// ListByListing returns the attachments owned by a listing.
func (r *Repo) ListByListing(ctx context.Context, listingID string) ([]attachment.Attachment, error) {
	docs, err := r.docs.FindDocuments(ctx, &db.FindQuery{
		Collection: Collection,
		Filter:     ownedBy(listingID),
		Limit:      MaxPerListing,
	})
	if err != nil {
		return nil, fmt.Errorf("find attachments of %s: %w", listingID, err)
	}

	out := make([]attachment.Attachment, 0, len(docs))
	for _, d := range docs {
		a, err := decodeAttachment(d.ID, d.Data)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// CountByListing returns how many attachments a listing has.
func (r *Repo) CountByListing(ctx context.Context, listingID string) (int, error) {
	n, err := r.docs.CountDocuments(ctx, Collection, ownedBy(listingID))
	if err != nil {
		return 0, fmt.Errorf("count attachments of %s: %w", listingID, err)
	}
	return n, nil
}

// ClaimMainFile atomically claims the main-file slot of a listing. Only one
// caller ever gets true until ReleaseMainFile is called.
func (r *Repo) ClaimMainFile(ctx context.Context, listingID, attachmentID string) (bool, error) {
	ok, err := r.kv.SetNX(ctx, r.mainFileKey(listingID), []byte(attachmentID))
	if err != nil {
		return false, fmt.Errorf("claim main file of %s: %w", listingID, err)
	}
	return ok, nil
}

// ReleaseMainFile gives the main-file slot back, e.g. after a failed save.
func (r *Repo) ReleaseMainFile(ctx context.Context, listingID string) error {
	if err := r.kv.Del(ctx, r.mainFileKey(listingID)); err != nil {
		return fmt.Errorf("release main file of %s: %w", listingID, err)
	}
	return nil
}

func (r *Repo) mainFileKey(listingID string) string {
	return r.keyPrefix + "listing:" + listingID + ":main-file"
}

func ownedBy(listingID string) filter.Expression {
	return filter.NewExpression(
		[]filter.Condition{filter.NewEq(ownerPath, filter.ValueString, listingID)},
		nil, nil,
	)
}
