package listing

import (
	"context"

	"github.com/dira-homes/dira/internal/domain/attachment"
	domlst "github.com/dira-homes/dira/internal/domain/listing"
	"github.com/dira-homes/dira/internal/usecase/search"
)

// Repository persists listings.
type Repository interface {
	Create(ctx context.Context, l *domlst.Listing) error
	Get(ctx context.Context, id string) (domlst.Listing, error)
	ListByOwner(ctx context.Context, owner string, offset, limit int) ([]domlst.Listing, error)
}

// AttachmentLister resolves a listing's files.
type AttachmentLister interface {
	ListByListing(ctx context.Context, listingID string) ([]attachment.Attachment, error)
}

// Enricher pairs listings with their attachments, tolerating per-listing failures.
type Enricher interface {
	Enrich(ctx context.Context, listings []domlst.Listing) []search.Result
}

// EventPublisher announces newly published listings.
type EventPublisher interface {
	ListingPublished(ctx context.Context, l *domlst.Listing) error
}
