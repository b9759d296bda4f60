package search

import (
	"context"

	"github.com/dira-homes/dira/internal/domain/attachment"
	"github.com/dira-homes/dira/internal/domain/listing"
	"github.com/dira-homes/dira/internal/domain/search/filter"
)

// ListingFinder runs composed filters against listing storage.
type ListingFinder interface {
	Find(ctx context.Context, expr filter.Expression, offset, limit int) ([]listing.Listing, error)
}

// AttachmentLister resolves the attachments owned by a listing.
type AttachmentLister interface {
	ListByListing(ctx context.Context, listingID string) ([]attachment.Attachment, error)
}
