package attachment

import (
	"context"

	domatt "github.com/dira-homes/dira/internal/domain/attachment"
)

// ListingChecker reports whether a listing exists.
type ListingChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// Repository persists attachment metadata and coordinates the main file.
type Repository interface {
	Create(ctx context.Context, a *domatt.Attachment) error
	CountByListing(ctx context.Context, listingID string) (int, error)
	ClaimMainFile(ctx context.Context, listingID, attachmentID string) (bool, error)
	ReleaseMainFile(ctx context.Context, listingID string) error
}
