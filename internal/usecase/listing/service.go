package listing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dira-homes/dira/internal/domain/attachment"
	domlst "github.com/dira-homes/dira/internal/domain/listing"
	"github.com/dira-homes/dira/internal/logger"
	"github.com/dira-homes/dira/internal/usecase/search"
)

// maxOwned caps how many listings one owner lookup returns.
const maxOwned = 100

// Service publishes and reads listings.
type Service struct {
	repo        Repository
	attachments AttachmentLister
	enricher    Enricher
	events      EventPublisher
	now         func() time.Time
}

// New creates a listing service.
func New(repo Repository, attachments AttachmentLister, enricher Enricher, events EventPublisher) *Service {
	return &Service{
		repo:        repo,
		attachments: attachments,
		enricher:    enricher,
		events:      events,
		now:         time.Now,
	}
}

// Publish validates the draft, stores it under a fresh id owned by owner and
// announces it. A failed announcement is logged; the listing stays published.
func (s *Service) Publish(ctx context.Context, d domlst.Draft, owner string) (domlst.Listing, error) {
	l, err := domlst.New(uuid.NewString(), d, owner, s.now().UTC())
	if err != nil {
		return domlst.Listing{}, err
	}

	if err := s.repo.Create(ctx, &l); err != nil {
		return domlst.Listing{}, fmt.Errorf("create listing: %w", err)
	}

	if err := s.events.ListingPublished(ctx, &l); err != nil {
		logger.FromContext(ctx).Warn("listing event not published",
			zap.String("listing_id", l.ID),
			zap.Error(err),
		)
	}
	return l, nil
}

// Get returns a listing together with its files.
func (s *Service) Get(ctx context.Context, id string) (domlst.Listing, []attachment.Attachment, error) {
	l, err := s.repo.Get(ctx, id)
	if err != nil {
		return domlst.Listing{}, nil, fmt.Errorf("get listing: %w", err)
	}

	files, err := s.attachments.ListByListing(ctx, id)
	if err != nil {
		return domlst.Listing{}, nil, fmt.Errorf("list attachments: %w", err)
	}
	if files == nil {
		files = []attachment.Attachment{}
	}
	return l, files, nil
}

// ListMine returns the listings published by owner, each with its files.
func (s *Service) ListMine(ctx context.Context, owner string) ([]search.Result, error) {
	owned, err := s.repo.ListByOwner(ctx, owner, 0, maxOwned)
	if err != nil {
		return nil, fmt.Errorf("list owned listings: %w", err)
	}
	return s.enricher.Enrich(ctx, owned), nil
}
