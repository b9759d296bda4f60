package search

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dira-homes/dira/internal/domain"
	"github.com/dira-homes/dira/internal/domain/attachment"
	"github.com/dira-homes/dira/internal/domain/listing"
	"github.com/dira-homes/dira/internal/domain/search/query"
	"github.com/dira-homes/dira/internal/logger"
	"github.com/dira-homes/dira/internal/metrics"
)

const defaultParallelism = 4

// Result is one listing together with its attachments. Attachments is
// never nil.
type Result struct {
	Listing     listing.Listing
	Attachments []attachment.Attachment
}

// Service executes listing searches.
type Service struct {
	listings    ListingFinder
	attachments AttachmentLister
	composer    *query.Composer
	pageSize    int
	parallelism int
}

// New creates a search service. pageSize is the fixed number of listings
// per page; parallelism bounds concurrent attachment lookups.
func New(listings ListingFinder, attachments AttachmentLister, composer *query.Composer, pageSize, parallelism int) *Service {
	if parallelism <= 0 {
		parallelism = defaultParallelism
	}
	return &Service{
		listings:    listings,
		attachments: attachments,
		composer:    composer,
		pageSize:    pageSize,
		parallelism: parallelism,
	}
}

// PageSize returns the fixed page size.
func (s *Service) PageSize() int { return s.pageSize }

// Search composes the filter for in, fetches one page starting at skip and
// attaches each listing's files. A negative skip is treated as zero.
func (s *Service) Search(ctx context.Context, in query.Input, skip int) ([]Result, error) {
	skip = max(skip, 0)

	expr := s.composer.Compose(in)
	metrics.SearchClauses.Observe(float64(expr.Len()))

	found, err := s.listings.Find(ctx, expr, skip, s.pageSize)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidFilterValue) {
			metrics.SearchRequestsTotal.WithLabelValues("invalid").Inc()
		} else {
			metrics.SearchRequestsTotal.WithLabelValues("error").Inc()
		}
		return nil, fmt.Errorf("find listings: %w", err)
	}

	results := s.Enrich(ctx, found)
	metrics.SearchRequestsTotal.WithLabelValues("ok").Inc()
	metrics.SearchResults.Observe(float64(len(results)))
	return results, nil
}

// Enrich resolves attachments for every listing concurrently. A listing
// whose lookup fails keeps an empty attachment list; the failure is logged
// and counted, never returned.
func (s *Service) Enrich(ctx context.Context, listings []listing.Listing) []Result {
	results := make([]Result, len(listings))

	var g errgroup.Group
	g.SetLimit(s.parallelism)
	for i := range listings {
		results[i].Listing = listings[i]
		g.Go(func() error {
			results[i].Attachments = s.resolve(ctx, listings[i].ID)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (s *Service) resolve(ctx context.Context, listingID string) []attachment.Attachment {
	files, err := s.attachments.ListByListing(ctx, listingID)
	if err != nil {
		metrics.AttachmentResolveFailuresTotal.Inc()
		logger.FromContext(ctx).Warn("attachment resolution failed",
			zap.String("listing_id", listingID),
			zap.Error(err),
		)
		return []attachment.Attachment{}
	}
	if files == nil {
		return []attachment.Attachment{}
	}
	return files
}
