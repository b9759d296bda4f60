package attachment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dira-homes/dira/internal/blob"
	"github.com/dira-homes/dira/internal/domain"
	domatt "github.com/dira-homes/dira/internal/domain/attachment"
	"github.com/dira-homes/dira/internal/logger"
	"github.com/dira-homes/dira/internal/metrics"
)

// File is one uploaded file waiting to be stored.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

// Config tunes uploads.
type Config struct {
	MaxFiles int
	// ExclusiveMainFile guards the main-file flag with an atomic claim.
	// When false, two concurrent first batches may both get a main file.
	ExclusiveMainFile bool
	Parallelism       int
}

// Service stores listing attachments.
type Service struct {
	listings ListingChecker
	repo     Repository
	blobs    blob.Store
	cfg      Config
	now      func() time.Time
}

// New creates an attachment service.
func New(listings ListingChecker, repo Repository, blobs blob.Store, cfg Config) *Service {
	if cfg.Parallelism <= 0 {
		cfg.Parallelism = 1
	}
	return &Service{listings: listings, repo: repo, blobs: blobs, cfg: cfg, now: time.Now}
}

// Upload stores files for the listing and returns the attachments that were
// saved, in input order. Files that fail are logged and left out; the batch
// itself only fails on bad input or when the listing cannot be checked.
func (s *Service) Upload(ctx context.Context, listingID string, files []File) ([]domatt.Attachment, error) {
	if listingID == "" {
		return nil, domain.NewValidationError("apartmentId", "apartmentId query parameter is required")
	}
	if len(files) == 0 {
		return nil, domain.ErrNoFiles
	}
	if s.cfg.MaxFiles > 0 && len(files) > s.cfg.MaxFiles {
		return nil, domain.NewValidationError("files", "Up to %d files can be uploaded at once", s.cfg.MaxFiles)
	}

	exists, err := s.listings.Exists(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("check listing: %w", err)
	}
	if !exists {
		return nil, domain.ErrListingNotFound
	}

	ids := make([]string, len(files))
	for i := range ids {
		ids[i] = uuid.NewString()
	}

	main, claimed, err := s.mainFile(ctx, listingID, ids[0])
	if err != nil {
		return nil, err
	}

	saved := make([]*domatt.Attachment, len(files))
	var g errgroup.Group
	g.SetLimit(s.cfg.Parallelism)
	for i := range files {
		g.Go(func() error {
			a, err := s.store(ctx, listingID, ids[i], files[i], i == 0 && main)
			if err != nil {
				metrics.UploadedFilesTotal.WithLabelValues("failed").Inc()
				logger.FromContext(ctx).Warn("file upload failed",
					zap.String("listing_id", listingID),
					zap.String("file", files[i].Name),
					zap.Error(err),
				)
				return nil
			}
			metrics.UploadedFilesTotal.WithLabelValues("saved").Inc()
			saved[i] = a
			return nil
		})
	}
	_ = g.Wait()

	if claimed && saved[0] == nil {
		if err := s.repo.ReleaseMainFile(ctx, listingID); err != nil {
			logger.FromContext(ctx).Warn("main file release failed",
				zap.String("listing_id", listingID),
				zap.Error(err),
			)
		}
	}

	out := make([]domatt.Attachment, 0, len(files))
	for _, a := range saved {
		if a != nil {
			out = append(out, *a)
		}
	}
	return out, nil
}

// mainFile decides whether the first file of the batch becomes the main
// file. claimed reports that a main-file claim was taken for attachmentID.
func (s *Service) mainFile(ctx context.Context, listingID, attachmentID string) (main, claimed bool, err error) {
	n, err := s.repo.CountByListing(ctx, listingID)
	if err != nil {
		return false, false, fmt.Errorf("count attachments: %w", err)
	}
	if n > 0 {
		return false, false, nil
	}
	if !s.cfg.ExclusiveMainFile {
		return true, false, nil
	}

	ok, err := s.repo.ClaimMainFile(ctx, listingID, attachmentID)
	if err != nil {
		return false, false, fmt.Errorf("claim main file: %w", err)
	}
	return ok, ok, nil
}

func (s *Service) store(ctx context.Context, listingID, id string, f File, isMain bool) (*domatt.Attachment, error) {
	now := s.now().UTC()
	name := domatt.StorageName(f.Name)
	key := domatt.Key(listingID, id, f.ContentType, name, now)

	r, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer r.Close()

	if err := s.blobs.Put(ctx, key, r, f.Size, f.ContentType); err != nil {
		return nil, fmt.Errorf("put blob %s: %w", key, err)
	}

	a := &domatt.Attachment{
		ID:           id,
		OriginalName: f.Name,
		StorageName:  name,
		Bucket:       s.blobs.Bucket(),
		Region:       s.blobs.Region(),
		Key:          key,
		Type:         f.ContentType,
		Owner:        listingID,
		IsMainFile:   isMain,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		if derr := s.blobs.Delete(ctx, key); derr != nil {
			logger.FromContext(ctx).Warn("orphan blob not deleted",
				zap.String("key", key),
				zap.Error(derr),
			)
		}
		return nil, fmt.Errorf("save attachment %s: %w", id, err)
	}
	return a, nil
}

// GetFile opens the stored object under key. The caller closes the body.
func (s *Service) GetFile(ctx context.Context, key string) (*blob.Object, error) {
	if key == "" {
		return nil, domain.NewValidationError("key", "key query parameter is required")
	}
	obj, err := s.blobs.Get(ctx, key)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) || errors.Is(err, blob.ErrInvalidKey) {
			return nil, fmt.Errorf("file %s: %w", key, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get file: %w", err)
	}
	return obj, nil
}
