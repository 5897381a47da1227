// internal/assets/service.go
package assets

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"brandassets/internal/blob"
	"brandassets/internal/models"
)

// Repository persists asset metadata and listing image settings. The
// replace and clear operations return the previously recorded path, read
// inside the same transaction as the write, so the service can delete the
// superseded blob only after the commit succeeded.
type Repository interface {
	ReplaceAsset(ctx context.Context, rec *models.AssetRecord) (oldPath string, err error)
	ClearAsset(ctx context.Context, subject models.Subject, kind models.Kind) (oldPath string, err error)
	GetAssets(ctx context.Context, subject models.Subject) (map[models.Kind]*models.AssetRecord, error)
	GetListingSettings(ctx context.Context, listingID uuid.UUID) (models.ListingImageSettings, error)
	UpdateListingSettings(ctx context.Context, listingID uuid.UUID, companyID *uuid.UUID, useBanner, useLogo *bool) error
}

// OrphanQueue receives storage paths whose deletion failed after a
// successful commit, for out-of-band retry.
type OrphanQueue interface {
	EnqueueOrphan(ctx context.Context, path string) error
}

// Service orchestrates the upload pipeline: validate, process, store the
// new blob, commit metadata, delete the old blob. Calls are stateless
// between requests; the metadata commit is the only serialized step.
type Service struct {
	repo      Repository
	blobs     blob.Store
	orphans   OrphanQueue
	urlPrefix string
}

// NewService wires the service. orphans may be nil, in which case failed
// old-blob deletions are only logged.
func NewService(repo Repository, blobs blob.Store, orphans OrphanQueue, urlPrefix string) *Service {
	return &Service{repo: repo, blobs: blobs, orphans: orphans, urlPrefix: urlPrefix}
}

// Upload validates, processes and stores a new asset for subject+kind,
// replacing any previous one. Validation and processing failures leave no
// state behind; a metadata commit failure deletes the just-written blob; a
// failure deleting the superseded blob after commit is non-fatal because
// the record already points at the new blob.
func (s *Service) Upload(ctx context.Context, subject models.Subject, kind models.Kind, data []byte, originalName, declaredMIME string) (*models.AssetRecord, error) {
	const op = "assets.Upload"

	policy, ok := PolicyFor(kind)
	if !ok {
		return nil, fmt.Errorf("%s: %w: %q", op, ErrUnsupportedType, kind)
	}

	info, err := Validate(data, declaredMIME, policy)
	if err != nil {
		return nil, err
	}

	processed, dims, err := Process(data, info, policy)
	if err != nil {
		// The validator accepted these bytes, so a processing failure
		// means the two disagree about decodability; keep the input
		// hash around for diagnosis.
		log.Printf("%s: processing failed, input sha256=%x: %v", op, sha256.Sum256(data), err)
		return nil, err
	}

	// Key is unique per subject+kind+upload so concurrent uploads never
	// collide and the old blob stays intact until the commit lands.
	key := fmt.Sprintf("%s/%s/%s/%s.jpg", subject.Type, subject.ID, kind, uuid.New())

	path, err := s.blobs.Put(key, processed)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrStorageWrite, err)
	}

	rec := &models.AssetRecord{
		SubjectID:    subject.ID,
		SubjectType:  subject.Type,
		Kind:         kind,
		Path:         path,
		OriginalName: originalName,
		ByteSize:     int64(len(processed)),
		MimeType:     "image/jpeg",
		Width:        dims.Width,
		Height:       dims.Height,
		UploadedAt:   time.Now().UTC(),
	}

	oldPath, err := s.repo.ReplaceAsset(ctx, rec)
	if err != nil {
		// Compensate: the new blob must not outlive a failed commit.
		if delErr := s.blobs.Delete(path); delErr != nil {
			log.Printf("%s: failed to remove blob %s after commit failure: %v", op, path, delErr)
			s.enqueueOrphan(ctx, path)
		}
		return nil, fmt.Errorf("%s: %v", op, err)
	}

	if oldPath != "" && oldPath != path {
		if delErr := s.blobs.Delete(oldPath); delErr != nil {
			log.Printf("%s: failed to delete old blob %s: %v", op, oldPath, delErr)
			s.enqueueOrphan(ctx, oldPath)
		}
	}

	return rec, nil
}

// Delete removes the asset for subject+kind. Deleting when no asset exists
// is a successful no-op. The metadata is nulled first, then the blob is
// removed, so a concurrent reader never resolves a path whose blob is gone.
func (s *Service) Delete(ctx context.Context, subject models.Subject, kind models.Kind) error {
	const op = "assets.Delete"

	if _, ok := PolicyFor(kind); !ok {
		return fmt.Errorf("%s: %w: %q", op, ErrUnsupportedType, kind)
	}

	oldPath, err := s.repo.ClearAsset(ctx, subject, kind)
	if err != nil {
		return fmt.Errorf("%s: %v", op, err)
	}

	if oldPath != "" {
		if delErr := s.blobs.Delete(oldPath); delErr != nil {
			log.Printf("%s: failed to delete blob %s: %v", op, oldPath, delErr)
			s.enqueueOrphan(ctx, oldPath)
		}
	}
	return nil
}

// Show returns the current records for both kinds. A kind with no uploaded
// asset maps to nil.
func (s *Service) Show(ctx context.Context, subject models.Subject) (map[models.Kind]*models.AssetRecord, error) {
	const op = "assets.Show"

	recs, err := s.repo.GetAssets(ctx, subject)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", op, err)
	}
	return recs, nil
}

// URL derives the public URL for a record's blob.
func (s *Service) URL(rec *models.AssetRecord) string {
	return s.urlPrefix + "/" + rec.Path
}

// Effective resolves the URL a listing presents for a kind, or "" when
// neither the toggled source has an asset.
func (s *Service) Effective(ctx context.Context, listingID uuid.UUID, kind models.Kind) (string, error) {
	const op = "assets.Effective"

	settings, err := s.repo.GetListingSettings(ctx, listingID)
	if err != nil {
		return "", fmt.Errorf("%s: %v", op, err)
	}

	listingAssets, err := s.repo.GetAssets(ctx, models.Subject{Type: models.SubjectListing, ID: listingID})
	if err != nil {
		return "", fmt.Errorf("%s: %v", op, err)
	}

	companyAssets := map[models.Kind]*models.AssetRecord{}
	if settings.CompanyID != nil {
		companyAssets, err = s.repo.GetAssets(ctx, models.Subject{Type: models.SubjectCompany, ID: *settings.CompanyID})
		if err != nil {
			return "", fmt.Errorf("%s: %v", op, err)
		}
	}

	rec := EffectiveAsset(settings, companyAssets, listingAssets, kind)
	if rec == nil {
		return "", nil
	}
	return s.URL(rec), nil
}

// UpdateListingSettings applies partial changes to a listing's toggles and
// company link. Nil fields are left untouched. Flipping a toggle never
// touches the listing's own uploaded assets.
func (s *Service) UpdateListingSettings(ctx context.Context, listingID uuid.UUID, companyID *uuid.UUID, useBanner, useLogo *bool) error {
	const op = "assets.UpdateListingSettings"

	if err := s.repo.UpdateListingSettings(ctx, listingID, companyID, useBanner, useLogo); err != nil {
		return fmt.Errorf("%s: %v", op, err)
	}
	return nil
}

// ListingSettings returns the listing's current toggle state, defaults if
// nothing was ever stored.
func (s *Service) ListingSettings(ctx context.Context, listingID uuid.UUID) (models.ListingImageSettings, error) {
	const op = "assets.ListingSettings"

	settings, err := s.repo.GetListingSettings(ctx, listingID)
	if err != nil {
		return models.ListingImageSettings{}, fmt.Errorf("%s: %v", op, err)
	}
	return settings, nil
}

func (s *Service) enqueueOrphan(ctx context.Context, path string) {
	if s.orphans == nil {
		return
	}
	if err := s.orphans.EnqueueOrphan(ctx, path); err != nil {
		log.Printf("assets: failed to enqueue orphaned blob %s for cleanup: %v", path, err)
	}
}
