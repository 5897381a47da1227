// internal/storage/storage.go
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"brandassets/internal/models"
)

type Storage struct {
	pool *pgxpool.Pool
	db   *sql.DB // For migrations
}

func NewStorage(dsn string) (*Storage, error) {
	const op = "storage.NewStorage"

	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", op, err)
	}

	db := stdlib.OpenDBFromPool(pool)
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %v", op, err)
	}

	return &Storage{pool: pool, db: db}, nil
}

func (s *Storage) Close() {
	s.db.Close()
	s.pool.Close()
}

// ReplaceAsset upserts the record for its subject+kind and returns the
// previously stored path ("" if none). The old-path read, the upsert and
// the listing toggle flip run in one transaction with the asset row locked,
// so concurrent uploads to the same subject+kind serialize here and the
// last committer wins.
func (s *Storage) ReplaceAsset(ctx context.Context, rec *models.AssetRecord) (string, error) {
	const op = "storage.ReplaceAsset"

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("%s: %v", op, err)
	}
	defer tx.Rollback(ctx)

	// FOR UPDATE on an absent row locks nothing, so two concurrent first
	// uploads would both read an empty old path and the earlier
	// committer's blob would leak. Materialize a cleared row first: the
	// insert serializes on the primary key and the lock below then always
	// has a row to take.
	_, err = tx.Exec(ctx,
		`INSERT INTO asset_records (subject_id, subject_type, kind)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (subject_id, subject_type, kind) DO NOTHING`,
		rec.SubjectID, rec.SubjectType, rec.Kind)
	if err != nil {
		return "", fmt.Errorf("%s: %v", op, err)
	}

	oldPath, err := lockAssetPath(ctx, tx, models.Subject{Type: rec.SubjectType, ID: rec.SubjectID}, rec.Kind)
	if err != nil {
		return "", fmt.Errorf("%s: %v", op, err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO asset_records (subject_id, subject_type, kind, path, original_name, byte_size, mime_type, width, height, uploaded_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (subject_id, subject_type, kind) DO UPDATE SET
		   path = EXCLUDED.path,
		   original_name = EXCLUDED.original_name,
		   byte_size = EXCLUDED.byte_size,
		   mime_type = EXCLUDED.mime_type,
		   width = EXCLUDED.width,
		   height = EXCLUDED.height,
		   uploaded_at = EXCLUDED.uploaded_at`,
		rec.SubjectID, rec.SubjectType, rec.Kind, rec.Path, rec.OriginalName,
		rec.ByteSize, rec.MimeType, rec.Width, rec.Height, rec.UploadedAt)
	if err != nil {
		return "", fmt.Errorf("%s: %v", op, err)
	}

	// A listing-specific upload means "use custom": flip the matching
	// toggle in the same transaction as the metadata commit.
	if rec.SubjectType == models.SubjectListing {
		if err := flipToggleOff(ctx, tx, rec.SubjectID, rec.Kind); err != nil {
			return "", fmt.Errorf("%s: %v", op, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("%s: %v", op, err)
	}
	return oldPath, nil
}

// ClearAsset nulls every metadata field of the subject+kind record in one
// transaction and returns the path that was stored. A missing record or an
// already cleared one returns "" with no error (idempotent delete).
func (s *Storage) ClearAsset(ctx context.Context, subject models.Subject, kind models.Kind) (string, error) {
	const op = "storage.ClearAsset"

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("%s: %v", op, err)
	}
	defer tx.Rollback(ctx)

	oldPath, err := lockAssetPath(ctx, tx, subject, kind)
	if err != nil {
		return "", fmt.Errorf("%s: %v", op, err)
	}
	if oldPath == "" {
		return "", nil
	}

	_, err = tx.Exec(ctx,
		`UPDATE asset_records
		 SET path = NULL, original_name = NULL, byte_size = NULL, mime_type = NULL,
		     width = NULL, height = NULL, uploaded_at = NULL
		 WHERE subject_id = $1 AND subject_type = $2 AND kind = $3`,
		subject.ID, subject.Type, kind)
	if err != nil {
		return "", fmt.Errorf("%s: %v", op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("%s: %v", op, err)
	}
	return oldPath, nil
}

// GetAssets returns the live records for a subject keyed by kind. Kinds
// with no uploaded asset are absent from the map.
func (s *Storage) GetAssets(ctx context.Context, subject models.Subject) (map[models.Kind]*models.AssetRecord, error) {
	const op = "storage.GetAssets"

	rows, err := s.pool.Query(ctx,
		`SELECT kind, path, original_name, byte_size, mime_type, width, height, uploaded_at
		 FROM asset_records
		 WHERE subject_id = $1 AND subject_type = $2 AND path IS NOT NULL`,
		subject.ID, subject.Type)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", op, err)
	}
	defer rows.Close()

	recs := make(map[models.Kind]*models.AssetRecord)
	for rows.Next() {
		rec := models.AssetRecord{SubjectID: subject.ID, SubjectType: subject.Type}
		err := rows.Scan(&rec.Kind, &rec.Path, &rec.OriginalName, &rec.ByteSize,
			&rec.MimeType, &rec.Width, &rec.Height, &rec.UploadedAt)
		if err != nil {
			return nil, fmt.Errorf("%s: %v", op, err)
		}
		recs[rec.Kind] = &rec
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %v", op, err)
	}
	return recs, nil
}

// GetListingSettings returns the listing's toggle row, or the defaults
// (both toggles on, no company link) when none was ever stored.
func (s *Storage) GetListingSettings(ctx context.Context, listingID uuid.UUID) (models.ListingImageSettings, error) {
	const op = "storage.GetListingSettings"

	settings := models.ListingImageSettings{
		ListingID:        listingID,
		UseCompanyBanner: true,
		UseCompanyLogo:   true,
	}
	err := s.pool.QueryRow(ctx,
		`SELECT company_id, use_company_banner, use_company_logo
		 FROM listing_image_settings WHERE listing_id = $1`,
		listingID).Scan(&settings.CompanyID, &settings.UseCompanyBanner, &settings.UseCompanyLogo)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return settings, nil
		}
		return models.ListingImageSettings{}, fmt.Errorf("%s: %v", op, err)
	}
	return settings, nil
}

// UpdateListingSettings upserts the listing's settings row, applying only
// the non-nil fields.
func (s *Storage) UpdateListingSettings(ctx context.Context, listingID uuid.UUID, companyID *uuid.UUID, useBanner, useLogo *bool) error {
	const op = "storage.UpdateListingSettings"

	_, err := s.pool.Exec(ctx,
		`INSERT INTO listing_image_settings (listing_id, company_id, use_company_banner, use_company_logo)
		 VALUES ($1, $2, COALESCE($3, true), COALESCE($4, true))
		 ON CONFLICT (listing_id) DO UPDATE SET
		   company_id = COALESCE($2, listing_image_settings.company_id),
		   use_company_banner = COALESCE($3, listing_image_settings.use_company_banner),
		   use_company_logo = COALESCE($4, listing_image_settings.use_company_logo)`,
		listingID, companyID, useBanner, useLogo)
	if err != nil {
		return fmt.Errorf("%s: %v", op, err)
	}
	return nil
}

// lockAssetPath reads and row-locks the current path for subject+kind
// inside tx. Returns "" when there is no row or the record is cleared.
func lockAssetPath(ctx context.Context, tx pgx.Tx, subject models.Subject, kind models.Kind) (string, error) {
	var path *string
	err := tx.QueryRow(ctx,
		`SELECT path FROM asset_records
		 WHERE subject_id = $1 AND subject_type = $2 AND kind = $3
		 FOR UPDATE`,
		subject.ID, subject.Type, kind).Scan(&path)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	if path == nil {
		return "", nil
	}
	return *path, nil
}

func flipToggleOff(ctx context.Context, tx pgx.Tx, listingID uuid.UUID, kind models.Kind) error {
	var query string
	switch kind {
	case models.KindBanner:
		query = `INSERT INTO listing_image_settings (listing_id, use_company_banner)
		         VALUES ($1, false)
		         ON CONFLICT (listing_id) DO UPDATE SET use_company_banner = false`
	case models.KindLogo:
		query = `INSERT INTO listing_image_settings (listing_id, use_company_logo)
		         VALUES ($1, false)
		         ON CONFLICT (listing_id) DO UPDATE SET use_company_logo = false`
	default:
		return fmt.Errorf("unknown kind %q", kind)
	}
	_, err := tx.Exec(ctx, query, listingID)
	return err
}
