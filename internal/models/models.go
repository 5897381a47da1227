// internal/models/models.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Kind is the asset category. It is a closed enum: values are constructed
// through ParseKind at the API boundary, never from raw strings.
type Kind string

const (
	KindBanner Kind = "banner"
	KindLogo   Kind = "logo"
)

func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case KindBanner, KindLogo:
		return Kind(s), true
	}
	return "", false
}

// SubjectType identifies the owning entity of an asset.
type SubjectType string

const (
	SubjectCompany SubjectType = "company"
	SubjectListing SubjectType = "listing"
)

func ParseSubjectType(s string) (SubjectType, bool) {
	switch SubjectType(s) {
	case SubjectCompany, SubjectListing:
		return SubjectType(s), true
	}
	return "", false
}

type Subject struct {
	Type SubjectType
	ID   uuid.UUID
}

// ImageInfo is what validation learns about an upload: the dimensions
// decoded from the byte stream (never client-declared) and the detected
// container format.
type ImageInfo struct {
	Width  int
	Height int
	Format string
}

type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// AssetRecord is the persisted metadata for one uploaded asset. A subject
// has at most one record per kind; re-upload replaces the whole record.
// A nil *AssetRecord means "no asset uploaded": a non-nil record always has
// every field populated, which is how the all-or-nothing invariant is kept
// in Go code (the database enforces it with a CHECK constraint).
type AssetRecord struct {
	SubjectID    uuid.UUID   `db:"subject_id"`
	SubjectType  SubjectType `db:"subject_type"`
	Kind         Kind        `db:"kind"`
	Path         string      `db:"path"`
	OriginalName string      `db:"original_name"`
	ByteSize     int64       `db:"byte_size"`
	MimeType     string      `db:"mime_type"`
	Width        int         `db:"width"`
	Height       int         `db:"height"`
	UploadedAt   time.Time   `db:"uploaded_at"`
}

// ListingImageSettings holds the per-listing display toggles. Both toggles
// default to true; a successful listing-specific upload forces the matching
// toggle to false. CompanyID links the listing to its company for effective
// image resolution and may be unset until the page layer registers it.
type ListingImageSettings struct {
	ListingID        uuid.UUID  `db:"listing_id"`
	CompanyID        *uuid.UUID `db:"company_id"`
	UseCompanyBanner bool       `db:"use_company_banner"`
	UseCompanyLogo   bool       `db:"use_company_logo"`
}

// UseCompany returns the toggle value for the given kind.
func (s ListingImageSettings) UseCompany(kind Kind) bool {
	if kind == KindBanner {
		return s.UseCompanyBanner
	}
	return s.UseCompanyLogo
}
