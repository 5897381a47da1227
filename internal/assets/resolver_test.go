package assets

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"brandassets/internal/models"
)

func TestEffectiveAsset(t *testing.T) {
	companyLogo := &models.AssetRecord{Path: "company/logo.jpg"}
	listingLogo := &models.AssetRecord{Path: "listing/logo.jpg"}

	tests := []struct {
		name       string
		useCompany bool
		company    map[models.Kind]*models.AssetRecord
		listing    map[models.Kind]*models.AssetRecord
		want       *models.AssetRecord
	}{
		{
			name:       "company toggle on with company asset",
			useCompany: true,
			company:    map[models.Kind]*models.AssetRecord{models.KindLogo: companyLogo},
			listing:    map[models.Kind]*models.AssetRecord{models.KindLogo: listingLogo},
			want:       companyLogo,
		},
		{
			name:       "company toggle on without company asset",
			useCompany: true,
			company:    map[models.Kind]*models.AssetRecord{},
			listing:    map[models.Kind]*models.AssetRecord{models.KindLogo: listingLogo},
			want:       nil,
		},
		{
			name:       "company toggle off with listing asset",
			useCompany: false,
			company:    map[models.Kind]*models.AssetRecord{models.KindLogo: companyLogo},
			listing:    map[models.Kind]*models.AssetRecord{models.KindLogo: listingLogo},
			want:       listingLogo,
		},
		{
			name:       "company toggle off without listing asset",
			useCompany: false,
			company:    map[models.Kind]*models.AssetRecord{models.KindLogo: companyLogo},
			listing:    map[models.Kind]*models.AssetRecord{},
			want:       nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			settings := models.ListingImageSettings{UseCompanyLogo: tc.useCompany}
			got := EffectiveAsset(settings, tc.company, tc.listing, models.KindLogo)
			assert.Equal(t, tc.want, got)
		})
	}
}

// Toggling the source back and forth only changes which asset is shown;
// the listing's own upload stays available the whole time.
func TestEffectiveAssetToggleHidesWithoutDeleting(t *testing.T) {
	companyLogo := &models.AssetRecord{Path: "company/logo.jpg"}
	listingLogo := &models.AssetRecord{Path: "listing/logo.jpg"}
	company := map[models.Kind]*models.AssetRecord{models.KindLogo: companyLogo}
	listing := map[models.Kind]*models.AssetRecord{models.KindLogo: listingLogo}

	custom := EffectiveAsset(models.ListingImageSettings{UseCompanyLogo: false}, company, listing, models.KindLogo)
	assert.Equal(t, listingLogo, custom)

	shared := EffectiveAsset(models.ListingImageSettings{UseCompanyLogo: true}, company, listing, models.KindLogo)
	assert.Equal(t, companyLogo, shared)

	back := EffectiveAsset(models.ListingImageSettings{UseCompanyLogo: false}, company, listing, models.KindLogo)
	assert.Equal(t, listingLogo, back)
}
