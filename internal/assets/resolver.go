// internal/assets/resolver.go
package assets

import "brandassets/internal/models"

// EffectiveAsset resolves which asset a job listing presents for a kind.
// With the use-company toggle on, the company's asset is shown; otherwise
// the listing's own. Either side may be nil, in which case nil is returned
// rather than a fabricated placeholder. The toggle only changes which asset
// is displayed: a listing's own upload survives the toggle being switched
// away and back.
func EffectiveAsset(settings models.ListingImageSettings, companyAssets, listingAssets map[models.Kind]*models.AssetRecord, kind models.Kind) *models.AssetRecord {
	if settings.UseCompany(kind) {
		return companyAssets[kind]
	}
	return listingAssets[kind]
}
