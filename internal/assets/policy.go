// internal/assets/policy.go
package assets

import "brandassets/internal/models"

// Policy is the immutable per-kind upload configuration. Both the validator
// and the processor consult the same Policy value, so the two cannot
// diverge on ratio or dimensions.
type Policy struct {
	Kind      models.Kind
	AspectW   int
	AspectH   int
	MinWidth  int
	MinHeight int
	MaxBytes  int64

	// CanonicalWidth/Height are the output dimensions after processing,
	// fixed regardless of input size.
	CanonicalWidth  int
	CanonicalHeight int

	AllowedMIME map[string]bool
}

// Ratio returns the required width/height ratio as a float.
func (p Policy) Ratio() float64 {
	return float64(p.AspectW) / float64(p.AspectH)
}

var allowedImageMIME = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
}

var policies = map[models.Kind]Policy{
	models.KindBanner: {
		Kind:            models.KindBanner,
		AspectW:         3,
		AspectH:         1,
		MinWidth:        1200,
		MinHeight:       400,
		MaxBytes:        16 << 20,
		CanonicalWidth:  1500,
		CanonicalHeight: 500,
		AllowedMIME:     allowedImageMIME,
	},
	models.KindLogo: {
		Kind:            models.KindLogo,
		AspectW:         1,
		AspectH:         1,
		MinWidth:        320,
		MinHeight:       320,
		MaxBytes:        8 << 20,
		CanonicalWidth:  400,
		CanonicalHeight: 400,
		AllowedMIME:     allowedImageMIME,
	},
}

// PolicyFor looks up the policy for a kind. The bool is false for a kind
// that never passed ParseKind.
func PolicyFor(kind models.Kind) (Policy, bool) {
	p, ok := policies[kind]
	return p, ok
}
