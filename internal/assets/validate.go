// internal/assets/validate.go
package assets

import (
	"bytes"
	"fmt"
	"image"
	"math"

	_ "image/jpeg"
	_ "image/png"

	"github.com/gabriel-vasile/mimetype"

	"brandassets/internal/models"
)

// aspectTolerance is how far the decoded width/height ratio may deviate
// from the policy ratio before the upload is rejected.
const aspectTolerance = 0.02

// Validate checks raw upload bytes against a policy and returns the decoded
// image info. Dimensions are always read from the byte stream; the declared
// MIME type is only trusted after the content itself sniffs as an allowed
// image format, so a renamed non-image file is rejected. Validate has no
// side effects and is safe for concurrent use.
func Validate(data []byte, declaredMIME string, p Policy) (models.ImageInfo, error) {
	const op = "assets.Validate"

	if int64(len(data)) > p.MaxBytes {
		return models.ImageInfo{}, fmt.Errorf("%s: %w: %d bytes, limit %d", op, ErrTooLarge, len(data), p.MaxBytes)
	}

	if !p.AllowedMIME[declaredMIME] {
		return models.ImageInfo{}, fmt.Errorf("%s: %w: %q", op, ErrUnsupportedType, declaredMIME)
	}

	if detected := mimetype.Detect(data); !p.AllowedMIME[detected.String()] {
		return models.ImageInfo{}, fmt.Errorf("%s: %w: content sniffed as %q", op, ErrUnreadableImage, detected.String())
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return models.ImageInfo{}, fmt.Errorf("%s: %w: %v", op, ErrUnreadableImage, err)
	}

	if cfg.Width < p.MinWidth || cfg.Height < p.MinHeight {
		return models.ImageInfo{}, fmt.Errorf("%s: %w: %dx%d, minimum %dx%d",
			op, ErrDimensionsTooSmall, cfg.Width, cfg.Height, p.MinWidth, p.MinHeight)
	}

	ratio := float64(cfg.Width) / float64(cfg.Height)
	if math.Abs(ratio-p.Ratio()) > aspectTolerance {
		return models.ImageInfo{}, fmt.Errorf("%s: %w: got %.3f, want %d:%d",
			op, ErrAspectRatioMismatch, ratio, p.AspectW, p.AspectH)
	}

	return models.ImageInfo{Width: cfg.Width, Height: cfg.Height, Format: format}, nil
}
