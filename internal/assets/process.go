// internal/assets/process.go
package assets

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"brandassets/internal/models"
)

// All processed images are re-encoded as JPEG at this quality to bound
// stored size regardless of the input format.
const jpegQuality = 85

// Process normalizes validated upload bytes to the policy's canonical
// dimensions: center-crop to the policy aspect ratio, Lanczos resize, JPEG
// re-encode. The same input bytes and policy always produce the same output
// bytes. Any decode or encode failure is ErrProcessingFailed; unprocessed
// bytes are never passed through.
func Process(data []byte, info models.ImageInfo, p Policy) ([]byte, models.Dimensions, error) {
	const op = "assets.Process"

	src, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, models.Dimensions{}, fmt.Errorf("%s: %w: %v", op, ErrProcessingFailed, err)
	}

	cropped := cropToRatio(src, p.AspectW, p.AspectH)
	out := imaging.Resize(cropped, p.CanonicalWidth, p.CanonicalHeight, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, models.Dimensions{}, fmt.Errorf("%s: %w: %v", op, ErrProcessingFailed, err)
	}

	return buf.Bytes(), models.Dimensions{Width: p.CanonicalWidth, Height: p.CanonicalHeight}, nil
}

// cropToRatio center-crops src to the largest rectangle matching
// aspectW:aspectH. A source already at the ratio is returned uncropped.
func cropToRatio(src image.Image, aspectW, aspectH int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()

	if w*aspectH == h*aspectW {
		return src
	}
	if w*aspectH > h*aspectW {
		// Too wide: keep full height, trim width.
		return imaging.CropCenter(src, h*aspectW/aspectH, h)
	}
	// Too tall: keep full width, trim height.
	return imaging.CropCenter(src, w, w*aspectH/aspectW)
}
