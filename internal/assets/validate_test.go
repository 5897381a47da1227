package assets

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brandassets/internal/models"
)

func testImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 100, A: 255})
		}
	}
	return img
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testImage(w, h)))
	return buf.Bytes()
}

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, testImage(w, h), &jpeg.Options{Quality: 90}))
	return buf.Bytes()
}

func gifBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, gif.Encode(&buf, testImage(w, h), nil))
	return buf.Bytes()
}

func mustPolicy(t *testing.T, kind models.Kind) Policy {
	t.Helper()
	p, ok := PolicyFor(kind)
	require.True(t, ok)
	return p
}

func TestValidateTooLarge(t *testing.T) {
	p := mustPolicy(t, models.KindLogo)
	data := make([]byte, p.MaxBytes+1)

	_, err := Validate(data, "image/png", p)
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestValidateDeclaredTypeNotAllowed(t *testing.T) {
	p := mustPolicy(t, models.KindLogo)
	data := pngBytes(t, 400, 400)

	_, err := Validate(data, "text/plain", p)
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestValidateRenamedNonImage(t *testing.T) {
	p := mustPolicy(t, models.KindLogo)

	// A text file renamed to .jpg still carries text bytes.
	_, err := Validate([]byte("definitely not a JPEG"), "image/jpeg", p)
	assert.ErrorIs(t, err, ErrUnreadableImage)
}

func TestValidateDisallowedContentBehindAllowedType(t *testing.T) {
	p := mustPolicy(t, models.KindLogo)

	// GIF content declared as PNG: content sniffing rejects it.
	_, err := Validate(gifBytes(t, 400, 400), "image/png", p)
	assert.ErrorIs(t, err, ErrUnreadableImage)
}

func TestValidateLogoTooSmall(t *testing.T) {
	p := mustPolicy(t, models.KindLogo)

	_, err := Validate(pngBytes(t, 300, 300), "image/png", p)
	assert.ErrorIs(t, err, ErrDimensionsTooSmall)
}

func TestValidateBannerTooSmall(t *testing.T) {
	p := mustPolicy(t, models.KindBanner)

	_, err := Validate(jpegBytes(t, 800, 600), "image/jpeg", p)
	assert.ErrorIs(t, err, ErrDimensionsTooSmall)
}

func TestValidateBannerAspectRatio(t *testing.T) {
	p := mustPolicy(t, models.KindBanner)

	// 1300x400 is 3.25:1, outside the 0.02 tolerance around 3:1.
	_, err := Validate(jpegBytes(t, 1300, 400), "image/jpeg", p)
	assert.ErrorIs(t, err, ErrAspectRatioMismatch)
}

func TestValidateLogoAspectRatio(t *testing.T) {
	p := mustPolicy(t, models.KindLogo)

	_, err := Validate(pngBytes(t, 500, 400), "image/png", p)
	assert.ErrorIs(t, err, ErrAspectRatioMismatch)
}

func TestValidateAspectRatioWithinTolerance(t *testing.T) {
	p := mustPolicy(t, models.KindBanner)

	// 1203x400 is 3.0075:1, inside the tolerance.
	info, err := Validate(jpegBytes(t, 1203, 400), "image/jpeg", p)
	require.NoError(t, err)
	assert.Equal(t, 1203, info.Width)
	assert.Equal(t, 400, info.Height)
}

func TestValidateBannerSuccess(t *testing.T) {
	p := mustPolicy(t, models.KindBanner)

	info, err := Validate(jpegBytes(t, 1200, 400), "image/jpeg", p)
	require.NoError(t, err)
	assert.Equal(t, models.ImageInfo{Width: 1200, Height: 400, Format: "jpeg"}, info)
}

func TestValidateLogoSuccess(t *testing.T) {
	p := mustPolicy(t, models.KindLogo)

	info, err := Validate(pngBytes(t, 320, 320), "image/png", p)
	require.NoError(t, err)
	assert.Equal(t, models.ImageInfo{Width: 320, Height: 320, Format: "png"}, info)
}

func TestValidateDeterministic(t *testing.T) {
	p := mustPolicy(t, models.KindLogo)
	data := pngBytes(t, 400, 400)

	first, err1 := Validate(data, "image/png", p)
	second, err2 := Validate(data, "image/png", p)
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, first, second)
}
