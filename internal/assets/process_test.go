package assets

import (
	"bytes"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brandassets/internal/models"
)

func decodeDims(t *testing.T, data []byte) (int, int, string) {
	t.Helper()
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	return cfg.Width, cfg.Height, format
}

func TestProcessLogoCanonicalDimensions(t *testing.T) {
	p := mustPolicy(t, models.KindLogo)

	for _, size := range []int{320, 400, 1000} {
		data := pngBytes(t, size, size)
		info, err := Validate(data, "image/png", p)
		require.NoError(t, err)

		out, dims, err := Process(data, info, p)
		require.NoError(t, err)
		assert.Equal(t, models.Dimensions{Width: 400, Height: 400}, dims)

		w, h, format := decodeDims(t, out)
		assert.Equal(t, 400, w)
		assert.Equal(t, 400, h)
		assert.Equal(t, "jpeg", format)
	}
}

func TestProcessBannerCanonicalDimensions(t *testing.T) {
	p := mustPolicy(t, models.KindBanner)
	data := jpegBytes(t, 2400, 800)

	info, err := Validate(data, "image/jpeg", p)
	require.NoError(t, err)

	out, dims, err := Process(data, info, p)
	require.NoError(t, err)
	assert.Equal(t, models.Dimensions{Width: 1500, Height: 500}, dims)

	w, h, _ := decodeDims(t, out)
	assert.Equal(t, 1500, w)
	assert.Equal(t, 500, h)
}

func TestProcessCropsNonSquareLogo(t *testing.T) {
	p := mustPolicy(t, models.KindLogo)

	// Process itself does not validate; feed it a non-square source and
	// the center crop still yields the canonical square.
	data := pngBytes(t, 600, 400)
	out, dims, err := Process(data, models.ImageInfo{Width: 600, Height: 400, Format: "png"}, p)
	require.NoError(t, err)
	assert.Equal(t, models.Dimensions{Width: 400, Height: 400}, dims)

	w, h, _ := decodeDims(t, out)
	assert.Equal(t, 400, w)
	assert.Equal(t, 400, h)
}

func TestProcessNormalizesFormatToJPEG(t *testing.T) {
	p := mustPolicy(t, models.KindLogo)
	data := pngBytes(t, 400, 400)

	out, _, err := Process(data, models.ImageInfo{Width: 400, Height: 400, Format: "png"}, p)
	require.NoError(t, err)

	_, _, format := decodeDims(t, out)
	assert.Equal(t, "jpeg", format)
}

func TestProcessDeterministic(t *testing.T) {
	p := mustPolicy(t, models.KindBanner)
	data := jpegBytes(t, 1500, 500)
	info := models.ImageInfo{Width: 1500, Height: 500, Format: "jpeg"}

	first, _, err1 := Process(data, info, p)
	second, _, err2 := Process(data, info, p)
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.True(t, bytes.Equal(first, second))
}

func TestProcessGarbageFails(t *testing.T) {
	p := mustPolicy(t, models.KindLogo)

	out, _, err := Process([]byte("garbage"), models.ImageInfo{}, p)
	assert.ErrorIs(t, err, ErrProcessingFailed)
	assert.Nil(t, out)
}
