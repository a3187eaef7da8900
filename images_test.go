package servagri

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngImage(t *testing.T, w, h int) io.Reader {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &buf
}

func decodeDataURI(t *testing.T, uri string) image.Image {
	t.Helper()
	const prefix = "data:image/jpeg;base64,"
	require.True(t, strings.HasPrefix(uri, prefix), "not a jpeg data URI: %.40s", uri)
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, prefix))
	require.NoError(t, err)
	img, err := jpeg.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	return img
}

func TestNormalizeImageKeepsSmallDimensions(t *testing.T) {
	out, err := NormalizeImage(pngImage(t, 400, 300))
	require.NoError(t, err)

	img := decodeDataURI(t, out)
	assert.Equal(t, 400, img.Bounds().Dx())
	assert.Equal(t, 300, img.Bounds().Dy())
}

func TestNormalizeImageScalesDownToBox(t *testing.T) {
	cases := []struct {
		name         string
		w, h         int
		wantW, wantH int
	}{
		{"wide", 1600, 1200, 800, 600},
		{"tall", 600, 1200, 400, 800},
		{"square", 1000, 1000, 800, 800},
		{"exactly at limit", 800, 800, 800, 800},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := NormalizeImage(pngImage(t, tc.w, tc.h))
			require.NoError(t, err)

			img := decodeDataURI(t, out)
			assert.Equal(t, tc.wantW, img.Bounds().Dx())
			assert.Equal(t, tc.wantH, img.Bounds().Dy())
		})
	}
}

func TestNormalizeImageRejectsGarbage(t *testing.T) {
	_, err := NormalizeImage(strings.NewReader("not an image"))
	assert.Error(t, err)
}

func TestNormalizeBatchCountCeiling(t *testing.T) {
	files := make([]io.Reader, 6)
	for i := range files {
		files[i] = pngImage(t, 100, 100)
	}

	out, err := NormalizeBatch(files, 0)
	require.ErrorIs(t, err, ErrTooManyImages)
	assert.Nil(t, out, "rejected batch must add nothing")
}

func TestNormalizeBatchCountsExistingImages(t *testing.T) {
	files := []io.Reader{pngImage(t, 100, 100), pngImage(t, 100, 100)}

	_, err := NormalizeBatch(files, 4)
	require.ErrorIs(t, err, ErrTooManyImages)

	out, err := NormalizeBatch([]io.Reader{pngImage(t, 100, 100)}, 4)
	require.NoError(t, err)
	assert.Len(t, out, 1)
}

func TestNormalizeBatchSizeCeiling(t *testing.T) {
	files := []io.Reader{pngImage(t, 200, 200), pngImage(t, 200, 200)}

	_, err := normalizeBatch(files, 0, MaxProjectImages, 64)
	require.ErrorIs(t, err, ErrBatchTooLarge)
}

func TestNormalizeBatchHappyPath(t *testing.T) {
	files := []io.Reader{pngImage(t, 1600, 900), pngImage(t, 300, 300)}

	out, err := NormalizeBatch(files, 1)
	require.NoError(t, err)
	require.Len(t, out, 2)

	first := decodeDataURI(t, out[0])
	assert.Equal(t, 800, first.Bounds().Dx())
	second := decodeDataURI(t, out[1])
	assert.Equal(t, 300, second.Bounds().Dx())
}
