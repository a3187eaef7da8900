package servagri

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"math"

	"golang.org/x/image/draw"
)

const (
	// maxImageDim bounds both dimensions of a normalized image. Larger
	// inputs are scaled down preserving aspect ratio; smaller inputs are
	// never upscaled.
	maxImageDim = 800

	// jpegQuality is the fixed re-encoding quality for normalized images.
	jpegQuality = 50

	// MaxProjectImages caps the gallery size of a single project.
	MaxProjectImages = 5

	// maxBatchBytes caps the cumulative encoded size of images added to a
	// project in one batch.
	maxBatchBytes = 4 << 20
)

// NormalizeImage decodes one raw image (jpeg, png, or gif), scales it down
// so neither dimension exceeds maxImageDim, re-encodes it as JPEG at the
// fixed quality, and returns it as a data URI suitable for inline storage.
// Purely local; no I/O beyond reading src.
func NormalizeImage(src io.Reader) (string, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > maxImageDim || h > maxImageDim {
		nw, nh := fitWithin(w, h, maxImageDim)
		dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", fmt.Errorf("encode jpeg: %w", err)
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// NormalizeBatch normalizes a batch of images destined for one project
// gallery. existing is the number of images already attached; the batch is
// rejected whole with ErrTooManyImages if the total would exceed
// MaxProjectImages, and with ErrBatchTooLarge if the encoded batch exceeds
// the cumulative size ceiling. A rejected batch contributes nothing.
func NormalizeBatch(files []io.Reader, existing int) ([]string, error) {
	return normalizeBatch(files, existing, MaxProjectImages, maxBatchBytes)
}

func normalizeBatch(files []io.Reader, existing, maxCount, maxBytes int) ([]string, error) {
	if existing+len(files) > maxCount {
		return nil, fmt.Errorf("%w: %d images maximum per project", ErrTooManyImages, maxCount)
	}
	var out []string
	total := 0
	for _, f := range files {
		s, err := NormalizeImage(f)
		if err != nil {
			return nil, err
		}
		total += len(s)
		out = append(out, s)
	}
	if total > maxBytes {
		return nil, fmt.Errorf("%w: %d bytes encoded, ceiling is %d", ErrBatchTooLarge, total, maxBytes)
	}
	return out, nil
}

// fitWithin scales (w, h) to fit a max×max box, clamping width first and
// then height, with rounding on the free dimension.
func fitWithin(w, h, max int) (int, int) {
	if w > max {
		h = int(math.Round(float64(h) * float64(max) / float64(w)))
		w = max
	}
	if h > max {
		w = int(math.Round(float64(w) * float64(max) / float64(h)))
		h = max
	}
	return w, h
}
