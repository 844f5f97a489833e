// Package normalizer applies the fixed image policy to uploads: images are
// proportionally downsized so their longest side fits MaxDimension and
// re-encoded as JPEG at a fixed quality. The policy is not configurable.
package normalizer

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/disintegration/imaging"
)

const (
	// MaxDimension caps the longest side of a stored image in pixels.
	MaxDimension = 1920
	// JPEGQuality is the fixed re-encode quality.
	JPEGQuality = 80
	// ContentType is the content type of every normalized image.
	ContentType = "image/jpeg"
)

// IsImage reports whether the declared content type classifies the payload
// as an image.
func IsImage(contentType string) bool {
	return strings.HasPrefix(contentType, "image/")
}

// Normalize downsizes and re-encodes an image payload. Non-image content
// types pass through untouched, as does a payload whose declared image type
// cannot be decoded.
func Normalize(data []byte, contentType string) ([]byte, string, error) {
	if !IsImage(contentType) {
		return data, contentType, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return data, contentType, nil
	}

	bounds := img.Bounds()
	if bounds.Dx() > MaxDimension || bounds.Dy() > MaxDimension {
		// Fit preserves aspect ratio and never upscales.
		img = imaging.Fit(img, MaxDimension, MaxDimension, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(JPEGQuality)); err != nil {
		return nil, "", fmt.Errorf("encode image: %w", err)
	}

	return buf.Bytes(), ContentType, nil
}
