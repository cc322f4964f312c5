package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/png"
	"strings"

	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"golang.org/x/image/draw"
)

const DefaultMaxSize = 1280

var (
	ErrNoImage      = errors.New("no image provided")
	ErrInvalidImage = errors.New("invalid image")
)

// Decode turns encoded image bytes into an image.
func Decode(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, ErrNoImage
	}

	img, _, err := image.Decode(bytes.NewReader(data))

	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidImage, err)
	}

	if b := img.Bounds(); b.Empty() {
		return nil, fmt.Errorf("%w: empty bounds", ErrInvalidImage)
	}

	return img, nil
}

// DecodeBase64 accepts plain standard or URL-safe base64 as well as data URLs
// (data:image/png;base64,...) and returns the raw bytes.
func DecodeBase64(s string) ([]byte, error) {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "data:") {
		idx := strings.IndexByte(s, ',')

		if idx < 0 {
			return nil, fmt.Errorf("%w: malformed data url", ErrInvalidImage)
		}

		s = s[idx+1:]
	}

	if s == "" {
		return nil, ErrNoImage
	}

	encodings := []*base64.Encoding{
		base64.StdEncoding,
		base64.URLEncoding,
		base64.RawStdEncoding,
		base64.RawURLEncoding,
	}

	var err error

	for _, enc := range encodings {
		var data []byte

		if data, err = enc.DecodeString(s); err == nil {
			return data, nil
		}
	}

	return nil, fmt.Errorf("%w: %w", ErrInvalidImage, err)
}

// Resize scales img down so that its longer side is at most limit pixels.
// Images already within the bound are returned unchanged.
func Resize(img image.Image, limit int) image.Image {
	if limit <= 0 {
		limit = DefaultMaxSize
	}

	bounds := img.Bounds()

	width, height := Fit(bounds.Dx(), bounds.Dy(), limit)

	if width == bounds.Dx() && height == bounds.Dy() {
		return img
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)

	return dst
}

// Fit returns the dimensions of a width x height box uniformly scaled so its
// longer side does not exceed limit. It never enlarges.
func Fit(width, height, limit int) (int, int) {
	longest := width

	if height > longest {
		longest = height
	}

	if longest <= limit || longest == 0 {
		return width, height
	}

	if width >= height {
		return limit, clamp(height * limit / width)
	}

	return clamp(width * limit / height), limit
}

// EncodePNG encodes img losslessly for engines that consume encoded bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer

	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func clamp(v int) int {
	if v < 1 {
		return 1
	}

	return v
}
