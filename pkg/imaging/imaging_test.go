package imaging

import (
	"encoding/base64"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"
)

func testImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 0x80, A: 0xff})
		}
	}

	return img
}

func TestFit(t *testing.T) {
	tests := []struct {
		name           string
		width, height  int
		max            int
		expectedWidth  int
		expectedHeight int
	}{
		{"small stays", 640, 480, 1280, 640, 480},
		{"exact bound stays", 1280, 720, 1280, 1280, 720},
		{"landscape shrinks", 2560, 1440, 1280, 1280, 720},
		{"portrait shrinks", 1000, 4000, 1280, 320, 1280},
		{"square shrinks", 3000, 3000, 1280, 1280, 1280},
		{"thin never zero", 10000, 2, 1280, 1280, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := Fit(tt.width, tt.height, tt.max)

			require.Equal(t, tt.expectedWidth, w)
			require.Equal(t, tt.expectedHeight, h)
		})
	}
}

func TestResizeNeverUpscales(t *testing.T) {
	img := testImage(200, 100)

	result := Resize(img, 1280)

	require.Same(t, img, result)
}

func TestResizeScalesDown(t *testing.T) {
	img := testImage(400, 200)

	result := Resize(img, 100)

	require.Equal(t, 100, result.Bounds().Dx())
	require.Equal(t, 50, result.Bounds().Dy())
}

func TestDecode(t *testing.T) {
	data, err := EncodePNG(testImage(16, 8))
	require.NoError(t, err)

	img, err := Decode(data)
	require.NoError(t, err)

	require.Equal(t, 16, img.Bounds().Dx())
	require.Equal(t, 8, img.Bounds().Dy())
}

func TestDecodeInvalid(t *testing.T) {
	_, err := Decode(nil)
	require.ErrorIs(t, err, ErrNoImage)

	_, err = Decode([]byte("definitely not an image"))
	require.ErrorIs(t, err, ErrInvalidImage)
}

func TestDecodeBase64(t *testing.T) {
	data := []byte{0x89, 'P', 'N', 'G', 0xfb, 0xff}

	tests := []struct {
		name  string
		input string
	}{
		{"standard", base64.StdEncoding.EncodeToString(data)},
		{"url safe", base64.URLEncoding.EncodeToString(data)},
		{"raw", base64.RawStdEncoding.EncodeToString(data)},
		{"data url", "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)},
		{"whitespace", "  " + base64.StdEncoding.EncodeToString(data) + "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := DecodeBase64(tt.input)

			require.NoError(t, err)
			require.Equal(t, data, result)
		})
	}
}

func TestDecodeBase64Invalid(t *testing.T) {
	_, err := DecodeBase64("!!! not base64 !!!")
	require.ErrorIs(t, err, ErrInvalidImage)

	_, err = DecodeBase64("data:image/png;base64")
	require.ErrorIs(t, err, ErrInvalidImage)

	_, err = DecodeBase64("   ")
	require.ErrorIs(t, err, ErrNoImage)
}
