package imageprocessor

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestFit(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		wantW, wantH  int
	}{
		{"small image untouched", 100, 80, 100, 80},
		{"landscape", 2000, 1000, 512, 256},
		{"portrait", 1000, 2000, 256, 512},
		{"square", 1024, 1024, 512, 512},
		{"degenerate", 0, 10, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := Fit(tt.width, tt.height, 512)
			assert.Equal(t, tt.wantW, w)
			assert.Equal(t, tt.wantH, h)
		})
	}
}

func TestNormalize_DownscalesToJPEG(t *testing.T) {
	p := NewProcessor(80, 64)

	out, err := p.Normalize(bytes.NewReader(pngBytes(t, 256, 128)))
	require.NoError(t, err)

	img, format, err := image.Decode(bytes.NewReader(out.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 32, img.Bounds().Dy())
}

func TestNormalize_RejectsGarbage(t *testing.T) {
	p := NewProcessor(0, 0)
	_, err := p.Normalize(strings.NewReader("not an image"))
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestGetImageDimensions(t *testing.T) {
	w, h, err := GetImageDimensions(bytes.NewReader(pngBytes(t, 30, 20)))
	require.NoError(t, err)
	assert.Equal(t, 30, w)
	assert.Equal(t, 20, h)
	assert.False(t, IsValidImage(strings.NewReader("nope")))
}
