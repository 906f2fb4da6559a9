package imageprocessor

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

var ErrInvalidImage = errors.New("invalid image")

// Processor normalizes uploaded avatars and logos into bounded JPEGs
type Processor struct {
	quality      int // JPEG quality (1-100)
	maxDimension int
}

// NewProcessor creates a new image processor
func NewProcessor(quality, maxDimension int) *Processor {
	if quality <= 0 || quality > 100 {
		quality = 85
	}
	if maxDimension <= 0 {
		maxDimension = 512
	}
	return &Processor{
		quality:      quality,
		maxDimension: maxDimension,
	}
}

// Normalize decodes jpeg, png, gif or webp input, shrinks it to fit the
// configured square and re-encodes as JPEG. Images are never upscaled.
func (p *Processor) Normalize(reader io.Reader) (*bytes.Buffer, error) {
	img, _, err := image.Decode(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	w, h := Fit(img.Bounds().Dx(), img.Bounds().Dy(), p.maxDimension)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	// transparent areas become white instead of black
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: p.quality}); err != nil {
		return nil, fmt.Errorf("failed to encode JPEG: %w", err)
	}
	return &buf, nil
}

// Fit scales (width, height) down to fit inside max x max keeping the aspect ratio
func Fit(width, height, max int) (int, int) {
	if width <= 0 || height <= 0 {
		return 1, 1
	}
	if width <= max && height <= max {
		return width, height
	}
	if width >= height {
		h := height * max / width
		if h < 1 {
			h = 1
		}
		return max, h
	}
	w := width * max / height
	if w < 1 {
		w = 1
	}
	return w, max
}

// GetImageDimensions returns the dimensions of an image without decoding pixels
func GetImageDimensions(reader io.Reader) (width, height int, err error) {
	cfg, _, err := image.DecodeConfig(reader)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to decode image: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}

// IsValidImage checks if the reader contains a valid image
func IsValidImage(reader io.Reader) bool {
	_, _, err := image.DecodeConfig(reader)
	return err == nil
}
