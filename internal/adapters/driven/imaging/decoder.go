// Package imaging decodes raster images for the workspace.
package imaging

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"  // register GIF
	_ "image/jpeg" // register JPEG
	_ "image/png"  // register PNG
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp" // register BMP
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp" // register WebP

	"github.com/custodia-labs/annotate-cli/internal/core/domain"
	"github.com/custodia-labs/annotate-cli/internal/core/ports/driven"
	"github.com/custodia-labs/annotate-cli/internal/logger"
)

// Ensure Decoder implements the interface.
var _ driven.ImageDecoder = (*Decoder)(nil)

const (
	// maxSamples caps how many pixels the grayscale check inspects.
	maxSamples = 50_000

	// grayTolerance is the largest channel difference, in 8-bit steps,
	// that still counts as gray. Lossy codecs need a little slack.
	grayTolerance = 2
)

// Decoder decodes PNG, JPEG, GIF, BMP, TIFF and WebP images.
type Decoder struct{}

// New creates a new image decoder.
func New() *Decoder {
	return &Decoder{}
}

// SupportedMIMETypes returns the image types this decoder handles.
func (d *Decoder) SupportedMIMETypes() []string {
	return []string{
		"image/png",
		"image/jpeg",
		"image/gif",
		"image/bmp",
		"image/tiff",
		"image/webp",
	}
}

// Decode decodes data and classifies it as grayscale or colour.
// The format is sniffed from content; TIFF files are also tried by
// extension since some writers emit headers the sniffer misses.
func (d *Decoder) Decode(ctx context.Context, name string, data []byte) (*domain.DecodedImage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", domain.ErrDecode, name)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil && isTIFF(name) {
		img, err = tiff.Decode(bytes.NewReader(data))
		format = "tiff"
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrDecode, name, err)
	}

	img = reduceGray16(img)
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("%w: %s has no pixels", domain.ErrDecode, name)
	}

	gray := IsGrayscale(img)
	logger.Debug("Decoded %s: %s %dx%d grayscale=%t", name, format, b.Dx(), b.Dy(), gray)

	return &domain.DecodedImage{
		Payload:     domain.NewImagePayload(img),
		IsGrayscale: gray,
		Format:      format,
	}, nil
}

func isTIFF(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".tif" || ext == ".tiff"
}

// reduceGray16 converts 16-bit grayscale to 8-bit. Other images are
// returned unchanged.
func reduceGray16(img image.Image) image.Image {
	if _, ok := img.(*image.Gray16); !ok {
		return img
	}
	b := img.Bounds()
	out := image.NewGray(b)
	draw.Draw(out, b, img, b.Min, draw.Src)
	return out
}

// IsGrayscale reports whether every sampled pixel has near-equal RGB
// channels. At most maxSamples pixels are inspected, evenly strided.
func IsGrayscale(img image.Image) bool {
	switch img.ColorModel() {
	case color.GrayModel, color.Gray16Model:
		return true
	}

	b := img.Bounds()
	total := b.Dx() * b.Dy()
	step := max(1, total/maxSamples)

	for i := 0; i < total; i += step {
		x := b.Min.X + i%b.Dx()
		y := b.Min.Y + i/b.Dx()
		c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
		if diff(c.R, c.G) > grayTolerance || diff(c.G, c.B) > grayTolerance || diff(c.R, c.B) > grayTolerance {
			return false
		}
	}
	return true
}

func diff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}
