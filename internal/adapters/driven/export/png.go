package export

import (
	"context"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/annotate-cli/internal/core/domain"
	"github.com/custodia-labs/annotate-cli/internal/core/ports/driven"
)

// Ensure PNG implements the interface.
var _ driven.Exporter = (*PNG)(nil)

// PNG writes snapshots as PNG images.
type PNG struct {
	renderer driven.Renderer
}

// NewPNG creates a PNG exporter drawing with renderer.
func NewPNG(renderer driven.Renderer) *PNG {
	return &PNG{renderer: renderer}
}

// Format returns "png".
func (e *PNG) Format() string {
	return "png"
}

// Export renders state and encodes it to w.
func (e *PNG) Export(ctx context.Context, w io.Writer, state domain.WorkspaceState, width, height int) error {
	img, err := snapshot(ctx, e.renderer, state, width, height)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

func extension(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}
