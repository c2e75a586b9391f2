// Package export writes rendered workspace snapshots to files.
package export

import (
	"context"
	"fmt"
	"image"

	"github.com/custodia-labs/annotate-cli/internal/core/domain"
	"github.com/custodia-labs/annotate-cli/internal/core/ports/driven"
)

// OutputSize resolves the pixel size of a snapshot.
// Zero for both dimensions means the image's native size; zero for one
// dimension keeps the image's aspect ratio.
func OutputSize(state domain.WorkspaceState, width, height int) (int, int, error) {
	if width < 0 || height < 0 {
		return 0, 0, fmt.Errorf("%w: negative output size %dx%d", domain.ErrInvalidInput, width, height)
	}
	if width > 0 && height > 0 {
		return width, height, nil
	}
	if !state.HasImage() {
		return 0, 0, domain.ErrNoImage
	}

	iw, ih := state.Image.Width, state.Image.Height
	switch {
	case width == 0 && height == 0:
		return iw, ih, nil
	case width == 0:
		return max(1, iw*height/ih), height, nil
	default:
		return width, max(1, ih*width/iw), nil
	}
}

// snapshot renders state into a new RGBA image of the resolved size.
func snapshot(ctx context.Context, r driven.Renderer, state domain.WorkspaceState, width, height int) (*image.RGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	w, h, err := OutputSize(state, width, height)
	if err != nil {
		return nil, err
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if err := r.Render(img, state); err != nil {
		return nil, fmt.Errorf("render snapshot: %w", err)
	}
	return img, nil
}

// ForPath returns the exporter matching the extension of path.
func ForPath(path string, exporters ...driven.Exporter) (driven.Exporter, error) {
	ext := extension(path)
	for _, e := range exporters {
		if e.Format() == ext {
			return e, nil
		}
	}
	return nil, fmt.Errorf("%w: no exporter for %q", domain.ErrUnsupportedType, path)
}
