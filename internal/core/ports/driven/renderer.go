package driven

import (
	"context"
	"image/draw"
	"io"

	"github.com/custodia-labs/annotate-cli/internal/core/domain"
)

// Renderer paints a workspace snapshot onto a surface.
// Implementations only read the state and keep no reference to it.
type Renderer interface {
	Render(dst draw.Image, state domain.WorkspaceState) error
}

// Exporter writes a rendered workspace snapshot in one file format.
type Exporter interface {
	// Format is the file extension without the dot ("png", "pdf").
	Format() string

	// Export renders state at width x height pixels and writes it to w.
	Export(ctx context.Context, w io.Writer, state domain.WorkspaceState, width, height int) error
}
