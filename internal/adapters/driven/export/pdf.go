package export

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"io"

	"github.com/jung-kurt/gofpdf"

	"github.com/custodia-labs/annotate-cli/internal/core/domain"
	"github.com/custodia-labs/annotate-cli/internal/core/ports/driven"
	"github.com/custodia-labs/annotate-cli/internal/logger"
)

// Ensure PDF implements the interface.
var _ driven.Exporter = (*PDF)(nil)

// snapshotName is the name the rendered image is registered under.
const snapshotName = "snapshot"

// PDF writes snapshots as single-page PDF documents.
// The page is sized to the snapshot at one point per pixel.
type PDF struct {
	renderer driven.Renderer
	creator  string
}

// NewPDF creates a PDF exporter drawing with renderer.
func NewPDF(renderer driven.Renderer, creator string) *PDF {
	return &PDF{renderer: renderer, creator: creator}
}

// Format returns "pdf".
func (e *PDF) Format() string {
	return "pdf"
}

// Export renders state and writes it to w as a PDF page.
func (e *PDF) Export(ctx context.Context, w io.Writer, state domain.WorkspaceState, width, height int) error {
	img, err := snapshot(ctx, e.renderer, state, width, height)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	// Landscape would swap the custom size, so the page is always portrait.
	pw, ph := float64(img.Rect.Dx()), float64(img.Rect.Dy())
	p := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: pw, Ht: ph},
	})
	p.SetMargins(0, 0, 0)
	p.SetAutoPageBreak(false, 0)
	p.SetCreator(e.creator, true)
	if state.ImageName != "" {
		p.SetTitle(state.ImageName, true)
	}
	p.AddPage()

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	p.RegisterImageOptionsReader(snapshotName, opts, &buf)
	p.ImageOptions(snapshotName, 0, 0, pw, ph, false, opts, 0, "")

	if err := p.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	logger.Debug("Exported %dx%d snapshot as PDF", img.Rect.Dx(), img.Rect.Dy())
	return nil
}
