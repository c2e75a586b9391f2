package services

import (
	"image"
	"image/color"
	"time"

	"github.com/custodia-labs/annotate-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/annotate-cli/internal/core/domain"
)

// fixedClock always returns the same instant.
type fixedClock struct {
	at time.Time
}

func (c fixedClock) Now() time.Time {
	return c.at
}

func newTestWorkspace() *WorkspaceService {
	return NewWorkspaceService(memory.NewActionLog(), fixedClock{at: time.Unix(1_700_000_000, 0)}, domain.DefaultSettings())
}

func rgbaPayload(w, h int) *domain.ImagePayload {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: 80, B: uint8(y), A: 255})
		}
	}
	return domain.NewImagePayload(img)
}

func grayPayload(w, h int) *domain.ImagePayload {
	return domain.NewImagePayload(image.NewGray(image.Rect(0, 0, w, h)))
}

func bboxFile(name string, classes ...string) domain.AnnotationFile {
	f := domain.AnnotationFile{Name: name, Visible: true, Color: "hsl(10, 70%, 50%)"}
	for i, c := range classes {
		f.Annotations = append(f.Annotations, domain.NewBBox(c, 0.1*float64(i+1), 0.5, 0.1, 0.1))
	}
	return f
}

func entry(action domain.Action, sec int64) domain.HistoryEntry {
	return domain.NewHistoryEntry(action, time.Unix(sec, 0))
}

func fileNames(state domain.WorkspaceState) []string {
	out := make([]string, len(state.Files))
	for i := range state.Files {
		out[i] = state.Files[i].Name
	}
	return out
}
