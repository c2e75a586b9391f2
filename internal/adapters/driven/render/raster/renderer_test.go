package raster

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/annotate-cli/internal/core/domain"
	"github.com/custodia-labs/annotate-cli/internal/palette"
)

func solid(w, h int, c color.Color) *domain.ImagePayload {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return domain.NewImagePayload(img)
}

func blackState() domain.WorkspaceState {
	state := domain.NewWorkspaceState(domain.DefaultSettings())
	state.Image = solid(40, 40, color.Black)
	state.ImageName = "black.png"
	state.Draw.ShowLabels = false
	return state
}

func boxFile(name, colour string, visible bool) domain.AnnotationFile {
	return domain.AnnotationFile{
		Name:        name,
		Color:       colour,
		Visible:     visible,
		Annotations: []domain.Annotation{domain.NewBBox("car", 0.5, 0.5, 0.5, 0.5)},
	}
}

func assertColor(t *testing.T, want color.Color, got color.Color) {
	t.Helper()
	w, _ := colorful.MakeColor(want)
	g, _ := colorful.MakeColor(got)
	assert.InDelta(t, 0, w.DistanceRgb(g), 0.02, "want %v got %v", want, got)
}

func TestRenderer_InvalidDestination(t *testing.T) {
	r := New()

	assert.ErrorIs(t, r.Render(nil, blackState()), domain.ErrInvalidInput)
	assert.ErrorIs(t, r.Render(image.NewRGBA(image.Rectangle{}), blackState()), domain.ErrInvalidInput)
}

func TestRenderer_EmptyWorkspace(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 5, 5))

	require.NoError(t, New().Render(dst, domain.NewWorkspaceState(domain.DefaultSettings())))

	assertColor(t, background, dst.At(2, 2))
}

func TestRenderer_ScalesImage(t *testing.T) {
	state := domain.NewWorkspaceState(domain.DefaultSettings())
	state.Image = solid(4, 4, color.RGBA{R: 255, A: 255})
	dst := image.NewRGBA(image.Rect(0, 0, 16, 16))

	require.NoError(t, New().Render(dst, state))

	assertColor(t, color.RGBA{R: 255, A: 255}, dst.At(8, 8))
	assertColor(t, color.RGBA{R: 255, A: 255}, dst.At(15, 15))
}

func TestRenderer_MaskModes(t *testing.T) {
	mask := image.NewGray(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 5; x < 10; x++ {
			mask.SetGray(x, y, color.Gray{Y: 3})
		}
	}

	render := func(display domain.DisplaySettings) *image.RGBA {
		state := domain.NewWorkspaceState(domain.DefaultSettings())
		state.Image = solid(10, 10, color.Black)
		state.Mask = domain.NewImagePayload(mask)
		state.Display = display
		dst := image.NewRGBA(image.Rect(0, 0, 10, 10))
		require.NoError(t, New().Render(dst, state))
		return dst
	}

	t.Run("overlay opaque", func(t *testing.T) {
		dst := render(domain.DisplaySettings{ColorMode: domain.ColorModeFile, MaskMode: domain.MaskModeOverlay, MaskOpacity: 1})
		assertColor(t, palette.Level(3), dst.At(7, 5))
		assertColor(t, color.Black, dst.At(2, 5))
	})

	t.Run("overlay transparent", func(t *testing.T) {
		dst := render(domain.DisplaySettings{ColorMode: domain.ColorModeFile, MaskMode: domain.MaskModeOverlay, MaskOpacity: 0})
		assertColor(t, color.Black, dst.At(7, 5))
	})

	t.Run("outline", func(t *testing.T) {
		dst := render(domain.DisplaySettings{ColorMode: domain.ColorModeFile, MaskMode: domain.MaskModeOutline, MaskOpacity: 0.5})
		assertColor(t, palette.Level(3), dst.At(4, 5))
		assertColor(t, color.Black, dst.At(7, 5))
		assertColor(t, color.Black, dst.At(1, 5))
	})

	t.Run("hidden", func(t *testing.T) {
		dst := render(domain.DisplaySettings{ColorMode: domain.ColorModeFile, MaskMode: domain.MaskModeHidden, MaskOpacity: 1})
		assertColor(t, color.Black, dst.At(7, 5))
	})
}

func TestRenderer_StrokesBoxes(t *testing.T) {
	state := blackState()
	state.Files = []domain.AnnotationFile{boxFile("a.txt", "#00ff00", true)}
	dst := image.NewRGBA(image.Rect(0, 0, 40, 40))

	require.NoError(t, New().Render(dst, state))

	green := color.RGBA{G: 255, A: 255}
	assertColor(t, green, dst.At(10, 20))
	assertColor(t, green, dst.At(29, 20))
	assertColor(t, green, dst.At(20, 10))
	assertColor(t, color.Black, dst.At(20, 20))
	assertColor(t, color.Black, dst.At(2, 2))
}

func TestRenderer_SkipsHiddenFiles(t *testing.T) {
	state := blackState()
	state.Files = []domain.AnnotationFile{boxFile("a.txt", "#00ff00", false)}
	dst := image.NewRGBA(image.Rect(0, 0, 40, 40))

	require.NoError(t, New().Render(dst, state))

	assertColor(t, color.Black, dst.At(10, 20))
}

func TestRenderer_ColorModes(t *testing.T) {
	state := blackState()
	state.Files = []domain.AnnotationFile{boxFile("a.txt", "#00ff00", true)}
	state.ClassColors["car"] = "hsl(240, 100%, 50%)"

	state.Display.ColorMode = domain.ColorModeClass
	dst := image.NewRGBA(image.Rect(0, 0, 40, 40))
	require.NoError(t, New().Render(dst, state))
	assertColor(t, color.RGBA{B: 255, A: 255}, dst.At(10, 20))

	// Unknown classes fall back to the file colour.
	delete(state.ClassColors, "car")
	require.NoError(t, New().Render(dst, state))
	assertColor(t, color.RGBA{G: 255, A: 255}, dst.At(10, 20))
}

func TestRenderer_Polygon(t *testing.T) {
	state := blackState()
	state.Files = []domain.AnnotationFile{{
		Name:    "p.geojson",
		Color:   "red",
		Visible: true,
		Annotations: []domain.Annotation{
			domain.NewPolygon("", []float64{0.25, 0.25, 0.75, 0.25, 0.75, 0.75, 0.25, 0.75}, nil),
		},
	}}
	dst := image.NewRGBA(image.Rect(0, 0, 40, 40))

	require.NoError(t, New().Render(dst, state))

	assertColor(t, color.RGBA{R: 255, A: 255}, dst.At(10, 20))
	assertColor(t, color.Black, dst.At(20, 20))
}

func TestRenderer_Labels(t *testing.T) {
	state := blackState()
	state.Files = []domain.AnnotationFile{boxFile("a.txt", "#00ff00", true)}
	dst := image.NewRGBA(image.Rect(0, 0, 40, 40))

	state.Draw.ShowLabels = false
	require.NoError(t, New().Render(dst, state))
	assertColor(t, color.Black, dst.At(13, 5))

	state.Draw.ShowLabels = true
	require.NoError(t, New().Render(dst, state))
	lit := 0
	for y := 0; y < 9; y++ {
		for x := 10; x < 40; x++ {
			if r, g, b, _ := dst.At(x, y).RGBA(); r+g+b > 0 {
				lit++
			}
		}
	}
	assert.Positive(t, lit)
}

func TestRenderer_DoesNotModifyState(t *testing.T) {
	state := blackState()
	state.Files = []domain.AnnotationFile{boxFile("a.txt", "#00ff00", true)}
	before := state.Clone()

	require.NoError(t, New().Render(image.NewRGBA(image.Rect(0, 0, 20, 20)), state))

	assert.Equal(t, before, state)
}
