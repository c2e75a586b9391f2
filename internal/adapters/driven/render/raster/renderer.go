// Package raster paints workspace snapshots onto in-memory images.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/custodia-labs/annotate-cli/internal/core/domain"
	"github.com/custodia-labs/annotate-cli/internal/core/ports/driven"
	"github.com/custodia-labs/annotate-cli/internal/logger"
	"github.com/custodia-labs/annotate-cli/internal/palette"
)

// Ensure Renderer implements the interface.
var _ driven.Renderer = (*Renderer)(nil)

var (
	background   = color.RGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xff}
	fallbackTint = colorful.Color{R: 1, G: 1, B: 1}
	labelText    = color.White
)

const labelPadding = 2

// Renderer draws the image, mask and visible annotations of a workspace.
// The image is stretched to fill the destination; annotations follow.
type Renderer struct {
	face font.Face
}

// New creates a renderer that labels annotations with the built-in
// 7x13 bitmap font.
func New() *Renderer {
	return &Renderer{face: basicfont.Face7x13}
}

// Render paints state onto dst. It never modifies state.
func (r *Renderer) Render(dst xdraw.Image, state domain.WorkspaceState) error {
	if dst == nil {
		return fmt.Errorf("%w: nil destination", domain.ErrInvalidInput)
	}
	bounds := dst.Bounds()
	if bounds.Empty() {
		return fmt.Errorf("%w: empty destination", domain.ErrInvalidInput)
	}

	xdraw.Draw(dst, bounds, image.NewUniform(background), image.Point{}, xdraw.Src)
	if state.Image != nil {
		xdraw.ApproxBiLinear.Scale(dst, bounds, state.Image.Surface, state.Image.Surface.Bounds(), xdraw.Over, nil)
	}

	if state.Mask != nil {
		r.drawMask(dst, state.Mask, state.Display)
	}

	for i := range state.Files {
		file := &state.Files[i]
		if !file.Visible {
			continue
		}
		fileColor := resolveColor(file.Color, fallbackTint)
		for _, a := range file.Annotations {
			c := fileColor
			if state.Display.ColorMode == domain.ColorModeClass {
				c = resolveColor(state.ClassColors[a.Class], fileColor)
			}
			r.drawAnnotation(dst, a, c, state.Draw)
		}
	}
	return nil
}

// resolveColor parses s, falling back when it is empty or malformed.
func resolveColor(s string, fallback colorful.Color) colorful.Color {
	if s == "" {
		return fallback
	}
	c, err := palette.Parse(s)
	if err != nil {
		logger.Debug("Using fallback colour: %v", err)
		return fallback
	}
	return c
}

// drawMask scales the mask to dst and paints it according to the display
// settings. Level zero is background and never painted.
func (r *Renderer) drawMask(dst xdraw.Image, mask *domain.ImagePayload, display domain.DisplaySettings) {
	if display.MaskMode == domain.MaskModeHidden {
		return
	}

	bounds := dst.Bounds()
	levels := image.NewGray(bounds)
	xdraw.NearestNeighbor.Scale(levels, bounds, mask.Surface, mask.Surface.Bounds(), xdraw.Src, nil)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			level := levels.GrayAt(x, y).Y
			switch display.MaskMode {
			case domain.MaskModeOverlay:
				if level == 0 {
					continue
				}
				blend(dst, x, y, palette.Level(level), display.MaskOpacity)
			case domain.MaskModeOutline:
				if edge := edgeLevel(levels, x, y); edge != 0 {
					blend(dst, x, y, palette.Level(edge), 1)
				}
			}
		}
	}
}

// edgeLevel returns the non-zero level at (x, y) when a neighbour to the
// right or below belongs to a different region, and zero otherwise.
func edgeLevel(levels *image.Gray, x, y int) uint8 {
	here := levels.GrayAt(x, y).Y
	b := levels.Bounds()
	for _, p := range []image.Point{{x + 1, y}, {x, y + 1}} {
		if !p.In(b) {
			continue
		}
		there := levels.GrayAt(p.X, p.Y).Y
		if there == here {
			continue
		}
		if here != 0 {
			return here
		}
		return there
	}
	return 0
}

// blend mixes c into the pixel at (x, y) with opacity t.
func blend(dst xdraw.Image, x, y int, c colorful.Color, t float64) {
	base, ok := colorful.MakeColor(dst.At(x, y))
	if !ok {
		base = colorful.Color{}
	}
	dst.Set(x, y, base.BlendRgb(c, t).Clamped())
}

// drawAnnotation strokes one annotation and, when enabled, labels it.
func (r *Renderer) drawAnnotation(dst xdraw.Image, a domain.Annotation, c colorful.Color, settings domain.DrawSettings) {
	bounds := dst.Bounds()
	w, h := float64(bounds.Dx()), float64(bounds.Dy())
	toPx := func(ux, uy float64) (float32, float32) {
		return float32(ux * w), float32(uy * h)
	}

	var pts [][2]float32
	switch a.Kind {
	case domain.AnnotationBBox:
		minX, minY, maxX, maxY := a.Bounds()
		for _, p := range [][2]float64{{minX, minY}, {maxX, minY}, {maxX, maxY}, {minX, maxY}} {
			x, y := toPx(p[0], p[1])
			pts = append(pts, [2]float32{x, y})
		}
	case domain.AnnotationPolygon:
		for i := 0; i+1 < len(a.Points); i += 2 {
			x, y := toPx(a.Points[i], a.Points[i+1])
			pts = append(pts, [2]float32{x, y})
		}
	default:
		return
	}
	if len(pts) < 2 {
		return
	}

	stroke(dst, pts, float32(settings.LineWidth), c)

	if settings.ShowLabels && a.Class != "" {
		minX, minY, _, _ := a.Bounds()
		x, y := toPx(minX, minY)
		r.drawLabel(dst, a.Class, bounds.Min.X+int(x), bounds.Min.Y+int(y), c)
	}
}

// stroke draws the closed outline through pts with the given width.
// Each edge becomes a quad and each vertex a square. All of them wind the
// same way, otherwise overlaps would cancel out.
func stroke(dst xdraw.Image, pts [][2]float32, width float32, c colorful.Color) {
	bounds := dst.Bounds()
	z := vector.NewRasterizer(bounds.Dx(), bounds.Dy())
	half := max(width/2, 0.5)

	for i := range pts {
		p0, p1 := pts[i], pts[(i+1)%len(pts)]
		dx, dy := p1[0]-p0[0], p1[1]-p0[1]
		length := float32(math.Hypot(float64(dx), float64(dy)))
		if length > 0 {
			nx, ny := -dy/length*half, dx/length*half
			z.MoveTo(p0[0]+nx, p0[1]+ny)
			z.LineTo(p1[0]+nx, p1[1]+ny)
			z.LineTo(p1[0]-nx, p1[1]-ny)
			z.LineTo(p0[0]-nx, p0[1]-ny)
			z.ClosePath()
		}
		z.MoveTo(p0[0]-half, p0[1]-half)
		z.LineTo(p0[0]-half, p0[1]+half)
		z.LineTo(p0[0]+half, p0[1]+half)
		z.LineTo(p0[0]+half, p0[1]-half)
		z.ClosePath()
	}

	z.Draw(dst, bounds, image.NewUniform(c.Clamped()), image.Point{})
}

// drawLabel writes text on a filled tag whose bottom-left corner sits at
// (x, y), nudged inside dst when it would fall off an edge.
func (r *Renderer) drawLabel(dst xdraw.Image, text string, x, y int, c colorful.Color) {
	bounds := dst.Bounds()
	metrics := r.face.Metrics()
	textW := font.MeasureString(r.face, text).Ceil()
	textH := metrics.Height.Ceil()

	tag := image.Rect(x, y-textH-2*labelPadding, x+textW+2*labelPadding, y)
	if tag.Min.Y < bounds.Min.Y {
		tag = tag.Add(image.Pt(0, bounds.Min.Y-tag.Min.Y))
	}
	if tag.Max.X > bounds.Max.X {
		tag = tag.Add(image.Pt(bounds.Max.X-tag.Max.X, 0))
	}
	if tag.Min.X < bounds.Min.X {
		tag = tag.Add(image.Pt(bounds.Min.X-tag.Min.X, 0))
	}

	xdraw.Draw(dst, tag.Intersect(bounds), image.NewUniform(c.Clamped()), image.Point{}, xdraw.Src)

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(labelText),
		Face: r.face,
		Dot:  fixed.P(tag.Min.X+labelPadding, tag.Min.Y+labelPadding+metrics.Ascent.Ceil()),
	}
	d.DrawString(text)
}
