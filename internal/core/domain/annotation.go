package domain

import (
	"fmt"
	"sort"
)

// AnnotationKind discriminates the Annotation union.
type AnnotationKind string

const (
	// AnnotationBBox is an axis-aligned box given by centre and size.
	AnnotationBBox AnnotationKind = "bbox"

	// AnnotationPolygon is a closed ring of points.
	AnnotationPolygon AnnotationKind = "polygon"
)

// IsValid returns true if the kind is recognised.
func (k AnnotationKind) IsValid() bool {
	return k == AnnotationBBox || k == AnnotationPolygon
}

// Annotation is a single labelled region on the image.
// All coordinates are normalised to [0,1] relative to the image size.
type Annotation struct {
	// Kind selects which of the fields below are meaningful.
	Kind AnnotationKind

	// Class is the class label. Required for boxes, optional for polygons.
	Class string

	// X and Y are the box centre; W and H its size. Boxes only.
	X, Y, W, H float64

	// Points is a flat x,y sequence. Polygons only.
	Points []float64

	// Properties is an arbitrary property bag carried from the source. Polygons only.
	Properties map[string]any

	// SourceFile names the file the annotation was parsed from.
	SourceFile string
}

// NewBBox creates a bounding-box annotation.
func NewBBox(class string, x, y, w, h float64) Annotation {
	return Annotation{Kind: AnnotationBBox, Class: class, X: x, Y: y, W: w, H: h}
}

// NewPolygon creates a polygon annotation from a flat point sequence.
func NewPolygon(class string, points []float64, properties map[string]any) Annotation {
	return Annotation{
		Kind:       AnnotationPolygon,
		Class:      class,
		Points:     append([]float64(nil), points...),
		Properties: cloneProperties(properties),
	}
}

// Clone returns a structural copy sharing no slices or maps with a.
func (a Annotation) Clone() Annotation {
	c := a
	if a.Points != nil {
		c.Points = append([]float64(nil), a.Points...)
	}
	c.Properties = cloneProperties(a.Properties)
	return c
}

// Validate reports whether the annotation is well formed.
func (a Annotation) Validate() error {
	switch a.Kind {
	case AnnotationBBox:
		for _, v := range []float64{a.X, a.Y, a.W, a.H} {
			if !inUnitRange(v) {
				return fmt.Errorf("%w: bbox value %v outside [0,1]", ErrInvalidInput, v)
			}
		}
	case AnnotationPolygon:
		if len(a.Points)%2 != 0 {
			return fmt.Errorf("%w: polygon has odd number of coordinates", ErrInvalidInput)
		}
		if len(a.Points) < 6 {
			return fmt.Errorf("%w: polygon needs at least three points", ErrInvalidInput)
		}
		for _, v := range a.Points {
			if !inUnitRange(v) {
				return fmt.Errorf("%w: polygon coordinate %v outside [0,1]", ErrInvalidInput, v)
			}
		}
	default:
		return fmt.Errorf("%w: unknown annotation kind %q", ErrInvalidInput, a.Kind)
	}
	return nil
}

// Bounds returns the unit-space bounding box (minX, minY, maxX, maxY).
func (a Annotation) Bounds() (minX, minY, maxX, maxY float64) {
	if a.Kind == AnnotationBBox {
		return a.X - a.W/2, a.Y - a.H/2, a.X + a.W/2, a.Y + a.H/2
	}
	if len(a.Points) < 2 {
		return 0, 0, 0, 0
	}
	minX, minY = a.Points[0], a.Points[1]
	maxX, maxY = minX, minY
	for i := 2; i+1 < len(a.Points); i += 2 {
		x, y := a.Points[i], a.Points[i+1]
		minX, maxX = min(minX, x), max(maxX, x)
		minY, maxY = min(minY, y), max(maxY, y)
	}
	return minX, minY, maxX, maxY
}

// AnnotationFile is a named group of annotations that share visibility and colour.
// Name is the lookup key within a workspace.
type AnnotationFile struct {
	Name        string
	Annotations []Annotation
	Visible     bool
	Color       string
}

// Clone returns a deep copy of the file and all of its annotations.
func (f AnnotationFile) Clone() AnnotationFile {
	c := f
	if f.Annotations != nil {
		c.Annotations = make([]Annotation, len(f.Annotations))
		for i := range f.Annotations {
			c.Annotations[i] = f.Annotations[i].Clone()
		}
	}
	return c
}

// Classes returns the distinct non-empty class labels in the file, sorted.
func (f AnnotationFile) Classes() []string {
	seen := make(map[string]struct{})
	for i := range f.Annotations {
		if c := f.Annotations[i].Class; c != "" {
			seen[c] = struct{}{}
		}
	}
	classes := make([]string, 0, len(seen))
	for c := range seen {
		classes = append(classes, c)
	}
	sort.Strings(classes)
	return classes
}

func inUnitRange(v float64) bool {
	return v >= 0 && v <= 1
}

// cloneProperties deep-copies the nested maps and slices a JSON decoder produces.
func cloneProperties(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = cloneValue(v)
	}
	return dst
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneProperties(t)
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = cloneValue(t[i])
		}
		return out
	case []float64:
		return append([]float64(nil), t...)
	default:
		return v
	}
}
