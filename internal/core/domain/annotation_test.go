package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnnotationKind_IsValid(t *testing.T) {
	assert.True(t, AnnotationBBox.IsValid())
	assert.True(t, AnnotationPolygon.IsValid())
	assert.False(t, AnnotationKind("circle").IsValid())
	assert.False(t, AnnotationKind("").IsValid())
}

func TestNewPolygon_CopiesInput(t *testing.T) {
	points := []float64{0.1, 0.1, 0.5, 0.1, 0.5, 0.5}
	props := map[string]any{"name": "roof"}

	a := NewPolygon("roof", points, props)
	points[0] = 0.9
	props["name"] = "wall"

	assert.InDelta(t, 0.1, a.Points[0], 0.0001)
	assert.Equal(t, "roof", a.Properties["name"])
}

func TestAnnotation_Clone(t *testing.T) {
	a := NewPolygon("roof", []float64{0.1, 0.1, 0.5, 0.1, 0.5, 0.5}, map[string]any{
		"tags": []any{"a", "b"},
		"meta": map[string]any{"score": 0.9},
	})

	c := a.Clone()
	c.Points[0] = 0.7
	c.Properties["tags"].([]any)[0] = "z"
	c.Properties["meta"].(map[string]any)["score"] = 0.1

	assert.InDelta(t, 0.1, a.Points[0], 0.0001)
	assert.Equal(t, "a", a.Properties["tags"].([]any)[0])
	assert.Equal(t, 0.9, a.Properties["meta"].(map[string]any)["score"])
}

func TestAnnotation_Validate(t *testing.T) {
	tests := []struct {
		name    string
		ann     Annotation
		wantErr bool
	}{
		{name: "valid bbox", ann: NewBBox("0", 0.5, 0.5, 0.2, 0.2)},
		{name: "bbox out of range", ann: NewBBox("0", 1.5, 0.5, 0.2, 0.2), wantErr: true},
		{name: "valid polygon", ann: NewPolygon("", []float64{0, 0, 1, 0, 1, 1}, nil)},
		{name: "odd polygon", ann: NewPolygon("", []float64{0, 0, 1, 0, 1}, nil), wantErr: true},
		{name: "two-point polygon", ann: NewPolygon("", []float64{0, 0, 1, 1}, nil), wantErr: true},
		{name: "polygon out of range", ann: NewPolygon("", []float64{0, 0, 2, 0, 1, 1}, nil), wantErr: true},
		{name: "unknown kind", ann: Annotation{Kind: "circle"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ann.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAnnotation_Bounds(t *testing.T) {
	t.Run("bbox", func(t *testing.T) {
		minX, minY, maxX, maxY := NewBBox("0", 0.5, 0.5, 0.2, 0.4).Bounds()
		assert.InDelta(t, 0.4, minX, 0.0001)
		assert.InDelta(t, 0.3, minY, 0.0001)
		assert.InDelta(t, 0.6, maxX, 0.0001)
		assert.InDelta(t, 0.7, maxY, 0.0001)
	})

	t.Run("polygon", func(t *testing.T) {
		minX, minY, maxX, maxY := NewPolygon("", []float64{0.2, 0.8, 0.6, 0.1, 0.4, 0.5}, nil).Bounds()
		assert.InDelta(t, 0.2, minX, 0.0001)
		assert.InDelta(t, 0.1, minY, 0.0001)
		assert.InDelta(t, 0.6, maxX, 0.0001)
		assert.InDelta(t, 0.8, maxY, 0.0001)
	})

	t.Run("empty polygon", func(t *testing.T) {
		minX, minY, maxX, maxY := Annotation{Kind: AnnotationPolygon}.Bounds()
		assert.Zero(t, minX+minY+maxX+maxY)
	})
}

func TestAnnotationFile_CloneAndClasses(t *testing.T) {
	f := AnnotationFile{
		Name:    "a.txt",
		Visible: true,
		Color:   "hsl(10, 70%, 50%)",
		Annotations: []Annotation{
			NewBBox("dog", 0.5, 0.5, 0.1, 0.1),
			NewBBox("cat", 0.2, 0.2, 0.1, 0.1),
			NewBBox("dog", 0.3, 0.3, 0.1, 0.1),
			NewPolygon("", []float64{0, 0, 1, 0, 1, 1}, nil),
		},
	}

	assert.Equal(t, []string{"cat", "dog"}, f.Classes())

	c := f.Clone()
	c.Annotations[0].Class = "bird"
	assert.Equal(t, "dog", f.Annotations[0].Class)
}
