package geojson

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/annotate-cli/internal/core/domain"
)

func parse(t *testing.T, content string, w, h int) []domain.Annotation {
	t.Helper()
	anns, err := New().Parse(context.Background(), []byte(content), w, h)
	require.NoError(t, err)
	return anns
}

func TestNew(t *testing.T) {
	p := New()
	require.NotNil(t, p)
	assert.Equal(t, "geojson", p.Name())
	assert.Contains(t, p.SupportedMIMETypes(), "application/geo+json")
	assert.Contains(t, p.SupportedMIMETypes(), "application/json")
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected bool
	}{
		{"feature collection", `{"type":"FeatureCollection","features":[]}`, true},
		{"feature", `{"type":"Feature","geometry":null}`, true},
		{"bare geometry", `{"type":"Polygon","coordinates":[]}`, false},
		{"other json", `{"name":"x"}`, false},
		{"array", `[1,2,3]`, false},
		{"not json", `0 0.5 0.5 0.1 0.1`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, New().Detect([]byte(tt.content)))
		})
	}
}

func TestParse_UnitPolygon(t *testing.T) {
	anns := parse(t, `{
		"type": "FeatureCollection",
		"features": [{
			"type": "Feature",
			"properties": {"class": "roof", "score": 0.9},
			"geometry": {"type": "Polygon", "coordinates": [[[0.1,0.1],[0.5,0.1],[0.5,0.5],[0.1,0.1]]]}
		}]
	}`, 100, 100)

	require.Len(t, anns, 1)
	a := anns[0]
	assert.Equal(t, domain.AnnotationPolygon, a.Kind)
	assert.Equal(t, "roof", a.Class)
	assert.Equal(t, []float64{0.1, 0.1, 0.5, 0.1, 0.5, 0.5, 0.1, 0.1}, a.Points)
	assert.Equal(t, 0.9, a.Properties["score"])
	assert.NoError(t, a.Validate())
}

func TestParse_PixelPolygon(t *testing.T) {
	anns := parse(t, `{
		"type": "Feature",
		"properties": {"name": "field"},
		"geometry": {"type": "Polygon", "coordinates": [[[20,40],[220,40],[220,240],[20,40]]]}
	}`, 400, 800)

	require.Len(t, anns, 1)
	assert.Equal(t, "field", anns[0].Class)
	assert.InDeltaSlice(t, []float64{0.05, 0.05, 0.55, 0.05, 0.55, 0.3, 0.05, 0.05}, anns[0].Points, 1e-9)
}

func TestParse_FitsSmallForeignRing(t *testing.T) {
	// lon/lat-like coordinates span less than the pixel threshold
	anns := parse(t, `{
		"type": "Feature",
		"properties": {"label": "lake"},
		"geometry": {"type": "Polygon", "coordinates": [[[10,50],[12,50],[12,54],[10,50]]]}
	}`, 640, 480)

	require.Len(t, anns, 1)
	assert.Equal(t, "lake", anns[0].Class)
	assert.InDeltaSlice(t, []float64{0, 0, 1, 0, 1, 1, 0, 0}, anns[0].Points, 1e-9)
}

func TestParse_PixelRingClampedToImage(t *testing.T) {
	anns := parse(t, `{
		"type": "Feature",
		"geometry": {"type": "Polygon", "coordinates": [[[0,0],[200,0],[200,200],[0,0]]]}
	}`, 100, 100)

	require.Len(t, anns, 1)
	for _, v := range anns[0].Points {
		assert.LessOrEqual(t, v, 1.0)
	}
	assert.NoError(t, anns[0].Validate())
}

func TestParse_MultiPolygon(t *testing.T) {
	anns := parse(t, `{
		"type": "FeatureCollection",
		"features": [{
			"type": "Feature",
			"properties": {"class": "island"},
			"geometry": {"type": "MultiPolygon", "coordinates": [
				[[[0.1,0.1],[0.2,0.1],[0.2,0.2],[0.1,0.1]], [[0.15,0.15],[0.16,0.15],[0.16,0.16]]],
				[[[0.6,0.6],[0.7,0.6],[0.7,0.7],[0.6,0.6]]]
			]}
		}]
	}`, 100, 100)

	require.Len(t, anns, 2)
	assert.Equal(t, "island", anns[0].Class)
	assert.Equal(t, "island", anns[1].Class)
	assert.InDelta(t, 0.6, anns[1].Points[0], 1e-9)
}

func TestParse_ClassPrecedenceAndTypes(t *testing.T) {
	tests := []struct {
		name     string
		props    string
		expected string
	}{
		{"class wins", `{"class":"a","name":"b","label":"c"}`, "a"},
		{"empty class falls through", `{"class":"","name":"b"}`, "b"},
		{"label last", `{"label":"c"}`, "c"},
		{"numeric class", `{"class":3}`, "3"},
		{"none", `{}`, ""},
		{"null properties", `null`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			anns := parse(t, `{"type":"Feature","properties":`+tt.props+`,
				"geometry":{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1]]]}}`, 10, 10)
			require.Len(t, anns, 1)
			assert.Equal(t, tt.expected, anns[0].Class)
		})
	}
}

func TestParse_SkipsUnusableFeatures(t *testing.T) {
	anns := parse(t, `{
		"type": "FeatureCollection",
		"features": [
			{"type": "Feature", "geometry": null},
			{"type": "Feature", "geometry": {"type": "Point", "coordinates": [0.5, 0.5]}},
			{"type": "Feature", "geometry": {"type": "Polygon", "coordinates": "bad"}},
			{"type": "Feature", "geometry": {"type": "Polygon", "coordinates": [[[0.1,0.1],[0.2,0.2]]]}},
			{"type": "Feature", "geometry": {"type": "Polygon", "coordinates": []}},
			{"type": "Feature", "geometry": {"type": "Polygon", "coordinates": [[[0,0],[1,0],[1,1]]]}}
		]
	}`, 10, 10)

	assert.Len(t, anns, 1)
}

func TestParse_UnknownTopLevelType(t *testing.T) {
	anns := parse(t, `{"type":"GeometryCollection","geometries":[]}`, 10, 10)
	assert.NotNil(t, anns)
	assert.Empty(t, anns)
}

func TestParse_InvalidJSON(t *testing.T) {
	_, err := New().Parse(context.Background(), []byte(`{"type":`), 10, 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDecode)
}

func TestParse_PropertiesAreCopied(t *testing.T) {
	anns := parse(t, `{"type":"FeatureCollection","features":[
		{"type":"Feature","properties":{"class":"a"},"geometry":{"type":"MultiPolygon","coordinates":[
			[[[0,0],[1,0],[1,1]]], [[[0,0],[0.5,0],[0.5,0.5]]]
		]}}
	]}`, 10, 10)

	require.Len(t, anns, 2)
	anns[0].Properties["class"] = "changed"
	assert.Equal(t, "a", anns[1].Properties["class"])
}
