// Package geojson parses polygon annotations from GeoJSON documents.
//
// Polygon exterior rings and the exterior ring of every MultiPolygon member
// become one polygon annotation each. Interior rings and other geometry
// types are ignored.
package geojson

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/custodia-labs/annotate-cli/internal/core/domain"
	"github.com/custodia-labs/annotate-cli/internal/core/ports/driven"
	"github.com/custodia-labs/annotate-cli/internal/logger"
)

// Ensure Parser implements the interface.
var _ driven.AnnotationParser = (*Parser)(nil)

// pixelSpan is the smallest ring extent, in both directions, treated as
// pixel coordinates.
const pixelSpan = 10

// classKeys are the property names consulted for a class label, in order.
var classKeys = []string{"class", "name", "label"}

// Parser handles GeoJSON polygon annotations.
type Parser struct{}

// New creates a new GeoJSON parser.
func New() *Parser {
	return &Parser{}
}

// Name returns the format name.
func (p *Parser) Name() string {
	return "geojson"
}

// SupportedMIMETypes returns the MIME types this parser handles.
func (p *Parser) SupportedMIMETypes() []string {
	return []string{"application/geo+json", "application/json"}
}

type document struct {
	Type       string         `json:"type"`
	Features   []feature      `json:"features"`
	Geometry   *geometry      `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

type feature struct {
	Type       string         `json:"type"`
	Geometry   *geometry      `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

type geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// Detect reports whether content is a GeoJSON Feature or FeatureCollection.
func (p *Parser) Detect(content []byte) bool {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(content, &head); err != nil {
		return false
	}
	return head.Type == "FeatureCollection" || head.Type == "Feature"
}

// Parse extracts polygons and normalises their coordinates against the
// image size. Features with unreadable geometry are skipped.
func (p *Parser) Parse(ctx context.Context, content []byte, width, height int) ([]domain.Annotation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var doc document
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("%w: geojson: %v", domain.ErrDecode, err)
	}

	var features []feature
	switch doc.Type {
	case "FeatureCollection":
		features = doc.Features
	case "Feature":
		features = []feature{{Type: doc.Type, Geometry: doc.Geometry, Properties: doc.Properties}}
	default:
		logger.Warn("geojson: unsupported top-level type %q", doc.Type)
	}

	annotations := []domain.Annotation{}
	for i := range features {
		f := &features[i]
		if f.Geometry == nil {
			continue
		}
		rings, err := exteriorRings(f.Geometry)
		if err != nil {
			logger.Warn("geojson: skipping feature %d: %v", i, err)
			continue
		}
		class := classOf(f.Properties)
		for _, ring := range rings {
			points := normalise(ring, width, height)
			if len(points) < 6 {
				logger.Warn("geojson: skipping feature %d: ring has fewer than three points", i)
				continue
			}
			annotations = append(annotations, domain.NewPolygon(class, points, f.Properties))
		}
	}

	logger.Debug("geojson: parsed %d polygons from %d features", len(annotations), len(features))
	return annotations, nil
}

// exteriorRings returns the exterior ring of each polygon in the geometry.
func exteriorRings(g *geometry) ([][][]float64, error) {
	switch g.Type {
	case "Polygon":
		var coords [][][]float64
		if err := json.Unmarshal(g.Coordinates, &coords); err != nil {
			return nil, fmt.Errorf("polygon coordinates: %w", err)
		}
		if len(coords) == 0 {
			return nil, nil
		}
		return [][][]float64{coords[0]}, nil

	case "MultiPolygon":
		var coords [][][][]float64
		if err := json.Unmarshal(g.Coordinates, &coords); err != nil {
			return nil, fmt.Errorf("multipolygon coordinates: %w", err)
		}
		rings := make([][][]float64, 0, len(coords))
		for _, polygon := range coords {
			if len(polygon) > 0 {
				rings = append(rings, polygon[0])
			}
		}
		return rings, nil

	default:
		return nil, nil
	}
}

// classOf returns the first usable class label from the properties.
func classOf(props map[string]any) string {
	for _, key := range classKeys {
		switch v := props[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

// normalise maps a ring onto unit coordinates.
//
// A ring entirely inside [0,1] is kept as is. A ring spanning more than
// pixelSpan in both directions is divided by the image size. Anything else
// is stretched over its own bounding box. Results are clamped to [0,1].
func normalise(ring [][]float64, width, height int) []float64 {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	n := 0
	for _, c := range ring {
		if len(c) < 2 {
			continue
		}
		minX, maxX = min(minX, c[0]), max(maxX, c[0])
		minY, maxY = min(minY, c[1]), max(maxY, c[1])
		n++
	}
	if n == 0 {
		return nil
	}

	spanX, spanY := maxX-minX, maxY-minY
	unit := minX >= 0 && minY >= 0 && maxX <= 1 && maxY <= 1
	pixel := spanX > pixelSpan && spanY > pixelSpan && width > 0 && height > 0

	points := make([]float64, 0, 2*n)
	for _, c := range ring {
		if len(c) < 2 {
			continue
		}
		x, y := c[0], c[1]
		switch {
		case unit:
		case pixel:
			x, y = x/float64(width), y/float64(height)
		default:
			x, y = fit(x, minX, spanX), fit(y, minY, spanY)
		}
		points = append(points, clamp01(x), clamp01(y))
	}
	return points
}

func fit(v, lo, span float64) float64 {
	if span == 0 {
		return 0
	}
	return (v - lo) / span
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
