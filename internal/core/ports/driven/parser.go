package driven

import (
	"context"

	"github.com/custodia-labs/annotate-cli/internal/core/domain"
)

// AnnotationParser turns annotation file content into normalised annotations.
type AnnotationParser interface {
	// Name identifies the format ("yolo", "geojson").
	Name() string

	// SupportedMIMETypes returns the MIME types this parser handles.
	SupportedMIMETypes() []string

	// Detect reports whether content looks like this format.
	Detect(content []byte) bool

	// Parse converts content into annotations with unit coordinates.
	// Width and height describe the image the annotations belong to and
	// are used to normalise pixel-space input.
	// Malformed records are skipped; an error is returned only when the
	// content as a whole cannot be read.
	Parse(ctx context.Context, content []byte, width, height int) ([]domain.Annotation, error)
}

// ParserRegistry selects a parser by MIME type.
type ParserRegistry interface {
	// Register adds a parser for each of its MIME types.
	Register(parser AnnotationParser)

	// Get returns the parser for a MIME type.
	Get(mimeType string) (AnnotationParser, bool)

	// List returns every registered parser.
	List() []AnnotationParser
}
