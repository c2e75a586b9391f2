package services

import (
	"sync"

	"github.com/custodia-labs/annotate-cli/internal/core/ports/driven"
)

// Ensure ParserRegistry implements the interface.
var _ driven.ParserRegistry = (*ParserRegistry)(nil)

// ParserRegistry maps MIME types to annotation parsers.
// When two parsers claim the same MIME type the first registered wins.
type ParserRegistry struct {
	mu      sync.RWMutex
	byMIME  map[string]driven.AnnotationParser
	parsers []driven.AnnotationParser
}

// NewParserRegistry creates a registry holding the given parsers.
func NewParserRegistry(parsers ...driven.AnnotationParser) *ParserRegistry {
	r := &ParserRegistry{byMIME: make(map[string]driven.AnnotationParser)}
	for _, p := range parsers {
		r.Register(p)
	}
	return r
}

// Register adds a parser for each of its MIME types.
func (r *ParserRegistry) Register(parser driven.AnnotationParser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.parsers = append(r.parsers, parser)
	for _, mt := range parser.SupportedMIMETypes() {
		if _, taken := r.byMIME[mt]; !taken {
			r.byMIME[mt] = parser
		}
	}
}

// Get returns the parser registered for a MIME type.
func (r *ParserRegistry) Get(mimeType string) (driven.AnnotationParser, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byMIME[mimeType]
	return p, ok
}

// List returns the registered parsers in registration order.
func (r *ParserRegistry) List() []driven.AnnotationParser {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]driven.AnnotationParser(nil), r.parsers...)
}
