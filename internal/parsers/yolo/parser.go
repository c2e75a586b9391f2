// Package yolo parses YOLO-style bounding box files: one box per line as
// "class x_center y_center width height" in unit coordinates.
package yolo

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/custodia-labs/annotate-cli/internal/core/domain"
	"github.com/custodia-labs/annotate-cli/internal/core/ports/driven"
	"github.com/custodia-labs/annotate-cli/internal/logger"
)

// Ensure Parser implements the interface.
var _ driven.AnnotationParser = (*Parser)(nil)

const (
	// peekBytes and peekLines bound how much of a file Detect reads.
	peekBytes = 2048
	peekLines = 10

	maxLineSize = 1024 * 1024
)

var lineRe = regexp.MustCompile(`^\d+(?:\s+\d*\.?\d+){4,}$`)

// Parser handles YOLO text annotations.
type Parser struct{}

// New creates a new YOLO parser.
func New() *Parser {
	return &Parser{}
}

// Name returns the format name.
func (p *Parser) Name() string {
	return "yolo"
}

// SupportedMIMETypes returns the MIME types this parser handles.
func (p *Parser) SupportedMIMETypes() []string {
	return []string{"text/plain"}
}

// Detect peeks at the start of content and reports whether every
// non-empty line looks like a normalised YOLO box.
// The last peeked line is dropped when more than one was read, since the
// byte limit may have cut it short.
func (p *Parser) Detect(content []byte) bool {
	chunk := content
	if len(chunk) > peekBytes {
		chunk = chunk[:peekBytes]
	}

	var lines []string
	for _, line := range strings.Split(strings.ReplaceAll(string(chunk), "\r\n", "\n"), "\n") {
		if line == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) == peekLines {
			break
		}
	}
	if len(lines) == 0 {
		return false
	}
	if len(lines) > 1 {
		lines = lines[:len(lines)-1]
	}

	for _, line := range lines {
		if !looksLikeBox(strings.TrimSpace(line)) {
			return false
		}
	}
	return true
}

func looksLikeBox(line string) bool {
	if !lineRe.MatchString(line) {
		return false
	}
	fields := strings.Fields(line)
	for _, f := range fields[1:] {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil || !inUnitRange(v) {
			return false
		}
	}
	return true
}

// Parse reads one box per line. Blank lines and lines starting with '#'
// are ignored. Lines with fewer than five fields, non-numeric fields or
// coordinates outside [0,1] are skipped. Fields after the fifth are ignored.
// The image size is not needed: YOLO coordinates are already normalised.
func (p *Parser) Parse(ctx context.Context, content []byte, _, _ int) ([]domain.Annotation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	annotations := []domain.Annotation{}
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		ann, err := parseLine(line)
		if err != nil {
			logger.Warn("yolo: skipping line %d: %v", lineNo, err)
			continue
		}
		annotations = append(annotations, ann)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read yolo annotations: %w", err)
	}

	logger.Debug("yolo: parsed %d boxes from %d lines", len(annotations), lineNo)
	return annotations, nil
}

func parseLine(line string) (domain.Annotation, error) {
	fields := strings.Fields(line)
	if len(fields) < 5 {
		return domain.Annotation{}, fmt.Errorf("expected 5 fields, got %d", len(fields))
	}

	var values [5]float64
	for i := range values {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return domain.Annotation{}, fmt.Errorf("field %d: %q is not a number", i+1, fields[i])
		}
		values[i] = v
	}

	if math.IsNaN(values[0]) || math.IsInf(values[0], 0) {
		return domain.Annotation{}, fmt.Errorf("class %q is not finite", fields[0])
	}
	for _, v := range values[1:] {
		if !inUnitRange(v) {
			return domain.Annotation{}, fmt.Errorf("value %v outside [0,1]", v)
		}
	}

	class := strconv.FormatFloat(values[0], 'f', -1, 64)
	return domain.NewBBox(class, values[1], values[2], values[3], values[4]), nil
}

// inUnitRange is false for NaN.
func inUnitRange(v float64) bool {
	return v >= 0 && v <= 1
}
