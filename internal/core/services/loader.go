package services

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/custodia-labs/annotate-cli/internal/core/domain"
	"github.com/custodia-labs/annotate-cli/internal/core/ports/driven"
	"github.com/custodia-labs/annotate-cli/internal/core/ports/driving"
	"github.com/custodia-labs/annotate-cli/internal/logger"
)

// Ensure LoaderService implements the interface.
var _ driving.LoaderService = (*LoaderService)(nil)

// yoloFormat names the format whose files are coloured after their first class.
const yoloFormat = "yolo"

var extMIMETypes = map[string]string{
	".txt": "text/plain", ".geojson": "application/geo+json", ".json": "application/json",
	".png": "image/png", ".jpg": "image/jpeg", ".jpeg": "image/jpeg", ".gif": "image/gif",
	".bmp": "image/bmp", ".webp": "image/webp", ".tif": "image/tiff", ".tiff": "image/tiff",
}

// LoaderService routes files to the image decoder or an annotation parser
// and applies the result to the workspace.
//
// Annotation files need a loaded image: their coordinates are normalised
// against its size.
type LoaderService struct {
	workspace driving.WorkspaceService
	decoder   driven.ImageDecoder
	parsers   driven.ParserRegistry
}

// NewLoaderService creates a loader feeding workspace.
func NewLoaderService(
	workspace driving.WorkspaceService,
	decoder driven.ImageDecoder,
	parsers driven.ParserRegistry,
) *LoaderService {
	return &LoaderService{
		workspace: workspace,
		decoder:   decoder,
		parsers:   parsers,
	}
}

// LoadPath reads a file from disk and loads it under its base name.
func (l *LoaderService) LoadPath(ctx context.Context, path string, replace bool) (*driving.LoadResult, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return l.Load(ctx, driving.LoadRequest{
		Name:    filepath.Base(path),
		Content: content,
		Replace: replace,
	})
}

// Load decodes or parses one file and applies it to the workspace.
func (l *LoaderService) Load(ctx context.Context, req driving.LoadRequest) (*driving.LoadResult, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: file name is required", domain.ErrInvalidInput)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mimeType := req.MIMEType
	if mimeType == "" {
		mimeType = detectMIMEType(req.Name)
	}
	if mt, _, err := mime.ParseMediaType(mimeType); err == nil {
		mimeType = mt
	}

	logger.Section("Load " + req.Name)
	logger.Debug("MIME type: %s, %d bytes", mimeType, len(req.Content))

	if strings.HasPrefix(mimeType, "image/") {
		return l.loadImage(ctx, req, mimeType)
	}

	parser, ok := l.parsers.Get(mimeType)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedType, mimeType)
	}
	return l.loadAnnotations(ctx, req, parser)
}

func (l *LoaderService) loadImage(ctx context.Context, req driving.LoadRequest, mimeType string) (*driving.LoadResult, error) {
	if !slices.Contains(l.decoder.SupportedMIMETypes(), mimeType) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedType, mimeType)
	}

	decoded, err := l.decoder.Decode(ctx, req.Name, req.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to load image %s: %w", req.Name, err)
	}

	// A grayscale image matching the current image's size is its mask.
	current := l.workspace.State().Image
	if decoded.IsGrayscale && current.SameSize(decoded.Payload) {
		logger.Info("Loading %s as mask", req.Name)
		l.workspace.SetMask(decoded.Payload)
		return &driving.LoadResult{Name: req.Name, Kind: driving.LoadedMask, Format: decoded.Format}, nil
	}

	logger.Info("Loading %s as image (grayscale=%t)", req.Name, decoded.IsGrayscale)
	l.workspace.SetImage(decoded.Payload, req.Name)
	return &driving.LoadResult{Name: req.Name, Kind: driving.LoadedImage, Format: decoded.Format}, nil
}

func (l *LoaderService) loadAnnotations(
	ctx context.Context,
	req driving.LoadRequest,
	parser driven.AnnotationParser,
) (*driving.LoadResult, error) {
	if !parser.Detect(req.Content) {
		return nil, fmt.Errorf("%w: %s is not recognised as %s annotations", domain.ErrNotAnnotation, req.Name, parser.Name())
	}

	state := l.workspace.State()
	if !state.HasImage() {
		return nil, domain.ErrNoImage
	}
	if state.FileIndex(req.Name) >= 0 && !req.Replace {
		return nil, fmt.Errorf("%w: annotation file %q", domain.ErrAlreadyExists, req.Name)
	}

	annotations, err := parser.Parse(ctx, req.Content, state.Image.Width, state.Image.Height)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", req.Name, err)
	}
	for i := range annotations {
		annotations[i].SourceFile = req.Name
	}

	if req.Replace {
		l.workspace.RemoveAnnotationFile(req.Name)
	}
	l.workspace.AddAnnotationFile(domain.AnnotationFile{
		Name:        req.Name,
		Annotations: annotations,
		Visible:     true,
		Color:       fileColor(parser.Name(), req.Name, annotations),
	})

	logger.Info("Loaded %d %s annotations from %s", len(annotations), parser.Name(), req.Name)
	return &driving.LoadResult{
		Name:   req.Name,
		Kind:   driving.LoadedAnnotations,
		Format: parser.Name(),
		Count:  len(annotations),
	}, nil
}

// fileColor picks the display colour of a new annotation file.
// YOLO files take the colour of their first class; other files are
// coloured after their name.
func fileColor(format, name string, annotations []domain.Annotation) string {
	if format == yoloFormat && len(annotations) > 0 {
		return ClassColor(annotations[0].Class)
	}
	return ClassColor(name)
}

// detectMIMEType determines the MIME type from the file extension.
func detectMIMEType(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return "application/octet-stream"
	}

	if t, ok := extMIMETypes[ext]; ok {
		return t
	}

	if mimeType := mime.TypeByExtension(ext); mimeType != "" {
		if idx := strings.Index(mimeType, ";"); idx != -1 {
			mimeType = strings.TrimSpace(mimeType[:idx])
		}
		return mimeType
	}

	return "application/octet-stream"
}
