package driving

import "context"

// LoadRequest is a file handed to the loader.
type LoadRequest struct {
	// Name is the file name. Its extension is used when MIMEType is empty.
	Name string

	// MIMEType overrides detection from the name.
	MIMEType string

	// Content is the raw file content.
	Content []byte

	// Replace swaps out an already loaded annotation file of the same name.
	Replace bool
}

// LoadKind says what a loaded file became.
type LoadKind string

// Load outcomes.
const (
	LoadedImage       LoadKind = "image"
	LoadedMask        LoadKind = "mask"
	LoadedAnnotations LoadKind = "annotations"
)

// LoadResult describes a successful load.
type LoadResult struct {
	Name   string
	Kind   LoadKind
	Format string

	// Count is the number of annotations loaded. Zero for images.
	Count int
}

// LoaderService routes files to decoders and parsers and applies the result
// to the workspace.
type LoaderService interface {
	// Load decodes or parses one file and applies it to the workspace.
	Load(ctx context.Context, req LoadRequest) (*LoadResult, error)

	// LoadPath reads a file from disk and loads it.
	LoadPath(ctx context.Context, path string, replace bool) (*LoadResult, error)
}
