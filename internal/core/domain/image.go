package domain

import "image"

// ImagePayload is a decoded image or mask.
// A payload is never modified after construction; the workspace replaces
// payloads wholesale, so a payload may be referenced by both the action log
// and the live state without either observing changes made by the other.
type ImagePayload struct {
	Width   int
	Height  int
	Surface image.Image
}

// NewImagePayload wraps a decoded surface.
func NewImagePayload(img image.Image) *ImagePayload {
	if img == nil {
		return nil
	}
	b := img.Bounds()
	return &ImagePayload{Width: b.Dx(), Height: b.Dy(), Surface: img}
}

// SameSize reports whether both payloads have identical dimensions.
func (p *ImagePayload) SameSize(other *ImagePayload) bool {
	if p == nil || other == nil {
		return false
	}
	return p.Width == other.Width && p.Height == other.Height
}

// DecodedImage is what an image decoder hands back to its caller.
type DecodedImage struct {
	Payload *ImagePayload

	// IsGrayscale is true when every sampled pixel has near-equal channels.
	// Callers use it to decide whether the image is a mask.
	IsGrayscale bool

	// Format is the codec name reported by the decoder (png, jpeg, tiff, ...).
	Format string
}
