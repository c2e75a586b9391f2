package driven

import (
	"context"

	"github.com/custodia-labs/annotate-cli/internal/core/domain"
)

// ImageDecoder turns raw file bytes into an image payload.
type ImageDecoder interface {
	// Decode decodes data. The name is only a hint for formats that
	// cannot be sniffed from content. Errors wrap domain.ErrDecode.
	Decode(ctx context.Context, name string, data []byte) (*domain.DecodedImage, error)

	// SupportedMIMETypes lists the image types the decoder accepts.
	SupportedMIMETypes() []string
}
