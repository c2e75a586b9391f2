package domain

import "errors"

// Domain errors represent failures reported by collaborators around the core.
// The workspace mutation API itself never returns errors; it reports no-ops.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates a file type no loader can handle.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrNoImage indicates annotations were loaded before any image.
	ErrNoImage = errors.New("add an image first to view the labels")

	// ErrDecode indicates image bytes could not be decoded.
	ErrDecode = errors.New("failed to decode image")

	// ErrNotAnnotation indicates a text file is not in a recognised annotation format.
	ErrNotAnnotation = errors.New("not recognised as annotations")

	// ErrMalformedAction indicates a history entry cannot be replayed.
	ErrMalformedAction = errors.New("malformed action")
)
