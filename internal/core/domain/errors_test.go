package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrAlreadyExists", ErrAlreadyExists},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrUnsupportedType", ErrUnsupportedType},
		{"ErrNoImage", ErrNoImage},
		{"ErrDecode", ErrDecode},
		{"ErrNotAnnotation", ErrNotAnnotation},
		{"ErrMalformedAction", ErrMalformedAction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrNoImage_Message(t *testing.T) {
	assert.Equal(t, "add an image first to view the labels", ErrNoImage.Error())
}

func TestErrors_Wrapping(t *testing.T) {
	wrapped := fmt.Errorf("loading labels.txt: %w", ErrNotAnnotation)

	assert.True(t, errors.Is(wrapped, ErrNotAnnotation))
	assert.False(t, errors.Is(wrapped, ErrNoImage))
	assert.Contains(t, wrapped.Error(), "labels.txt")
}
