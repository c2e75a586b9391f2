package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors(t *testing.T) {
	assert.EqualError(t, ErrMissingWorkspaceService, "tui: workspace service is required")
}
