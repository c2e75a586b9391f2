// Package mcp provides an MCP (Model Context Protocol) server adapter for annotate.
// It lets AI assistants inspect an annotation workspace and walk its history.
package mcp

import "errors"

// ErrMissingWorkspaceService is returned when the workspace service is not provided.
var ErrMissingWorkspaceService = errors.New("mcp: workspace service is required")
