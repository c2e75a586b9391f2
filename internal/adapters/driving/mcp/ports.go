package mcp

import (
	"github.com/custodia-labs/annotate-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
type Ports struct {
	// Workspace holds the state and history being served.
	Workspace driving.WorkspaceService

	// Loader adds files to the workspace. Optional: without it the
	// load_file tool is not offered.
	Loader driving.LoaderService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Workspace == nil {
		return ErrMissingWorkspaceService
	}
	return nil
}
