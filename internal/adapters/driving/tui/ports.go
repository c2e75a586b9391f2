// Package tui provides an interactive terminal user interface for browsing
// and editing a workspace's action history.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/annotate-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
type Ports struct {
	// Workspace is the workspace being browsed.
	Workspace driving.WorkspaceService

	// Loader reloads files that change on disk. Optional.
	Loader driving.LoaderService

	// Settings backs the settings panel. Optional.
	Settings driving.SettingsService
}

// NewPorts creates a new Ports aggregate around a workspace.
func NewPorts(workspace driving.WorkspaceService) *Ports {
	return &Ports{Workspace: workspace}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Workspace == nil {
		return ErrMissingWorkspaceService
	}
	return nil
}
