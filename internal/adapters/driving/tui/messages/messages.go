// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/annotate-cli/internal/core/domain"
)

// Panel identifies which panel has keyboard focus.
type Panel int

const (
	// PanelHistory is the action history list.
	PanelHistory Panel = iota
	// PanelFiles is the annotation file list.
	PanelFiles
	// PanelSettings is the settings editor.
	PanelSettings
	// PanelHelp is the keybinding overlay.
	PanelHelp
)

// String returns the string representation of the panel.
func (p Panel) String() string {
	switch p {
	case PanelHistory:
		return "history"
	case PanelFiles:
		return "files"
	case PanelSettings:
		return "settings"
	case PanelHelp:
		return "help"
	default:
		return "unknown"
	}
}

// PanelChanged is sent when focus moves to another panel.
type PanelChanged struct {
	Panel Panel
}

// FileChanged carries a change observed on a watched file.
type FileChanged struct {
	Change domain.FileChange
}

// FileRead carries the new content of a changed file.
type FileRead struct {
	Path    string
	Content []byte
	Err     error
}

// WatchStopped is sent when the change stream closes.
type WatchStopped struct{}

// SettingSaved signals a settings key was written.
type SettingSaved struct {
	Key   string
	Value string
	Err   error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}
