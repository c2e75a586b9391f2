package services

import (
	"time"

	"github.com/custodia-labs/annotate-cli/internal/core/domain"
	"github.com/custodia-labs/annotate-cli/internal/logger"
)

// Projector rebuilds workspace state by replaying history from scratch.
// It holds no state besides the settings an empty workspace starts with,
// so projecting the same entries and cursor always yields equal results.
type Projector struct {
	defaults domain.Settings
}

// NewProjector creates a projector whose empty state uses defaults.
func NewProjector(defaults domain.Settings) *Projector {
	return &Projector{defaults: defaults}
}

// Empty returns the canonical empty workspace.
func (p *Projector) Empty() domain.WorkspaceState {
	return domain.NewWorkspaceState(p.defaults)
}

// Project replays entries[0..cursor] onto the empty workspace.
// Entries after the cursor are never read. A cursor past the end is
// clamped to the last entry; a negative cursor yields the empty state.
func (p *Projector) Project(entries []domain.HistoryEntry, cursor int) domain.WorkspaceState {
	defer logger.Since("replay", time.Now())

	state := p.Empty()
	if cursor >= len(entries) {
		cursor = len(entries) - 1
	}
	for i := 0; i <= cursor; i++ {
		if err := entries[i].Action.Validate(); err != nil {
			logger.Warn("Skipping history entry %d (%s): %v", i, entries[i].Label, err)
			continue
		}
		p.apply(&state, entries[i].Action)
	}
	logger.Debug("Replayed %d of %d entries", cursor+1, len(entries))
	return state
}

// apply applies one validated action to state.
func (p *Projector) apply(state *domain.WorkspaceState, action domain.Action) {
	switch action.Kind {
	case domain.ActionImage:
		// Loading an image wipes the workspace first, as the live mutation does.
		*state = p.Empty()
		state.Image = action.Image
		state.ImageName = action.Name

	case domain.ActionMask:
		state.Mask = action.Image

	case domain.ActionAnnotationAdd:
		file := action.File.Clone()
		state.Files = append(state.Files, file)
		registerClassColors(state.ClassColors, file)

	case domain.ActionAnnotationRemove:
		state.Files = removeFiles(state.Files, action.Name)

	case domain.ActionVisibility:
		// A missing file is not an error: it may have been removed by an
		// entry that is still replayed.
		if i := state.FileIndex(action.Name); i >= 0 {
			state.Files[i].Visible = action.Visible
		}

	case domain.ActionClear:
		*state = p.Empty()
	}
}

// removeFiles returns files without any file called name.
func removeFiles(files []domain.AnnotationFile, name string) []domain.AnnotationFile {
	out := files[:0]
	for i := range files {
		if files[i].Name != name {
			out = append(out, files[i])
		}
	}
	clear(files[len(out):])
	return out
}
