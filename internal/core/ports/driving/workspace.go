package driving

import "github.com/custodia-labs/annotate-cli/internal/core/domain"

// Observer is notified with a snapshot after every state-changing call.
type Observer interface {
	OnStateChange(state domain.WorkspaceState)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(state domain.WorkspaceState)

// OnStateChange calls f(state).
func (f ObserverFunc) OnStateChange(state domain.WorkspaceState) {
	f(state)
}

// WorkspaceService is the only way to change a workspace.
// Each mutation updates the live state and the action log together.
// Mutations never fail: they return false when nothing changed.
// Calls must be serialised by the caller.
type WorkspaceService interface {
	// ID identifies this workspace session.
	ID() string

	// SetImage wipes the workspace and loads a base image as one logged step.
	SetImage(payload *domain.ImagePayload, name string) bool

	// SetMask replaces the mask.
	SetMask(payload *domain.ImagePayload) bool

	// AddAnnotationFile appends a file. Duplicate names are accepted;
	// lookups by name then resolve to the first match.
	AddAnnotationFile(file domain.AnnotationFile) bool

	// ToggleAnnotationFile flips a file's visibility.
	ToggleAnnotationFile(name string) bool

	// SetAnnotationFileVisibility sets a file's visibility.
	// Returns false when the file is missing or already in that state.
	SetAnnotationFileVisibility(name string, visible bool) bool

	// RemoveAnnotationFile removes every file with the given name.
	RemoveAnnotationFile(name string) bool

	// ClearAll resets the workspace and logs a clear action.
	ClearAll() bool

	// Undo moves the cursor back one entry.
	Undo() bool

	// Redo moves the cursor forward one entry.
	Redo() bool

	// JumpTo moves the cursor to index, -1 meaning the empty workspace.
	JumpTo(index int) bool

	// ReorderHistory replaces the log with entries and rebuilds the state.
	ReorderHistory(entries []domain.HistoryEntry) bool

	// History returns a copy of the log.
	History() []domain.HistoryEntry

	// Cursor returns the index of the active entry, or -1.
	Cursor() int

	// CanUndo reports whether Undo would move the cursor.
	CanUndo() bool

	// CanRedo reports whether Redo would move the cursor.
	CanRedo() bool

	// State returns a snapshot of the live state.
	State() domain.WorkspaceState

	// ClassColor returns the colour of a class label without registering it.
	ClassColor(label string) string

	// SetClassColor overrides the colour of a class label. Not logged.
	SetClassColor(label, color string) bool

	// DrawSettings returns the live draw settings.
	DrawSettings() domain.DrawSettings

	// SetDrawSettings replaces the draw settings. Not logged.
	SetDrawSettings(settings domain.DrawSettings) bool

	// DisplaySettings returns the live display settings.
	DisplaySettings() domain.DisplaySettings

	// SetDisplaySettings replaces the display settings. Not logged.
	SetDisplaySettings(settings domain.DisplaySettings) bool

	// Subscribe registers an observer and returns a function removing it.
	Subscribe(observer Observer) func()

	// Reset tears the workspace down to a fresh one with an empty log.
	Reset()
}
