package services

import (
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/annotate-cli/internal/core/domain"
	"github.com/custodia-labs/annotate-cli/internal/core/ports/driven"
	"github.com/custodia-labs/annotate-cli/internal/core/ports/driving"
	"github.com/custodia-labs/annotate-cli/internal/logger"
)

// Ensure WorkspaceService implements the interface.
var _ driving.WorkspaceService = (*WorkspaceService)(nil)

// WorkspaceService keeps the live workspace state and the action log in step.
//
// Mutations update the live state directly and append one history entry.
// Navigation moves the log cursor and replaces the live state with a
// projection of the log. Draw and display settings are never logged and
// survive navigation unchanged.
//
// WorkspaceService does no locking; callers serialise access.
type WorkspaceService struct {
	id        string
	log       driven.ActionLog
	clock     driven.Clock
	projector *Projector
	state     domain.WorkspaceState

	// lastStamp is the newest timestamp handed out, used to keep
	// timestamps strictly increasing.
	lastStamp time.Time

	observers  []observerEntry
	nextHandle int
}

type observerEntry struct {
	handle   int
	observer driving.Observer
}

// NewWorkspaceService creates an empty workspace backed by log.
// A nil clock uses the system clock.
func NewWorkspaceService(log driven.ActionLog, clock driven.Clock, defaults domain.Settings) *WorkspaceService {
	if clock == nil {
		clock = SystemClock{}
	}
	projector := NewProjector(defaults)
	log.Reset()
	return &WorkspaceService{
		id:        uuid.NewString(),
		log:       log,
		clock:     clock,
		projector: projector,
		state:     projector.Empty(),
	}
}

// ID identifies this workspace session.
func (s *WorkspaceService) ID() string {
	return s.id
}

// SetImage wipes the workspace and loads a base image.
// The wipe is not logged on its own, so loading produces one entry.
func (s *WorkspaceService) SetImage(payload *domain.ImagePayload, name string) bool {
	if payload == nil {
		return false
	}
	s.clearAll(false)
	s.state.Image = payload
	s.state.ImageName = name
	s.record(domain.NewImageAction(payload, name))
	logger.Debug("Loaded image %q (%dx%d)", name, payload.Width, payload.Height)
	s.notify()
	return true
}

// SetMask replaces the mask without touching anything else.
func (s *WorkspaceService) SetMask(payload *domain.ImagePayload) bool {
	if payload == nil {
		return false
	}
	s.state.Mask = payload
	s.record(domain.NewMaskAction(payload))
	logger.Debug("Loaded mask (%dx%d)", payload.Width, payload.Height)
	s.notify()
	return true
}

// AddAnnotationFile appends a copy of file and registers its class colours.
func (s *WorkspaceService) AddAnnotationFile(file domain.AnnotationFile) bool {
	live := file.Clone()
	s.state.Files = append(s.state.Files, live)
	registerClassColors(s.state.ClassColors, live)
	s.record(domain.NewAddFileAction(file))
	logger.Debug("Added annotation file %q with %d annotations", file.Name, len(file.Annotations))
	s.notify()
	return true
}

// ToggleAnnotationFile flips a file's visibility and logs the resulting flag.
func (s *WorkspaceService) ToggleAnnotationFile(name string) bool {
	i := s.state.FileIndex(name)
	if i < 0 {
		return false
	}
	return s.setVisibility(i, !s.state.Files[i].Visible)
}

// SetAnnotationFileVisibility sets a file's visibility.
func (s *WorkspaceService) SetAnnotationFileVisibility(name string, visible bool) bool {
	i := s.state.FileIndex(name)
	if i < 0 || s.state.Files[i].Visible == visible {
		return false
	}
	return s.setVisibility(i, visible)
}

func (s *WorkspaceService) setVisibility(i int, visible bool) bool {
	s.state.Files[i].Visible = visible
	s.record(domain.NewVisibilityAction(s.state.Files[i].Name, visible))
	s.notify()
	return true
}

// RemoveAnnotationFile removes every file called name.
func (s *WorkspaceService) RemoveAnnotationFile(name string) bool {
	if s.state.FileIndex(name) < 0 {
		return false
	}
	s.state.Files = removeFiles(s.state.Files, name)
	s.record(domain.NewRemoveFileAction(name))
	logger.Debug("Removed annotation file %q", name)
	s.notify()
	return true
}

// ClearAll resets the workspace and logs a clear action.
func (s *WorkspaceService) ClearAll() bool {
	s.clearAll(true)
	s.notify()
	return true
}

// clearAll resets the live state, logging the reset only when asked.
func (s *WorkspaceService) clearAll(logged bool) {
	s.state = s.projector.Empty()
	if logged {
		s.record(domain.NewClearAction())
	}
}

// Undo moves the cursor back one entry.
func (s *WorkspaceService) Undo() bool {
	if !s.CanUndo() {
		return false
	}
	return s.navigate(s.log.Cursor() - 1)
}

// Redo moves the cursor forward one entry.
func (s *WorkspaceService) Redo() bool {
	if !s.CanRedo() {
		return false
	}
	return s.navigate(s.log.Cursor() + 1)
}

// JumpTo moves the cursor to index. Out-of-range indices are ignored.
func (s *WorkspaceService) JumpTo(index int) bool {
	if index == s.log.Cursor() {
		return false
	}
	return s.navigate(index)
}

func (s *WorkspaceService) navigate(index int) bool {
	if !s.log.MoveTo(index) {
		logger.Debug("Ignoring move to %d: log has %d entries", index, s.log.Len())
		return false
	}
	logger.Debug("Cursor moved to %d", index)
	s.rebuild()
	s.notify()
	return true
}

// ReorderHistory replaces the log and rebuilds the state from it.
func (s *WorkspaceService) ReorderHistory(entries []domain.HistoryEntry) bool {
	cursor := s.log.Reorder(entries)
	for i := range entries {
		if entries[i].Timestamp.After(s.lastStamp) {
			s.lastStamp = entries[i].Timestamp
		}
	}
	logger.Debug("History reordered: %d entries, cursor %d", len(entries), cursor)
	s.rebuild()
	s.notify()
	return true
}

// rebuild replaces the live state with a projection of the log,
// carrying over the live draw and display settings.
func (s *WorkspaceService) rebuild() {
	draw, display := s.state.Draw, s.state.Display
	s.state = s.projector.Project(s.log.Entries(), s.log.Cursor())
	s.state.Draw = draw
	s.state.Display = display
}

// History returns a copy of the log.
func (s *WorkspaceService) History() []domain.HistoryEntry {
	return s.log.Entries()
}

// Cursor returns the index of the active entry.
func (s *WorkspaceService) Cursor() int {
	return s.log.Cursor()
}

// CanUndo reports whether there is an active entry.
func (s *WorkspaceService) CanUndo() bool {
	return s.log.Cursor() >= 0
}

// CanRedo reports whether there are entries after the cursor.
func (s *WorkspaceService) CanRedo() bool {
	return s.log.Cursor() < s.log.Len()-1
}

// State returns a snapshot of the live state.
func (s *WorkspaceService) State() domain.WorkspaceState {
	return s.state.Clone()
}

// ClassColor returns a label's live colour, or its derived colour when the
// label has not been seen yet. Lookups never modify the state; labels are
// registered only by loading annotation files.
func (s *WorkspaceService) ClassColor(label string) string {
	if c, ok := s.state.ClassColors[label]; ok {
		return c
	}
	return ClassColor(label)
}

// SetClassColor overrides a label's colour until the next replay.
func (s *WorkspaceService) SetClassColor(label, color string) bool {
	if label == "" || color == "" || s.state.ClassColors[label] == color {
		return false
	}
	s.state.ClassColors[label] = color
	s.notify()
	return true
}

// DrawSettings returns the live draw settings.
func (s *WorkspaceService) DrawSettings() domain.DrawSettings {
	return s.state.Draw
}

// SetDrawSettings replaces the draw settings. Invalid settings are ignored.
func (s *WorkspaceService) SetDrawSettings(settings domain.DrawSettings) bool {
	if settings.Validate() != nil || settings == s.state.Draw {
		return false
	}
	s.state.Draw = settings
	s.notify()
	return true
}

// DisplaySettings returns the live display settings.
func (s *WorkspaceService) DisplaySettings() domain.DisplaySettings {
	return s.state.Display
}

// SetDisplaySettings replaces the display settings. Invalid settings are ignored.
func (s *WorkspaceService) SetDisplaySettings(settings domain.DisplaySettings) bool {
	if settings.Validate() != nil || settings == s.state.Display {
		return false
	}
	s.state.Display = settings
	s.notify()
	return true
}

// Subscribe registers an observer. The returned function removes it.
func (s *WorkspaceService) Subscribe(observer driving.Observer) func() {
	s.nextHandle++
	handle := s.nextHandle
	s.observers = append(s.observers, observerEntry{handle: handle, observer: observer})
	return func() {
		for i := range s.observers {
			if s.observers[i].handle == handle {
				s.observers = append(s.observers[:i], s.observers[i+1:]...)
				return
			}
		}
	}
}

// Reset discards the log and the state and starts a new session.
// Observers stay subscribed.
func (s *WorkspaceService) Reset() {
	s.log.Reset()
	s.state = s.projector.Empty()
	s.lastStamp = time.Time{}
	s.id = uuid.NewString()
	logger.Debug("Workspace reset, session %s", s.id)
	s.notify()
}

// record appends action to the log with a strictly increasing timestamp.
func (s *WorkspaceService) record(action domain.Action) {
	now := s.clock.Now()
	if !now.After(s.lastStamp) {
		now = s.lastStamp.Add(time.Nanosecond)
	}
	s.lastStamp = now
	s.log.Append(domain.NewHistoryEntry(action, now))
}

func (s *WorkspaceService) notify() {
	for _, o := range append([]observerEntry(nil), s.observers...) {
		o.observer.OnStateChange(s.state.Clone())
	}
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns the current time.
func (SystemClock) Now() time.Time {
	return time.Now()
}
