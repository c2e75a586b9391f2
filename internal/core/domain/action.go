package domain

import (
	"fmt"
	"time"
)

// ActionKind discriminates the Action union.
type ActionKind string

// Logged action kinds, one per undo-worthy mutation.
const (
	ActionImage            ActionKind = "image"
	ActionMask             ActionKind = "mask"
	ActionAnnotationAdd    ActionKind = "annotation:add"
	ActionAnnotationRemove ActionKind = "annotation:remove"
	ActionVisibility       ActionKind = "visibility"
	ActionClear            ActionKind = "clear"
)

// IsValid returns true if the kind is recognised.
func (k ActionKind) IsValid() bool {
	switch k {
	case ActionImage, ActionMask, ActionAnnotationAdd,
		ActionAnnotationRemove, ActionVisibility, ActionClear:
		return true
	default:
		return false
	}
}

// Action describes one undo-worthy mutation.
// Which fields are set depends on Kind:
//
//	image              Image, Name
//	mask               Image
//	annotation:add     File
//	annotation:remove  Name
//	visibility         Name, Visible
//	clear              (none)
type Action struct {
	Kind    ActionKind
	Image   *ImagePayload
	Name    string
	File    *AnnotationFile
	Visible bool
}

// NewImageAction logs loading a base image.
func NewImageAction(payload *ImagePayload, name string) Action {
	return Action{Kind: ActionImage, Image: payload, Name: name}
}

// NewMaskAction logs loading a mask.
func NewMaskAction(payload *ImagePayload) Action {
	return Action{Kind: ActionMask, Image: payload}
}

// NewAddFileAction logs adding an annotation file. The file is copied.
func NewAddFileAction(file AnnotationFile) Action {
	c := file.Clone()
	return Action{Kind: ActionAnnotationAdd, File: &c, Name: file.Name}
}

// NewRemoveFileAction logs removing an annotation file.
func NewRemoveFileAction(name string) Action {
	return Action{Kind: ActionAnnotationRemove, Name: name}
}

// NewVisibilityAction logs the resulting visibility of a file.
func NewVisibilityAction(name string, visible bool) Action {
	return Action{Kind: ActionVisibility, Name: name, Visible: visible}
}

// NewClearAction logs a full reset.
func NewClearAction() Action {
	return Action{Kind: ActionClear}
}

// Clone returns a copy of the action that shares no annotation file
// with a. Image payloads are immutable and stay shared.
func (a Action) Clone() Action {
	c := a
	if a.File != nil {
		f := a.File.Clone()
		c.File = &f
	}
	return c
}

// Validate reports whether the action carries the payload its kind needs.
func (a Action) Validate() error {
	switch a.Kind {
	case ActionImage, ActionMask:
		if a.Image == nil || a.Image.Surface == nil {
			return fmt.Errorf("%w: %s without image payload", ErrMalformedAction, a.Kind)
		}
	case ActionAnnotationAdd:
		if a.File == nil {
			return fmt.Errorf("%w: %s without file", ErrMalformedAction, a.Kind)
		}
	case ActionAnnotationRemove, ActionVisibility, ActionClear:
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrMalformedAction, a.Kind)
	}
	return nil
}

// Label returns a short human-readable description for history lists.
func (a Action) Label() string {
	switch a.Kind {
	case ActionImage:
		if a.Name == "" {
			return "Load image"
		}
		return "Load image " + a.Name
	case ActionMask:
		return "Load mask"
	case ActionAnnotationAdd:
		if a.File != nil {
			return "Add annotations " + a.File.Name
		}
		return "Add annotations"
	case ActionAnnotationRemove:
		return "Remove annotations " + a.Name
	case ActionVisibility:
		if a.Visible {
			return "Show " + a.Name
		}
		return "Hide " + a.Name
	case ActionClear:
		return "Clear workspace"
	default:
		return fmt.Sprintf("Unknown action (%s)", a.Kind)
	}
}

// HistoryEntry is one element of the action log.
// Timestamp is unique within a log and identifies the entry across reorders.
type HistoryEntry struct {
	Action    Action
	Label     string
	Timestamp time.Time
}

// Clone returns a copy of the entry with its own annotation file.
func (e HistoryEntry) Clone() HistoryEntry {
	e.Action = e.Action.Clone()
	return e
}

// CloneHistory deep-copies a slice of entries.
func CloneHistory(entries []HistoryEntry) []HistoryEntry {
	if entries == nil {
		return nil
	}
	out := make([]HistoryEntry, len(entries))
	for i := range entries {
		out[i] = entries[i].Clone()
	}
	return out
}

// NewHistoryEntry labels an action with its default label.
func NewHistoryEntry(action Action, at time.Time) HistoryEntry {
	return HistoryEntry{Action: action, Label: action.Label(), Timestamp: at}
}
