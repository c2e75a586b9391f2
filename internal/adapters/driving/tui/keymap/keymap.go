// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	// Quit exits the application.
	Quit key.Binding

	// Help toggles the help overlay.
	Help key.Binding

	// Back leaves an overlay or cancels an edit.
	Back key.Binding

	// Up navigates up in a panel.
	Up key.Binding

	// Down navigates down in a panel.
	Down key.Binding

	// SwitchPanel moves focus to the next panel.
	SwitchPanel key.Binding

	// Select jumps to a history entry, or edits a setting.
	Select key.Binding

	// Undo steps back one history entry.
	Undo key.Binding

	// Redo steps forward one history entry.
	Redo key.Binding

	// Toggle shows or hides the selected annotation file.
	Toggle key.Binding

	// Remove removes the selected annotation file.
	Remove key.Binding

	// Clear clears the workspace.
	Clear key.Binding

	// Settings opens the settings panel.
	Settings key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		SwitchPanel: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch panel"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "jump"),
		),
		Undo: key.NewBinding(
			key.WithKeys("u", "ctrl+z"),
			key.WithHelp("u", "undo"),
		),
		Redo: key.NewBinding(
			key.WithKeys("r", "ctrl+y"),
			key.WithHelp("r", "redo"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "show/hide"),
		),
		Remove: key.NewBinding(
			key.WithKeys("x", "delete"),
			key.WithHelp("x", "remove"),
		),
		Clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear"),
		),
		Settings: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "settings"),
		),
	}
}

// ShortHelp returns a short list of keybindings for the status bar.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Undo, k.Redo, k.Help, k.Quit}
}

// HistoryHelp returns keybindings for the history panel.
func (k *KeyMap) HistoryHelp() []key.Binding {
	return []key.Binding{k.Select, k.Undo, k.Redo, k.SwitchPanel}
}

// FilesHelp returns keybindings for the files panel.
func (k *KeyMap) FilesHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Remove, k.SwitchPanel}
}

// FullHelp returns the full list of keybindings for the help overlay.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.SwitchPanel, k.Select},
		{k.Undo, k.Redo, k.Clear},
		{k.Toggle, k.Remove},
		{k.Settings, k.Help, k.Back, k.Quit},
	}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}
