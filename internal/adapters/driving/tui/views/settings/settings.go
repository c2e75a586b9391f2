// Package settings provides the settings editor panel for the TUI.
package settings

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/annotate-cli/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/annotate-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/annotate-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/annotate-cli/internal/core/ports/driving"
)

// Key constants for key handling.
const (
	keyEnter = "enter"
	keyEsc   = "esc"
)

// errNoService is reported when the panel has nothing to edit.
var errNoService = errors.New("settings service not available")

// View lists every settings key with its effective value and edits one
// key at a time.
type View struct {
	styles          *styles.Styles
	settingsService driving.SettingsService

	keys     []string
	values   map[string]string
	selected int
	field    *input.Field
	err      error

	width  int
	height int
}

// NewView creates a new settings panel. settingsService may be nil.
func NewView(s *styles.Styles, settingsService driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:          s,
		settingsService: settingsService,
		values:          make(map[string]string),
		width:           60,
	}
}

// Init loads the current values.
func (v *View) Init() tea.Cmd {
	v.Reload()
	return nil
}

// Reload reads keys and values from the service.
func (v *View) Reload() {
	if v.settingsService == nil {
		v.err = errNoService
		return
	}
	v.keys = v.settingsService.Keys()
	for _, key := range v.keys {
		value, err := v.settingsService.Value(key)
		if err != nil {
			v.err = err
			continue
		}
		v.values[key] = value
	}
	v.selected = min(v.selected, max(len(v.keys)-1, 0))
}

// Update handles messages for the settings panel.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.SettingSaved:
		v.err = msg.Err
		if msg.Err == nil {
			v.Reload()
		}
		return v, nil

	case tea.KeyMsg:
		if v.field != nil {
			return v.handleEditKeys(msg)
		}
		return v.handleListKeys(msg)
	}
	return v, nil
}

func (v *View) handleListKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case "down", "j":
		if v.selected < len(v.keys)-1 {
			v.selected++
		}
	case keyEnter:
		if len(v.keys) == 0 {
			return v, nil
		}
		key := v.keys[v.selected]
		v.field = input.NewField(v.styles, key)
		v.field.SetWidth(v.width)
		v.field.SetValue(v.values[key])
		v.err = nil
		return v, v.field.Init()
	case keyEsc:
		return v, func() tea.Msg {
			return messages.PanelChanged{Panel: messages.PanelHistory}
		}
	}
	return v, nil
}

func (v *View) handleEditKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case keyEsc:
		v.field = nil
		return v, nil
	case keyEnter:
		key, value := v.field.Label(), strings.TrimSpace(v.field.Value())
		v.field = nil
		service := v.settingsService
		return v, func() tea.Msg {
			return messages.SettingSaved{Key: key, Value: value, Err: service.Set(key, value)}
		}
	}
	_, cmd := v.field.Update(msg)
	return v, cmd
}

// View renders the panel.
func (v *View) View() string {
	lines := []string{v.styles.Subtitle.Render("Settings"), ""}

	keyWidth := 0
	for _, key := range v.keys {
		keyWidth = max(keyWidth, len(key))
	}

	for i, key := range v.keys {
		if v.field != nil && i == v.selected {
			lines = append(lines, v.field.View())
			continue
		}
		row := fmt.Sprintf("%-*s  %s", keyWidth, key, v.values[key])
		if i == v.selected {
			lines = append(lines, v.styles.Selected.Render("> "+row))
		} else {
			lines = append(lines, v.styles.Normal.Render("  "+row))
		}
	}

	if v.err != nil {
		lines = append(lines, "", v.styles.Error.Render("Error: "+v.err.Error()))
	}
	lines = append(lines, "", v.styles.Help.Render("enter: edit | esc: back"))
	return strings.Join(lines, "\n")
}

// Editing reports whether a value is being typed.
func (v *View) Editing() bool {
	return v.field != nil
}

// SelectedKey returns the key under the selection, or "".
func (v *View) SelectedKey() string {
	if v.selected < 0 || v.selected >= len(v.keys) {
		return ""
	}
	return v.keys[v.selected]
}

// Err returns the last load or save error.
func (v *View) Err() error {
	return v.err
}

// SetSize sets the space available to the panel.
func (v *View) SetSize(width, height int) {
	v.width = width
	v.height = height
}
