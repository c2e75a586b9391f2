// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/annotate-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/annotate-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/annotate-cli/internal/adapters/driving/tui/styles"
)

// State represents the current application state for display.
type State string

const (
	StateReady   State = "ready"
	StateEditing State = "editing"
	StateError   State = "error"
	StateHelp    State = "help"
)

// Bar displays the history position, the last outcome and keybinding hints.
type Bar struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	state   State
	message string
	panel   messages.Panel
	cursor  int
	total   int
	width   int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateReady,
		panel:  messages.PanelHistory,
		cursor: -1,
		width:  80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update handles status bar messages.
func (s *Bar) Update(msg tea.Msg) (*Bar, tea.Cmd) {
	if msg, ok := msg.(messages.PanelChanged); ok {
		s.panel = msg.Panel
	}
	return s, nil
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

// renderLeft renders the state or the last message.
func (s *Bar) renderLeft() string {
	switch s.state {
	case StateError:
		if s.message != "" {
			return s.styles.Error.Render(fmt.Sprintf("Error: %s", s.message))
		}
		return s.styles.Error.Render("Error")
	case StateHelp:
		return s.styles.Normal.Render("Help")
	case StateEditing:
		return s.styles.Normal.Render(fmt.Sprintf("Editing %s", s.message))
	case StateReady:
	}

	position := s.position()
	if s.message != "" {
		return s.styles.Normal.Render(s.message) + s.styles.Muted.Render("  "+position)
	}
	return s.styles.Muted.Render(position)
}

// position describes where the cursor sits in the history.
func (s *Bar) position() string {
	if s.total == 0 {
		return "No history"
	}
	return fmt.Sprintf("Step %d of %d", s.cursor+1, s.total)
}

// renderRight renders keybinding hints for the focused panel.
func (s *Bar) renderRight() string {
	var bindings []key.Binding
	switch s.panel {
	case messages.PanelHistory:
		bindings = s.keymap.HistoryHelp()
	case messages.PanelFiles:
		bindings = s.keymap.FilesHelp()
	default:
		bindings = s.keymap.ShortHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets a custom message.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetPosition records the history cursor and length.
func (s *Bar) SetPosition(cursor, total int) {
	s.cursor = cursor
	s.total = total
}

// Panel returns the panel whose hints are shown.
func (s *Bar) Panel() messages.Panel {
	return s.panel
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear resets the state and message.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
}
