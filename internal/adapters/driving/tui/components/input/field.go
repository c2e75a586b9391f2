// Package input provides text input components for the TUI.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/annotate-cli/internal/adapters/driving/tui/styles"
)

// Field wraps a bubbles textinput with a label.
type Field struct {
	textinput textinput.Model
	styles    *styles.Styles
	label     string
	width     int
}

// NewField creates a focused single-line input.
func NewField(s *styles.Styles, label string) *Field {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 64
	ti.Width = 20

	return &Field{
		textinput: ti,
		styles:    s,
		label:     label,
		width:     20,
	}
}

// Init initialises the field.
func (f *Field) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (f *Field) Update(msg tea.Msg) (*Field, tea.Cmd) {
	var cmd tea.Cmd
	f.textinput, cmd = f.textinput.Update(msg)
	return f, cmd
}

// View renders the label and the input.
func (f *Field) View() string {
	label := f.styles.Title.Render(f.label + ": ")
	field := f.styles.InputField.Render(f.textinput.View())
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	return lipgloss.JoinHorizontal(lipgloss.Center, label, field)
}

// Label returns the field label.
func (f *Field) Label() string {
	return f.label
}

// Value returns the current input value.
func (f *Field) Value() string {
	return f.textinput.Value()
}

// SetValue sets the input value and moves the caret to the end.
func (f *Field) SetValue(value string) {
	f.textinput.SetValue(value)
	f.textinput.CursorEnd()
}

// Focus sets focus on the field.
func (f *Field) Focus() tea.Cmd {
	return f.textinput.Focus()
}

// Blur removes focus from the field.
func (f *Field) Blur() {
	f.textinput.Blur()
}

// Focused returns whether the field is focused.
func (f *Field) Focused() bool {
	return f.textinput.Focused()
}

// SetWidth sets the width of the field, label included.
func (f *Field) SetWidth(width int) {
	f.width = width
	f.textinput.Width = max(width-lipgloss.Width(f.label)-6, 10)
}

// Width returns the current width.
func (f *Field) Width() int {
	return f.width
}

// Reset clears the field.
func (f *Field) Reset() {
	f.textinput.Reset()
}
