// Package history provides the action history panel for the TUI.
package history

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/annotate-cli/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/annotate-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/annotate-cli/internal/core/domain"
)

// emptyLabel names the row for the state before any action.
const emptyLabel = "(empty workspace)"

// View lists the action log with the empty workspace as its first row.
// Rows after the cursor are shown as undone.
type View struct {
	list   *list.List
	cursor int
	count  int
}

// NewView creates a new history panel.
func NewView(s *styles.Styles) *View {
	l := list.New(s, "History")
	return &View{list: l, cursor: -1}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles navigation keys.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	_, cmd := v.list.Update(msg)
	return v, cmd
}

// View renders the panel.
func (v *View) View() string {
	return v.list.View()
}

// SetHistory rebuilds the rows from the log. When the cursor moved the
// selection follows it.
func (v *View) SetHistory(entries []domain.HistoryEntry, cursor int) {
	items := make([]list.Item, 0, len(entries)+1)
	items = append(items, list.Item{Title: emptyLabel, Tone: tone(-1, cursor)})
	for i, e := range entries {
		items = append(items, list.Item{
			Title:  e.Label,
			Detail: e.Timestamp.Local().Format("15:04:05"),
			Tone:   tone(i, cursor),
		})
	}

	moved := cursor != v.cursor || len(entries) != v.count
	v.cursor = cursor
	v.count = len(entries)
	v.list.SetItems(items)
	if moved {
		v.list.SetSelected(cursor + 1)
	}
}

// tone styles the row for log index i.
func tone(i, cursor int) list.Tone {
	switch {
	case i == cursor:
		return list.ToneActive
	case i > cursor:
		return list.ToneUndone
	default:
		return list.ToneNormal
	}
}

// SelectedIndex returns the log index of the selected row, -1 being the
// empty workspace.
func (v *View) SelectedIndex() int {
	return v.list.Selected() - 1
}

// SetFocused marks whether the panel receives keys.
func (v *View) SetFocused(focused bool) {
	v.list.SetFocused(focused)
}

// SetSize sets the space available to the panel.
func (v *View) SetSize(width, height int) {
	v.list.SetSize(width, height)
}
