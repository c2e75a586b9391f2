// Package list provides a scrolling, selectable list for the TUI panels.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/annotate-cli/internal/adapters/driving/tui/styles"
)

// Tone selects how an item is styled when it is not selected.
type Tone int

const (
	ToneNormal Tone = iota
	ToneActive
	ToneUndone
	ToneHidden
)

// Item is one row of a list.
type Item struct {
	// Prefix is rendered before the title as is, e.g. a colour swatch.
	Prefix string
	Title  string
	Detail string
	Tone   Tone
}

// List displays items in a navigable, scrolling window.
type List struct {
	title    string
	empty    string
	items    []Item
	selected int
	focused  bool
	styles   *styles.Styles
	width    int
	height   int
}

// New creates a list with a heading.
func New(s *styles.Styles, title string) *List {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &List{
		title:  title,
		empty:  "Nothing here",
		styles: s,
		width:  40,
		height: 10,
	}
}

// Init initialises the list.
func (l *List) Init() tea.Cmd {
	return nil
}

// Update handles list navigation keys.
func (l *List) Update(msg tea.Msg) (*List, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			l.MoveUp()
		case "down", "j":
			l.MoveDown()
		case "home", "g":
			l.selected = 0
		case "end", "G":
			l.selected = max(len(l.items)-1, 0)
		}
	}
	return l, nil
}

// View renders the heading and the visible rows.
func (l *List) View() string {
	lines := make([]string, 0, l.height)
	lines = append(lines, l.styles.Subtitle.Render(fmt.Sprintf("%s (%d)", l.title, len(l.items))))

	if len(l.items) == 0 {
		lines = append(lines, l.styles.Muted.Render(l.empty))
		return strings.Join(lines, "\n")
	}

	start, end := l.window()
	for i := start; i < end; i++ {
		lines = append(lines, l.renderItem(i))
	}
	return strings.Join(lines, "\n")
}

// window returns the range of rows that fit below the heading, keeping
// the selection in view.
func (l *List) window() (int, int) {
	visible := max(l.height-1, 1)
	start := 0
	if l.selected >= visible {
		start = l.selected - visible + 1
	}
	return start, min(start+visible, len(l.items))
}

// renderItem formats a single row.
func (l *List) renderItem(index int) string {
	item := l.items[index]

	indicator := "  "
	if index == l.selected {
		indicator = "> "
	}

	detailWidth := lipgloss.Width(item.Detail)
	prefix := item.Prefix
	if prefix != "" {
		prefix += " "
	}
	titleWidth := l.width - lipgloss.Width(indicator) - lipgloss.Width(prefix) - detailWidth - 1
	title := truncate(item.Title, max(titleWidth, 5))
	title += strings.Repeat(" ", max(titleWidth-lipgloss.Width(title), 0))

	if index == l.selected && l.focused {
		return prefix + l.styles.Selected.Render(indicator+title) + " " + l.styles.Muted.Render(item.Detail)
	}

	var style lipgloss.Style
	switch item.Tone {
	case ToneActive:
		style = l.styles.Active
	case ToneUndone:
		style = l.styles.Undone
	case ToneHidden:
		style = l.styles.Hidden
	default:
		style = l.styles.Normal
	}
	return l.styles.Normal.Render(indicator) + prefix + style.Render(title) + " " + l.styles.Muted.Render(item.Detail)
}

// truncate shortens s to at most n cells, marking the cut with "...".
func truncate(s string, n int) string {
	if lipgloss.Width(s) <= n {
		return s
	}
	runes := []rune(s)
	if n <= 3 {
		return string(runes[:n])
	}
	for len(runes) > 0 && lipgloss.Width(string(runes))+3 > n {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}

// SetItems replaces the rows, keeping the selection in range.
func (l *List) SetItems(items []Item) {
	l.items = items
	l.selected = min(l.selected, max(len(items)-1, 0))
}

// Items returns the current rows.
func (l *List) Items() []Item {
	return l.items
}

// SetEmptyText sets the text shown when there are no rows.
func (l *List) SetEmptyText(text string) {
	l.empty = text
}

// Selected returns the index of the selected row.
func (l *List) Selected() int {
	return l.selected
}

// SetSelected sets the selected index.
func (l *List) SetSelected(index int) {
	if index >= 0 && index < len(l.items) {
		l.selected = index
	}
}

// MoveUp moves selection up.
func (l *List) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves selection down.
func (l *List) MoveDown() {
	if l.selected < len(l.items)-1 {
		l.selected++
	}
}

// SetFocused marks whether the list receives keys.
func (l *List) SetFocused(focused bool) {
	l.focused = focused
}

// Focused reports whether the list receives keys.
func (l *List) Focused() bool {
	return l.focused
}

// SetSize sets the width and height available to the list.
func (l *List) SetSize(width, height int) {
	l.width = width
	l.height = height
}
