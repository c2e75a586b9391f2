// Package files provides the annotation file panel for the TUI.
package files

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/annotate-cli/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/annotate-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/annotate-cli/internal/core/domain"
)

// View lists the loaded annotation files in insertion order.
type View struct {
	styles *styles.Styles
	list   *list.List
	names  []string
}

// NewView creates a new files panel.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	l := list.New(s, "Annotation files")
	l.SetEmptyText("No annotation files")
	return &View{styles: s, list: l}
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

// SetFiles rebuilds the rows from the workspace files.
func (v *View) SetFiles(files []domain.AnnotationFile) {
	items := make([]list.Item, len(files))
	v.names = make([]string, len(files))
	for i := range files {
		f := &files[i]
		v.names[i] = f.Name
		item := list.Item{
			Prefix: v.styles.Swatch(f.Color),
			Title:  f.Name,
			Detail: describe(f),
		}
		if !f.Visible {
			item.Tone = list.ToneHidden
		}
		items[i] = item
	}
	v.list.SetItems(items)
}

// describe summarises the annotations of a file.
func describe(f *domain.AnnotationFile) string {
	n := len(f.Annotations)
	noun := "annotations"
	if n == 1 {
		noun = "annotation"
	}
	out := fmt.Sprintf("%d %s", n, noun)
	if classes := f.Classes(); len(classes) > 0 && len(classes) <= 3 {
		out += " [" + strings.Join(classes, ", ") + "]"
	} else if len(classes) > 3 {
		out += fmt.Sprintf(" [%d classes]", len(classes))
	}
	if !f.Visible {
		out += " hidden"
	}
	return out
}

// SelectedName returns the name of the selected file, or "" when empty.
func (v *View) SelectedName() string {
	i := v.list.Selected()
	if i < 0 || i >= len(v.names) {
		return ""
	}
	return v.names[i]
}

// SetFocused marks whether the panel receives keys.
func (v *View) SetFocused(focused bool) {
	v.list.SetFocused(focused)
}

// SetSize sets the space available to the panel.
func (v *View) SetSize(width, height int) {
	v.list.SetSize(width, height)
}
