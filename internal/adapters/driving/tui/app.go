package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/annotate-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/annotate-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/annotate-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/annotate-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/annotate-cli/internal/adapters/driving/tui/views/files"
	"github.com/custodia-labs/annotate-cli/internal/adapters/driving/tui/views/history"
	"github.com/custodia-labs/annotate-cli/internal/adapters/driving/tui/views/settings"
	"github.com/custodia-labs/annotate-cli/internal/core/domain"
	"github.com/custodia-labs/annotate-cli/internal/core/ports/driving"
	"github.com/custodia-labs/annotate-cli/internal/logger"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap

	historyView  *history.View
	filesView    *files.View
	settingsView *settings.View
	statusBar    *status.Bar

	// panel has keyboard focus; previous is restored when help closes.
	panel    messages.Panel
	previous messages.Panel

	// changes delivers file changes when the workspace is watched.
	changes <-chan domain.FileChange

	// state is the latest snapshot pushed by the workspace.
	state       domain.WorkspaceState
	dirty       bool
	unsubscribe func()

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has received its size.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// emptyWorkspaceLabel names the position before the first entry.
const emptyWorkspaceLabel = "empty workspace"

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	a := &App{
		ports:        ports,
		ctx:          context.Background(),
		styles:       s,
		keymap:       km,
		historyView:  history.NewView(s),
		filesView:    files.NewView(s),
		settingsView: settings.NewView(s, ports.Settings),
		statusBar:    status.NewBar(s, km),
		panel:        messages.PanelHistory,
		previous:     messages.PanelHistory,
		state:        ports.Workspace.State(),
		dirty:        true,
	}
	a.unsubscribe = ports.Workspace.Subscribe(driving.ObserverFunc(a.onStateChange))
	a.historyView.SetFocused(true)
	a.sync()
	return a, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// WithChanges makes the app reload files reported on ch.
func (a *App) WithChanges(ch <-chan domain.FileChange) *App {
	a.changes = ch
	return a
}

// onStateChange records the snapshot; panels are rebuilt after the
// current message is handled.
func (a *App) onStateChange(state domain.WorkspaceState) {
	a.state = state
	a.dirty = true
}

// sync rebuilds the panels when the workspace changed.
func (a *App) sync() {
	if !a.dirty {
		return
	}
	a.dirty = false
	ws := a.ports.Workspace
	entries := ws.History()
	a.historyView.SetHistory(entries, ws.Cursor())
	a.filesView.SetFiles(a.state.Files)
	a.statusBar.SetPosition(ws.Cursor(), len(entries))
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("annotate"),
		a.waitForChange(),
	)
}

// waitForChange blocks on the change stream in a command.
func (a *App) waitForChange() tea.Cmd {
	if a.changes == nil {
		return nil
	}
	ch := a.changes
	return func() tea.Msg {
		change, ok := <-ch
		if !ok {
			return messages.WatchStopped{}
		}
		return messages.FileChanged{Change: change}
	}
}

// readFile loads a changed file off the update loop.
func readFile(path string) tea.Cmd {
	return func() tea.Msg {
		content, err := os.ReadFile(path)
		return messages.FileRead{Path: path, Content: content, Err: err}
	}
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message handler
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)

	case tea.KeyMsg:
		cmd = a.handleKey(msg)

	case messages.PanelChanged:
		a.focus(msg.Panel)

	case messages.FileChanged:
		cmd = a.handleFileChange(msg.Change)

	case messages.FileRead:
		a.handleFileRead(msg)

	case messages.WatchStopped:
		a.changes = nil
		a.setMessage("Stopped watching files")

	case messages.SettingSaved:
		a.settingsView, cmd = a.settingsView.Update(msg)
		a.handleSettingSaved(msg)

	case messages.ErrorOccurred:
		a.setError(msg.Err)
	}

	a.sync()
	return a, cmd
}

// handleKey dispatches a key press to the app or the focused panel.
func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	k := msg.String()
	if k == "ctrl+c" {
		a.Close()
		return tea.Quit
	}

	switch a.panel {
	case messages.PanelSettings:
		if !a.settingsView.Editing() && keymap.Matches(k, a.keymap.Quit) {
			a.Close()
			return tea.Quit
		}
		var cmd tea.Cmd
		a.settingsView, cmd = a.settingsView.Update(msg)
		if a.settingsView.Editing() {
			a.statusBar.SetState(status.StateEditing)
			a.statusBar.SetMessage(a.settingsView.SelectedKey())
		} else if a.statusBar.State() == status.StateEditing {
			a.statusBar.Clear()
		}
		return cmd

	case messages.PanelHelp:
		switch {
		case keymap.Matches(k, a.keymap.Quit):
			a.Close()
			return tea.Quit
		case keymap.Matches(k, a.keymap.Help), keymap.Matches(k, a.keymap.Back):
			a.focus(a.previous)
			a.statusBar.Clear()
		}
		return nil
	}

	ws := a.ports.Workspace
	switch {
	case keymap.Matches(k, a.keymap.Quit):
		a.Close()
		return tea.Quit

	case keymap.Matches(k, a.keymap.Help):
		a.previous = a.panel
		a.focus(messages.PanelHelp)
		a.statusBar.SetState(status.StateHelp)

	case keymap.Matches(k, a.keymap.SwitchPanel):
		next := messages.PanelFiles
		if a.panel == messages.PanelFiles {
			next = messages.PanelHistory
		}
		return func() tea.Msg { return messages.PanelChanged{Panel: next} }

	case keymap.Matches(k, a.keymap.Settings):
		if a.ports.Settings == nil {
			a.setMessage("Settings are not available")
			return nil
		}
		a.settingsView.Reload()
		a.focus(messages.PanelSettings)

	case keymap.Matches(k, a.keymap.Undo):
		a.report(ws.Undo(), "Undo", "Nothing to undo")

	case keymap.Matches(k, a.keymap.Redo):
		a.report(ws.Redo(), "Redo", "Nothing to redo")

	case keymap.Matches(k, a.keymap.Clear):
		if ws.ClearAll() {
			a.setMessage("Cleared workspace")
		}

	case keymap.Matches(k, a.keymap.Select) && a.panel == messages.PanelHistory:
		a.report(ws.JumpTo(a.historyView.SelectedIndex()), "Jumped to", "Already there")

	case keymap.Matches(k, a.keymap.Toggle) && a.panel == messages.PanelFiles:
		name := a.filesView.SelectedName()
		if name != "" && ws.ToggleAnnotationFile(name) {
			a.setMessage(ws.History()[ws.Cursor()].Label)
		}

	case keymap.Matches(k, a.keymap.Remove) && a.panel == messages.PanelFiles:
		name := a.filesView.SelectedName()
		if name != "" && ws.RemoveAnnotationFile(name) {
			a.setMessage("Removed " + name)
		}

	default:
		var cmd tea.Cmd
		if a.panel == messages.PanelFiles {
			a.filesView, cmd = a.filesView.Update(msg)
		} else {
			a.historyView, cmd = a.historyView.Update(msg)
		}
		return cmd
	}
	return nil
}

// report describes the outcome of a cursor move.
func (a *App) report(changed bool, verb, unchanged string) {
	if !changed {
		a.setMessage(unchanged)
		return
	}
	ws := a.ports.Workspace
	label := emptyWorkspaceLabel
	if c := ws.Cursor(); c >= 0 {
		label = ws.History()[c].Label
	}
	a.setMessage(verb + ": " + label)
}

// handleFileChange removes deleted files and reads written ones.
func (a *App) handleFileChange(change domain.FileChange) tea.Cmd {
	logger.Debug("TUI file change: %s %s", change.Op, change.Path)
	switch change.Op {
	case domain.ChangeRemove:
		name := filepath.Base(change.Path)
		if a.ports.Workspace.RemoveAnnotationFile(name) {
			a.setMessage("Removed " + name)
		}
		return a.waitForChange()
	case domain.ChangeWrite:
		return tea.Batch(readFile(change.Path), a.waitForChange())
	}
	return a.waitForChange()
}

// handleFileRead reloads a changed file into the workspace.
func (a *App) handleFileRead(msg messages.FileRead) {
	if msg.Err != nil {
		a.setError(msg.Err)
		return
	}
	if a.ports.Loader == nil {
		return
	}
	res, err := a.ports.Loader.Load(a.ctx, driving.LoadRequest{
		Name:    filepath.Base(msg.Path),
		Content: msg.Content,
		Replace: true,
	})
	if err != nil {
		a.setError(err)
		return
	}
	a.setMessage(fmt.Sprintf("Reloaded %s (%s)", res.Name, res.Kind))
}

// handleSettingSaved applies saved drawing settings to the live workspace.
func (a *App) handleSettingSaved(msg messages.SettingSaved) {
	if msg.Err != nil {
		a.setError(msg.Err)
		return
	}
	cfg, err := a.ports.Settings.Get()
	if err != nil {
		a.setError(err)
		return
	}
	ws := a.ports.Workspace
	ws.SetDrawSettings(cfg.Workspace.Draw)
	ws.SetDisplaySettings(cfg.Workspace.Display)
	a.setMessage(fmt.Sprintf("Saved %s = %s", msg.Key, msg.Value))
}

// focus moves keyboard focus to panel.
func (a *App) focus(panel messages.Panel) {
	a.panel = panel
	a.historyView.SetFocused(panel == messages.PanelHistory)
	a.filesView.SetFocused(panel == messages.PanelFiles)
	a.statusBar.Update(messages.PanelChanged{Panel: panel})
}

func (a *App) setMessage(message string) {
	a.err = nil
	a.statusBar.SetState(status.StateReady)
	a.statusBar.SetMessage(message)
}

func (a *App) setError(err error) {
	a.err = err
	a.statusBar.SetState(status.StateError)
	a.statusBar.SetMessage(err.Error())
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.panel {
	case messages.PanelHelp:
		body = a.styles.Panel.Width(max(a.width-2, 10)).Render(a.viewHelp())
	case messages.PanelSettings:
		body = a.styles.FocusedPanel.Width(max(a.width-2, 10)).Render(a.settingsView.View())
	default:
		body = a.viewPanels()
	}

	return lipgloss.JoinVertical(lipgloss.Left, a.viewHeader(), body, a.statusBar.View())
}

// viewHeader summarises the loaded image and mask.
func (a *App) viewHeader() string {
	summary := "no image"
	if img := a.state.Image; img != nil {
		summary = fmt.Sprintf("%s %dx%d", a.state.ImageName, img.Width, img.Height)
		if a.state.Mask != nil {
			summary += " + mask"
		}
	}
	return a.styles.Title.Render("annotate") + "  " + a.styles.Muted.Render(summary)
}

// viewPanels renders history and files side by side.
func (a *App) viewPanels() string {
	historyStyle, filesStyle := a.styles.Panel, a.styles.Panel
	if a.panel == messages.PanelFiles {
		filesStyle = a.styles.FocusedPanel
	} else {
		historyStyle = a.styles.FocusedPanel
	}

	half := max(a.width/2-2, 10)
	return lipgloss.JoinHorizontal(lipgloss.Top,
		historyStyle.Width(half).Render(a.historyView.View()),
		filesStyle.Width(half).Render(a.filesView.View()),
	)
}

// viewHelp lists every keybinding.
func (a *App) viewHelp() string {
	lines := []string{a.styles.Subtitle.Render("Keys"), ""}
	for _, group := range a.keymap.FullHelp() {
		for _, b := range group {
			h := b.Help()
			lines = append(lines, fmt.Sprintf("  %-8s %s", h.Key, h.Desc))
		}
		lines = append(lines, "")
	}
	lines = append(lines, a.styles.Help.Render("[?/esc] close help"))
	return strings.Join(lines, "\n")
}

// Run starts the TUI application.
func (a *App) Run() error {
	defer a.Close()
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// Close stops observing the workspace. It is safe to call twice.
func (a *App) Close() {
	if a.unsubscribe != nil {
		a.unsubscribe()
		a.unsubscribe = nil
	}
}

// CurrentPanel returns the panel with keyboard focus.
func (a *App) CurrentPanel() messages.Panel {
	return a.panel
}

// StatusMessage returns the text shown in the status bar.
func (a *App) StatusMessage() string {
	return a.statusBar.Message()
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions and sizes the panels.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true

	// Header and status bar take a line each; panel borders two more.
	inner := max(height-4, 3)
	half := max(width/2-6, 10)
	a.historyView.SetSize(half, inner)
	a.filesView.SetSize(half, inner)
	a.settingsView.SetSize(width-6, inner)
	a.statusBar.SetWidth(width)
}
