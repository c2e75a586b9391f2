package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/annotate-cli/internal/core/domain"
	"github.com/custodia-labs/annotate-cli/internal/core/ports/driving"
)

// EmptyInput is the input schema for tools without arguments.
type EmptyInput struct{}

// StateOutput describes the live workspace.
type StateOutput struct {
	Session       string            `json:"session"`
	Image         string            `json:"image,omitempty"`
	Width         int               `json:"width,omitempty"`
	Height        int               `json:"height,omitempty"`
	HasMask       bool              `json:"has_mask"`
	Files         []FileOutput      `json:"files"`
	ClassColors   map[string]string `json:"class_colors"`
	Cursor        int               `json:"cursor"`
	HistoryLength int               `json:"history_length"`
	CanUndo       bool              `json:"can_undo"`
	CanRedo       bool              `json:"can_redo"`
}

// FileOutput describes one annotation file.
type FileOutput struct {
	Name        string   `json:"name"`
	Visible     bool     `json:"visible"`
	Color       string   `json:"color"`
	Annotations int      `json:"annotations"`
	Classes     []string `json:"classes"`
}

// HistoryOutput lists the action log.
type HistoryOutput struct {
	Entries []EntryOutput `json:"entries"`
	Cursor  int           `json:"cursor"`
}

// EntryOutput is one history entry.
type EntryOutput struct {
	Index     int    `json:"index"`
	Kind      string `json:"kind"`
	Label     string `json:"label"`
	Timestamp string `json:"timestamp"`
	Active    bool   `json:"active"`
}

// NavigationOutput reports the outcome of undo, redo and jump.
type NavigationOutput struct {
	Changed bool   `json:"changed"`
	Cursor  int    `json:"cursor"`
	Label   string `json:"label,omitempty"`
}

// JumpInput is the input schema for the jump tool.
type JumpInput struct {
	Index int `json:"index" jsonschema:"history index to move to; -1 is the empty workspace"`
}

// ReorderInput is the input schema for the reorder_history tool.
type ReorderInput struct {
	Order []int `json:"order" jsonschema:"current history indices in their new order; indices left out are dropped"`
}

// FileInput names an annotation file.
type FileInput struct {
	Name string `json:"name" jsonschema:"annotation file name as shown by workspace_state"`
}

// FileChangeOutput reports a change to an annotation file.
type FileChangeOutput struct {
	Name    string `json:"name"`
	Changed bool   `json:"changed"`
	Visible bool   `json:"visible,omitempty"`
}

// ClearOutput reports a workspace clear.
type ClearOutput struct {
	Cursor int `json:"cursor"`
}

// ClassColorInput is the input schema for the class_color tool.
type ClassColorInput struct {
	Class string `json:"class" jsonschema:"class label"`
	Color string `json:"color,omitempty" jsonschema:"new colour such as hsl(120, 70%, 50%) or #00ff00; omit to read"`
}

// ClassColorOutput is a class and its colour.
type ClassColorOutput struct {
	Class   string `json:"class"`
	Color   string `json:"color"`
	Changed bool   `json:"changed"`
}

// LoadInput is the input schema for the load_file tool.
type LoadInput struct {
	Path    string `json:"path" jsonschema:"path of an image, mask or annotation file"`
	Replace bool   `json:"replace,omitempty" jsonschema:"replace an annotation file with the same name"`
}

// LoadOutput reports what a file was loaded as.
type LoadOutput struct {
	Name   string `json:"name"`
	Kind   string `json:"kind"`
	Format string `json:"format,omitempty"`
	Count  int    `json:"count,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "workspace_state",
		Description: "Describe the loaded image, mask, annotation files and class colours",
	}, s.handleState)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "history",
		Description: "List the action history and the active entry",
	}, s.handleHistory)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "undo",
		Description: "Step back one history entry",
	}, s.handleUndo)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "redo",
		Description: "Step forward one history entry",
	}, s.handleRedo)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "jump",
		Description: "Move to any history entry",
	}, s.handleJump)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "reorder_history",
		Description: "Reorder or drop history entries and replay the result",
	}, s.handleReorder)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "toggle_file",
		Description: "Show or hide an annotation file",
	}, s.handleToggleFile)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "remove_file",
		Description: "Remove an annotation file from the workspace",
	}, s.handleRemoveFile)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "clear",
		Description: "Clear the whole workspace; undo restores it",
	}, s.handleClear)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "class_color",
		Description: "Read or override the colour of a class",
	}, s.handleClassColor)

	if s.ports.Loader != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "load_file",
			Description: "Load an image, mask, YOLO or GeoJSON file from disk",
		}, s.handleLoad)
	}
}

func (s *Server) handleState(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ EmptyInput,
) (*mcp.CallToolResult, StateOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return nil, stateOutput(s.ports.Workspace), nil
}

func (s *Server) handleHistory(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ EmptyInput,
) (*mcp.CallToolResult, HistoryOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return nil, historyOutput(s.ports.Workspace), nil
}

func (s *Server) handleUndo(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ EmptyInput,
) (*mcp.CallToolResult, NavigationOutput, error) {
	return s.navigate(func(ws driving.WorkspaceService) bool { return ws.Undo() })
}

func (s *Server) handleRedo(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ EmptyInput,
) (*mcp.CallToolResult, NavigationOutput, error) {
	return s.navigate(func(ws driving.WorkspaceService) bool { return ws.Redo() })
}

func (s *Server) handleJump(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input JumpInput,
) (*mcp.CallToolResult, NavigationOutput, error) {
	s.mu.Lock()
	n := len(s.ports.Workspace.History())
	s.mu.Unlock()
	if input.Index < -1 || input.Index >= n {
		return nil, NavigationOutput{}, fmt.Errorf("%w: index %d outside [-1, %d]", domain.ErrInvalidInput, input.Index, n-1)
	}
	return s.navigate(func(ws driving.WorkspaceService) bool { return ws.JumpTo(input.Index) })
}

func (s *Server) handleReorder(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ReorderInput,
) (*mcp.CallToolResult, HistoryOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ws := s.ports.Workspace
	history := ws.History()
	seen := make(map[int]bool, len(input.Order))
	entries := make([]domain.HistoryEntry, 0, len(input.Order))
	for _, i := range input.Order {
		if i < 0 || i >= len(history) {
			return nil, HistoryOutput{}, fmt.Errorf("%w: index %d outside [0, %d]", domain.ErrInvalidInput, i, len(history)-1)
		}
		if seen[i] {
			return nil, HistoryOutput{}, fmt.Errorf("%w: index %d repeated", domain.ErrInvalidInput, i)
		}
		seen[i] = true
		entries = append(entries, history[i])
	}

	ws.ReorderHistory(entries)
	return nil, historyOutput(ws), nil
}

func (s *Server) navigate(move func(driving.WorkspaceService) bool) (*mcp.CallToolResult, NavigationOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ws := s.ports.Workspace
	out := NavigationOutput{Changed: move(ws), Cursor: ws.Cursor()}
	if out.Cursor >= 0 {
		out.Label = ws.History()[out.Cursor].Label
	}
	return nil, out, nil
}

func (s *Server) handleToggleFile(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input FileInput,
) (*mcp.CallToolResult, FileChangeOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ws := s.ports.Workspace
	if !ws.ToggleAnnotationFile(input.Name) {
		return nil, FileChangeOutput{}, fmt.Errorf("%w: annotation file %q", domain.ErrNotFound, input.Name)
	}
	state := ws.State()
	return nil, FileChangeOutput{
		Name:    input.Name,
		Changed: true,
		Visible: state.Files[state.FileIndex(input.Name)].Visible,
	}, nil
}

func (s *Server) handleRemoveFile(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input FileInput,
) (*mcp.CallToolResult, FileChangeOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ports.Workspace.RemoveAnnotationFile(input.Name) {
		return nil, FileChangeOutput{}, fmt.Errorf("%w: annotation file %q", domain.ErrNotFound, input.Name)
	}
	return nil, FileChangeOutput{Name: input.Name, Changed: true}, nil
}

func (s *Server) handleClear(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ EmptyInput,
) (*mcp.CallToolResult, ClearOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ports.Workspace.ClearAll()
	return nil, ClearOutput{Cursor: s.ports.Workspace.Cursor()}, nil
}

func (s *Server) handleClassColor(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ClassColorInput,
) (*mcp.CallToolResult, ClassColorOutput, error) {
	if input.Class == "" {
		return nil, ClassColorOutput{}, fmt.Errorf("%w: class is required", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ws := s.ports.Workspace
	out := ClassColorOutput{Class: input.Class}
	if input.Color != "" {
		out.Changed = ws.SetClassColor(input.Class, input.Color)
	}
	out.Color = ws.ClassColor(input.Class)
	return nil, out, nil
}

func (s *Server) handleLoad(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input LoadInput,
) (*mcp.CallToolResult, LoadOutput, error) {
	if input.Path == "" {
		return nil, LoadOutput{}, fmt.Errorf("%w: path is required", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.ports.Loader.LoadPath(ctx, input.Path, input.Replace)
	if err != nil {
		return nil, LoadOutput{}, err
	}
	return nil, LoadOutput{
		Name:   res.Name,
		Kind:   string(res.Kind),
		Format: res.Format,
		Count:  res.Count,
	}, nil
}

// stateOutput summarises the workspace. Callers hold s.mu.
func stateOutput(ws driving.WorkspaceService) StateOutput {
	state := ws.State()
	out := StateOutput{
		Session:       ws.ID(),
		Image:         state.ImageName,
		HasMask:       state.Mask != nil,
		Files:         make([]FileOutput, len(state.Files)),
		ClassColors:   state.ClassColors,
		Cursor:        ws.Cursor(),
		HistoryLength: len(ws.History()),
		CanUndo:       ws.CanUndo(),
		CanRedo:       ws.CanRedo(),
	}
	if state.Image != nil {
		out.Width, out.Height = state.Image.Width, state.Image.Height
	}
	for i, f := range state.Files {
		out.Files[i] = FileOutput{
			Name:        f.Name,
			Visible:     f.Visible,
			Color:       f.Color,
			Annotations: len(f.Annotations),
			Classes:     f.Classes(),
		}
	}
	return out
}

// historyOutput lists the log. Callers hold s.mu.
func historyOutput(ws driving.WorkspaceService) HistoryOutput {
	entries := ws.History()
	cursor := ws.Cursor()
	out := HistoryOutput{Entries: make([]EntryOutput, len(entries)), Cursor: cursor}
	for i, e := range entries {
		out.Entries[i] = EntryOutput{
			Index:     i,
			Kind:      string(e.Action.Kind),
			Label:     e.Label,
			Timestamp: e.Timestamp.Format(time.RFC3339Nano),
			Active:    i <= cursor,
		}
	}
	return out
}
