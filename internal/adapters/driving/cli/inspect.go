package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/annotate-cli/internal/core/domain"
	"github.com/custodia-labs/annotate-cli/internal/core/ports/driving"
)

var (
	inspectUndo int
	inspectJump int
	inspectJSON bool
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <files...>",
	Short: "Load files and print the workspace and its history",
	Long: `Loads an image, an optional mask and annotation files in order, then
prints the resulting workspace state and action history.

Use --undo and --jump to look at earlier points in the history.

Examples:
  annotate inspect photo.png labels.txt roofs.geojson
  annotate inspect photo.png labels.txt --undo 1
  annotate inspect photo.png mask.png labels.txt --jump 0 --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().IntVar(&inspectUndo, "undo", 0, "undo this many steps after loading")
	inspectCmd.Flags().IntVar(&inspectJump, "jump", 0, "jump to this history index (-1 is the empty workspace)")
	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	if err := loadFiles(cmd.Context(), args); err != nil {
		return err
	}
	if err := navigate(workspaceService, inspectUndo, inspectJump, cmd.Flags().Changed("jump")); err != nil {
		return err
	}

	report := newInspectReport(workspaceService)
	if inspectJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal workspace: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}
	printInspectReport(cmd, report)
	return nil
}

// navigate applies --undo and --jump. A jump happens after the undos.
func navigate(ws driving.WorkspaceService, undo, jump int, jumpSet bool) error {
	if undo < 0 {
		return fmt.Errorf("%w: --undo must not be negative", domain.ErrInvalidInput)
	}
	for i := 0; i < undo && ws.Undo(); i++ {
	}
	if !jumpSet {
		return nil
	}
	if n := len(ws.History()); jump < -1 || jump >= n {
		return fmt.Errorf("%w: --jump %d outside [-1, %d]", domain.ErrInvalidInput, jump, n-1)
	}
	ws.JumpTo(jump)
	return nil
}

// inspectReport is the printable form of a workspace.
type inspectReport struct {
	Session     string            `json:"session"`
	Image       string            `json:"image,omitempty"`
	Width       int               `json:"width,omitempty"`
	Height      int               `json:"height,omitempty"`
	Mask        bool              `json:"mask"`
	Files       []inspectFile     `json:"files"`
	ClassColors map[string]string `json:"class_colors"`
	Cursor      int               `json:"cursor"`
	History     []inspectEntry    `json:"history"`
}

type inspectFile struct {
	Name        string   `json:"name"`
	Visible     bool     `json:"visible"`
	Color       string   `json:"color"`
	Annotations int      `json:"annotations"`
	Classes     []string `json:"classes"`
}

type inspectEntry struct {
	Index     int       `json:"index"`
	Label     string    `json:"label"`
	Kind      string    `json:"kind"`
	Timestamp time.Time `json:"timestamp"`
	Undone    bool      `json:"undone"`
}

func newInspectReport(ws driving.WorkspaceService) inspectReport {
	state := ws.State()
	r := inspectReport{
		Session:     ws.ID(),
		Image:       state.ImageName,
		Mask:        state.Mask != nil,
		Files:       make([]inspectFile, len(state.Files)),
		ClassColors: state.ClassColors,
		Cursor:      ws.Cursor(),
	}
	if state.Image != nil {
		r.Width, r.Height = state.Image.Width, state.Image.Height
	}
	for i, f := range state.Files {
		r.Files[i] = inspectFile{
			Name:        f.Name,
			Visible:     f.Visible,
			Color:       f.Color,
			Annotations: len(f.Annotations),
			Classes:     f.Classes(),
		}
	}
	for i, e := range ws.History() {
		r.History = append(r.History, inspectEntry{
			Index:     i,
			Label:     e.Label,
			Kind:      string(e.Action.Kind),
			Timestamp: e.Timestamp,
			Undone:    i > r.Cursor,
		})
	}
	return r
}

func printInspectReport(cmd *cobra.Command, r inspectReport) {
	cmd.Printf("Session: %s\n", r.Session)
	if r.Image == "" {
		cmd.Println("Image:   (none)")
	} else {
		cmd.Printf("Image:   %s (%dx%d)\n", r.Image, r.Width, r.Height)
	}
	if r.Mask {
		cmd.Println("Mask:    loaded")
	} else {
		cmd.Println("Mask:    (none)")
	}
	cmd.Println()

	cmd.Println("Annotation files:")
	if len(r.Files) == 0 {
		cmd.Println("  (none)")
	}
	for _, f := range r.Files {
		mark := "x"
		if !f.Visible {
			mark = " "
		}
		cmd.Printf("  [%s] %s  %s  %d annotations", mark, f.Name, f.Color, f.Annotations)
		if len(f.Classes) > 0 {
			cmd.Printf("  (%s)", strings.Join(f.Classes, ", "))
		}
		cmd.Println()
	}
	cmd.Println()

	if len(r.ClassColors) > 0 {
		cmd.Println("Class colours:")
		classes := make([]string, 0, len(r.ClassColors))
		for c := range r.ClassColors {
			classes = append(classes, c)
		}
		sort.Strings(classes)
		for _, c := range classes {
			cmd.Printf("  %s  %s\n", c, r.ClassColors[c])
		}
		cmd.Println()
	}

	cmd.Printf("History (%d entries, at %d):\n", len(r.History), r.Cursor)
	marker := "  "
	if r.Cursor == -1 {
		marker = "> "
	}
	cmd.Printf("%s  -1  (empty workspace)\n", marker)
	for _, e := range r.History {
		marker = "  "
		if e.Index == r.Cursor {
			marker = "> "
		}
		suffix := ""
		if e.Undone {
			suffix = "  (undone)"
		}
		cmd.Printf("%s%4d  %s%s\n", marker, e.Index, e.Label, suffix)
	}
}
