package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/annotate-cli/internal/adapters/driving/tui"
)

var tuiWatch bool

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui [files...]",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for a workspace.

The TUI lists the action history next to the loaded annotation files.
Every change can be undone, redone or jumped to.

Controls:
  ↑/k, ↓/j - Navigate
  Tab      - Switch between history and files
  Enter    - Jump to the selected history entry
  u, r     - Undo / Redo
  Space    - Show or hide the selected file
  x        - Remove the selected file
  c        - Clear the workspace
  s        - Settings
  ?        - Toggle help
  q        - Quit`,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().BoolVarP(&tuiWatch, "watch", "w", false, "reload files when they change on disk")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) (err error) {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("TUI panic: %v", r)
		}
	}()

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("the TUI needs a terminal; use inspect or render instead")
	}
	if len(args) > 0 {
		if err := loadFiles(cmd.Context(), args); err != nil {
			return err
		}
	}

	ports := tui.NewPorts(workspaceService)
	ports.Loader = loaderService
	ports.Settings = settingsService

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())

	if tuiWatch && len(args) > 0 {
		if fileWatcher == nil {
			return errors.New("file watcher not configured")
		}
		changes, err := fileWatcher.Watch(cmd.Context(), args)
		if err != nil {
			return err
		}
		app.WithChanges(changes)
	}

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
