// Package cli implements the annotate command line.
// It is a driving adapter: every command talks to the workspace through
// driving ports set by SetServices.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/annotate-cli/internal/core/ports/driven"
	"github.com/custodia-labs/annotate-cli/internal/core/ports/driving"
	"github.com/custodia-labs/annotate-cli/internal/logger"
)

var (
	version    = "dev"
	verbose    bool
	configPath string

	workspaceService driving.WorkspaceService
	loaderService    driving.LoaderService
	settingsService  driving.SettingsService
	exporters        []driven.Exporter
	fileWatcher      driven.FileWatcher
)

var rootCmd = &cobra.Command{
	Use:   "annotate",
	Short: "Inspect and render annotated images",
	Long: `annotate loads an image, an optional label mask and any number of
YOLO or GeoJSON annotation files into a workspace that records every change.

The workspace history can be inspected, navigated with undo, redo and jump,
rendered to PNG or PDF, browsed interactively or served to assistants over MCP.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
		if configPath != "" {
			logger.Debug("Loaded settings from %s", configPath)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug logging to stderr")
}

// Services holds the ports the commands run against.
type Services struct {
	Workspace driving.WorkspaceService
	Loader    driving.LoaderService
	Settings  driving.SettingsService
	Exporters []driven.Exporter
	Watcher   driven.FileWatcher

	// ConfigPath is the settings file, reported in debug output.
	ConfigPath string
}

// SetServices wires the commands to their services.
func SetServices(s *Services) {
	workspaceService = s.Workspace
	loaderService = s.Loader
	settingsService = s.Settings
	exporters = s.Exporters
	fileWatcher = s.Watcher
	configPath = s.ConfigPath
}

// SetVersion sets the version printed by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
