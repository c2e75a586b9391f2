// Command annotate inspects, renders and browses annotated images.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/annotate-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/annotate-cli/internal/adapters/driven/export"
	"github.com/custodia-labs/annotate-cli/internal/adapters/driven/imaging"
	"github.com/custodia-labs/annotate-cli/internal/adapters/driven/render/raster"
	"github.com/custodia-labs/annotate-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/annotate-cli/internal/adapters/driven/watch"
	"github.com/custodia-labs/annotate-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/annotate-cli/internal/core/domain"
	"github.com/custodia-labs/annotate-cli/internal/core/ports/driven"
	"github.com/custodia-labs/annotate-cli/internal/core/services"
	"github.com/custodia-labs/annotate-cli/internal/logger"
	"github.com/custodia-labs/annotate-cli/internal/parsers/geojson"
	"github.com/custodia-labs/annotate-cli/internal/parsers/yolo"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// configDirEnv overrides the configuration directory.
const configDirEnv = "ANNOTATE_CONFIG_DIR"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	configStore, err := file.NewConfigStore(os.Getenv(configDirEnv))
	if err != nil {
		return fmt.Errorf("failed to open config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)

	settings, err := settingsService.Get()
	if err != nil {
		logger.Warn("Using default settings: %v", err)
		defaults := domain.DefaultAppSettings()
		settings = &defaults
	}

	workspace := services.NewWorkspaceService(memory.NewActionLog(), nil, settings.Workspace)
	loader := services.NewLoaderService(
		workspace,
		imaging.New(),
		services.NewParserRegistry(yolo.New(), geojson.New()),
	)

	renderer := raster.New()
	watchOpts := watch.DefaultOptions()
	watchOpts.Debounce = settings.Watch.Debounce

	cli.SetVersion(version)
	cli.SetServices(&cli.Services{
		Workspace: workspace,
		Loader:    loader,
		Settings:  settingsService,
		Exporters: []driven.Exporter{
			export.NewPNG(renderer),
			export.NewPDF(renderer, "annotate "+version),
		},
		Watcher:    watch.New(watchOpts),
		ConfigPath: configStore.Path(),
	})

	return cli.Execute(ctx)
}
