package cli

import (
	"errors"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/annotate-cli/internal/core/domain"
	"github.com/custodia-labs/annotate-cli/internal/core/ports/driving"
	"github.com/custodia-labs/annotate-cli/internal/logger"
)

var watchCmd = &cobra.Command{
	Use:   "watch <files...>",
	Short: "Re-render the workspace whenever its files change",
	Long: `Loads files, renders a snapshot and keeps it up to date as the files
change on disk. An edited annotation file replaces its previous version;
a deleted one is removed. Changing the image reloads everything.

Press Ctrl+C to stop.

Examples:
  annotate watch photo.png labels.txt -o preview.png`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func init() {
	addRenderFlags(watchCmd)
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if fileWatcher == nil {
		return errors.New("file watcher not configured")
	}
	if len(exporters) == 0 {
		return errors.New("exporters not configured")
	}
	ctx := cmd.Context()

	if err := loadFiles(ctx, args); err != nil {
		return err
	}
	if err := applyRenderOptions(cmd); err != nil {
		return err
	}

	dirty := true
	unsubscribe := workspaceService.Subscribe(driving.ObserverFunc(func(domain.WorkspaceState) {
		dirty = true
	}))
	defer unsubscribe()

	width, height := renderSize(cmd)
	flush := func() error {
		if !dirty {
			return nil
		}
		dirty = false
		if err := writeSnapshot(ctx, renderOutput, workspaceService.State(), width, height); err != nil {
			return err
		}
		cmd.Printf("Rendered %s (step %d of %d, %d annotation files)\n",
			renderOutput, workspaceService.Cursor()+1, len(workspaceService.History()), len(workspaceService.State().Files))
		return nil
	}
	if err := flush(); err != nil {
		return err
	}

	changes, err := fileWatcher.Watch(ctx, args)
	if err != nil {
		return err
	}
	cmd.Printf("Watching %d files, press Ctrl+C to stop\n", len(args))

	for {
		select {
		case <-ctx.Done():
			return nil
		case change, ok := <-changes:
			if !ok {
				return nil
			}
			applyChange(cmd, args, change)
			if err := flush(); err != nil {
				logger.Warn("Failed to render: %v", err)
			}
		}
	}
}

// applyChange updates the workspace for one file change. Failures are
// logged: an editor may be halfway through writing the file.
func applyChange(cmd *cobra.Command, args []string, change domain.FileChange) {
	ctx := cmd.Context()
	name := filepath.Base(change.Path)

	switch {
	case change.Op == domain.ChangeRemove && isImagePath(change.Path):
		logger.Warn("Image %s was removed, keeping the last snapshot", name)
	case change.Op == domain.ChangeRemove:
		if workspaceService.RemoveAnnotationFile(name) {
			logger.Info("Removed %s", name)
		}
	case isImagePath(change.Path):
		if err := loadFiles(ctx, args); err != nil {
			logger.Warn("Failed to reload: %v", err)
			return
		}
		if err := applyRenderOptions(cmd); err != nil {
			logger.Warn("Failed to apply options: %v", err)
		}
		logger.Info("Reloaded workspace after %s changed", name)
	default:
		res, err := loaderService.LoadPath(ctx, change.Path, true)
		if err != nil {
			logger.Warn("Failed to reload %s: %v", name, err)
			return
		}
		logger.Info("Reloaded %s (%d annotations)", res.Name, res.Count)
	}
}
