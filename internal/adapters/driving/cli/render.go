package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/annotate-cli/internal/adapters/driven/export"
	"github.com/custodia-labs/annotate-cli/internal/core/domain"
	"github.com/custodia-labs/annotate-cli/internal/logger"
)

var (
	renderOutput      string
	renderWidth       int
	renderHeight      int
	renderHide        []string
	renderClassColors []string
	renderLineWidth   float64
	renderNoLabels    bool
	renderColorMode   string
	renderMaskMode    string
	renderMaskOpacity float64
	renderUndo        int
	renderJump        int
)

var renderCmd = &cobra.Command{
	Use:   "render <files...>",
	Short: "Render the workspace to a PNG or PDF file",
	Long: `Loads files into a workspace and writes a snapshot of it.

The output format follows the extension of --output. Width and height
default to the configured render size; zero keeps the image's native size.

Examples:
  annotate render photo.png labels.txt -o out.png
  annotate render photo.png mask.png roofs.geojson -o out.pdf --width 1024
  annotate render photo.png a.txt b.txt -o out.png --hide b.txt --color-mode class`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRender,
}

func init() {
	addRenderFlags(renderCmd)
	renderCmd.Flags().IntVar(&renderUndo, "undo", 0, "undo this many steps before rendering")
	renderCmd.Flags().IntVar(&renderJump, "jump", 0, "render this history index (-1 is the empty workspace)")
	rootCmd.AddCommand(renderCmd)
}

// addRenderFlags registers the flags shared by render and watch.
func addRenderFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&renderOutput, "output", "o", "", "output file (.png or .pdf)")
	cmd.Flags().IntVar(&renderWidth, "width", 0, "output width in pixels")
	cmd.Flags().IntVar(&renderHeight, "height", 0, "output height in pixels")
	cmd.Flags().StringArrayVar(&renderHide, "hide", nil, "hide an annotation file by name (repeatable)")
	cmd.Flags().StringArrayVar(&renderClassColors, "class-color", nil, "override a class colour as class=colour (repeatable)")
	cmd.Flags().Float64Var(&renderLineWidth, "line-width", 0, "stroke width in pixels")
	cmd.Flags().BoolVar(&renderNoLabels, "no-labels", false, "do not draw class labels")
	cmd.Flags().StringVar(&renderColorMode, "color-mode", "", "colour strokes by file or class")
	cmd.Flags().StringVar(&renderMaskMode, "mask-mode", "", "draw the mask as overlay, outline or hidden")
	cmd.Flags().Float64Var(&renderMaskOpacity, "mask-opacity", 0, "mask overlay opacity between 0 and 1")
	_ = cmd.MarkFlagRequired("output")
}

func runRender(cmd *cobra.Command, args []string) error {
	if len(exporters) == 0 {
		return errors.New("exporters not configured")
	}
	if _, err := export.ForPath(renderOutput, exporters...); err != nil {
		return err
	}
	if err := loadFiles(cmd.Context(), args); err != nil {
		return err
	}
	if err := navigate(workspaceService, renderUndo, renderJump, cmd.Flags().Changed("jump")); err != nil {
		return err
	}
	if err := applyRenderOptions(cmd); err != nil {
		return err
	}

	width, height := renderSize(cmd)
	if err := writeSnapshot(cmd.Context(), renderOutput, workspaceService.State(), width, height); err != nil {
		return err
	}
	cmd.Printf("Rendered %s\n", renderOutput)
	return nil
}

// applyRenderOptions applies --hide, --class-color and the draw overrides
// to the loaded workspace.
func applyRenderOptions(cmd *cobra.Command) error {
	state := workspaceService.State()
	for _, name := range renderHide {
		if state.FileIndex(name) < 0 {
			return fmt.Errorf("%w: annotation file %q", domain.ErrNotFound, name)
		}
		workspaceService.SetAnnotationFileVisibility(name, false)
	}

	for _, pair := range renderClassColors {
		class, colour, ok := strings.Cut(pair, "=")
		if !ok || class == "" || colour == "" {
			return fmt.Errorf("%w: --class-color %q, want class=colour", domain.ErrInvalidInput, pair)
		}
		workspaceService.SetClassColor(class, colour)
	}

	flags := cmd.Flags()
	draw := workspaceService.DrawSettings()
	if flags.Changed("line-width") {
		draw.LineWidth = renderLineWidth
	}
	if flags.Changed("no-labels") {
		draw.ShowLabels = !renderNoLabels
	}
	if err := draw.Validate(); err != nil {
		return err
	}
	workspaceService.SetDrawSettings(draw)

	display := workspaceService.DisplaySettings()
	if flags.Changed("color-mode") {
		display.ColorMode = domain.ColorMode(renderColorMode)
	}
	if flags.Changed("mask-mode") {
		display.MaskMode = domain.MaskMode(renderMaskMode)
	}
	if flags.Changed("mask-opacity") {
		display.MaskOpacity = renderMaskOpacity
	}
	if err := display.Validate(); err != nil {
		return err
	}
	workspaceService.SetDisplaySettings(display)
	return nil
}

// renderSize returns the flag size, falling back to the configured one.
func renderSize(cmd *cobra.Command) (int, int) {
	width, height := renderWidth, renderHeight
	if settingsService == nil {
		return width, height
	}
	settings, err := settingsService.Get()
	if err != nil {
		logger.Warn("Using native size: %v", err)
		return width, height
	}
	if !cmd.Flags().Changed("width") {
		width = settings.Render.Width
	}
	if !cmd.Flags().Changed("height") {
		height = settings.Render.Height
	}
	return width, height
}

// writeSnapshot exports state to path. The file is written next to its
// destination and renamed into place, so readers never see a partial file.
func writeSnapshot(ctx context.Context, path string, state domain.WorkspaceState, width, height int) error {
	exporter, err := export.ForPath(path, exporters...)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".annotate-*"+filepath.Ext(path))
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := exporter.Export(ctx, tmp, state, width, height); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("export %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	logger.Debug("Wrote %s (%s)", path, exporter.Format())
	return nil
}
