package cli

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/annotate-cli/internal/adapters/driven/export"
	"github.com/custodia-labs/annotate-cli/internal/adapters/driven/imaging"
	"github.com/custodia-labs/annotate-cli/internal/adapters/driven/render/raster"
	"github.com/custodia-labs/annotate-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/annotate-cli/internal/adapters/driven/watch"
	"github.com/custodia-labs/annotate-cli/internal/core/domain"
	"github.com/custodia-labs/annotate-cli/internal/core/ports/driven"
	"github.com/custodia-labs/annotate-cli/internal/core/services"
	"github.com/custodia-labs/annotate-cli/internal/parsers/geojson"
	"github.com/custodia-labs/annotate-cli/internal/parsers/yolo"
)

const testYOLO = "0 0.5 0.5 0.5 0.5\n1 0.25 0.25 0.1 0.1\n"

const testGeoJSON = `{"type":"FeatureCollection","features":[
 {"type":"Feature","properties":{"class":"roof"},
  "geometry":{"type":"Polygon","coordinates":[[[0.1,0.1],[0.4,0.1],[0.4,0.4],[0.1,0.1]]]}}]}`

// testFiles are the paths written by setupTestServices.
type testFiles struct {
	Dir     string
	Image   string
	YOLO    string
	GeoJSON string
}

// setupTestServices wires every command to real in-memory services and
// writes a small workspace to a temp dir.
func setupTestServices(t *testing.T) (*services.WorkspaceService, testFiles) {
	t.Helper()

	ws := services.NewWorkspaceService(memory.NewActionLog(), nil, domain.DefaultSettings())
	loader := services.NewLoaderService(ws, imaging.New(), services.NewParserRegistry(yolo.New(), geojson.New()))
	renderer := raster.New()
	SetServices(&Services{
		Workspace: ws,
		Loader:    loader,
		Settings:  services.NewSettingsService(memory.NewConfigStore()),
		Exporters: []driven.Exporter{export.NewPNG(renderer), export.NewPDF(renderer, "annotate test")},
		Watcher:   watch.New(watch.Options{Debounce: 20 * time.Millisecond, Interval: 5 * time.Millisecond, Burst: 8}),
	})
	t.Cleanup(func() { SetServices(&Services{}) })

	dir := t.TempDir()
	files := testFiles{
		Dir:     dir,
		Image:   filepath.Join(dir, "photo.png"),
		YOLO:    filepath.Join(dir, "cars.txt"),
		GeoJSON: filepath.Join(dir, "roofs.geojson"),
	}
	writePNG(t, files.Image, 32, 16)
	require.NoError(t, os.WriteFile(files.YOLO, []byte(testYOLO), 0600))
	require.NoError(t, os.WriteFile(files.GeoJSON, []byte(testGeoJSON), 0600))
	return ws, files
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: uint8(x * 8), B: 40, A: 255})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
}

// syncBuffer is a bytes.Buffer safe for a command writing from another
// goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// executeCommand runs the root command with args and returns its output.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := &syncBuffer{}
	err := executeCommandContext(context.Background(), buf, args...)
	return buf.String(), err
}

// executeCommandContext runs the root command with ctx and leaves every
// flag at its default afterwards.
func executeCommandContext(ctx context.Context, out *syncBuffer, args ...string) error {
	forEachCommand(rootCmd, func(c *cobra.Command) { c.SetContext(ctx) })
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		resetFlags()
	}()
	return rootCmd.ExecuteContext(ctx)
}

func forEachCommand(cmd *cobra.Command, fn func(*cobra.Command)) {
	fn(cmd)
	for _, c := range cmd.Commands() {
		forEachCommand(c, fn)
	}
}

// resetFlags restores every flag, since cobra keeps parsed values between
// executions.
func resetFlags() {
	forEachCommand(rootCmd, func(c *cobra.Command) {
		reset := func(f *pflag.Flag) {
			if sv, ok := f.Value.(pflag.SliceValue); ok {
				_ = sv.Replace(nil)
			} else {
				_ = f.Value.Set(f.DefValue)
			}
			f.Changed = false
		}
		c.Flags().VisitAll(reset)
		c.PersistentFlags().VisitAll(reset)
	})
}
