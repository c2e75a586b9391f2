package cli

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"sort"
	"strings"

	"github.com/custodia-labs/annotate-cli/internal/logger"
)

// loadFiles starts a fresh workspace and loads paths into it. Images are
// loaded first so masks and annotations have something to attach to;
// otherwise the command-line order is kept.
func loadFiles(ctx context.Context, paths []string) error {
	if workspaceService == nil || loaderService == nil {
		return errors.New("workspace not configured")
	}

	workspaceService.Reset()
	for _, path := range imagesFirst(paths) {
		res, err := loaderService.LoadPath(ctx, path, false)
		if err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		if res.Count > 0 {
			logger.Info("Loaded %s as %s (%d annotations)", res.Name, res.Format, res.Count)
		} else {
			logger.Debug("Loaded %s as %s", res.Name, res.Kind)
		}
	}
	return nil
}

// imagesFirst returns paths with image files moved to the front.
func imagesFirst(paths []string) []string {
	out := append([]string(nil), paths...)
	sort.SliceStable(out, func(i, j int) bool {
		return isImagePath(out[i]) && !isImagePath(out[j])
	})
	return out
}

// isImagePath reports whether the extension names an image type.
func isImagePath(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".tif", ".tiff", ".bmp", ".webp":
		return true
	}
	return strings.HasPrefix(mime.TypeByExtension(ext), "image/")
}
