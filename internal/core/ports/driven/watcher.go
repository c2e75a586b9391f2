package driven

import (
	"context"

	"github.com/custodia-labs/annotate-cli/internal/core/domain"
)

// FileWatcher reports changes to files on disk.
type FileWatcher interface {
	// Watch starts watching paths. The channel is closed when ctx is
	// cancelled or the watcher fails.
	Watch(ctx context.Context, paths []string) (<-chan domain.FileChange, error)
}
