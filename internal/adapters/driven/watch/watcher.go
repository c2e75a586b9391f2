// Package watch reports changes to annotation files on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/annotate-cli/internal/core/domain"
	"github.com/custodia-labs/annotate-cli/internal/core/ports/driven"
	"github.com/custodia-labs/annotate-cli/internal/logger"
)

// Ensure Watcher implements the interface.
var _ driven.FileWatcher = (*Watcher)(nil)

// Options configures a Watcher.
type Options struct {
	// Debounce is how long a path must stay quiet before its change is
	// delivered. Bursts of events within the window collapse into one.
	Debounce time.Duration

	// Interval and Burst bound how fast changes are delivered.
	Interval time.Duration
	Burst    int
}

// DefaultOptions returns options suited to editors saving files by hand.
func DefaultOptions() Options {
	return Options{
		Debounce: 200 * time.Millisecond,
		Interval: 100 * time.Millisecond,
		Burst:    4,
	}
}

// Watcher watches individual files using fsnotify.
//
// The parent directory of every file is watched rather than the file itself,
// so files replaced by rename (as most editors save) keep being reported.
type Watcher struct {
	opts Options
}

// New creates a watcher.
func New(opts Options) *Watcher {
	if opts.Burst < 1 {
		opts.Burst = 1
	}
	return &Watcher{opts: opts}
}

// Watch starts watching paths until ctx is cancelled.
func (w *Watcher) Watch(ctx context.Context, paths []string) (<-chan domain.FileChange, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: no paths to watch", domain.ErrInvalidInput)
	}

	targets := make(map[string]bool, len(paths))
	var dirs []string
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", p, err)
		}
		targets[abs] = true
		if dir := filepath.Dir(abs); !slices.Contains(dirs, dir) {
			dirs = append(dirs, dir)
		}
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	for _, dir := range dirs {
		if err := fw.Add(dir); err != nil {
			_ = fw.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
		logger.Debug("Watching directory %s", dir)
	}

	out := make(chan domain.FileChange)
	go w.run(ctx, fw, targets, out)
	return out, nil
}

// run collects events into a pending set and flushes it once the
// debounce window passes without new events.
func (w *Watcher) run(ctx context.Context, fw *fsnotify.Watcher, targets map[string]bool, out chan<- domain.FileChange) {
	defer close(out)
	defer fw.Close()

	limiter := rate.NewLimiter(rate.Every(w.opts.Interval), w.opts.Burst)
	pending := make(map[string]domain.FileChange)
	timer := time.NewTimer(w.opts.Debounce)
	timer.Stop()
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			path := filepath.Clean(event.Name)
			if !targets[path] {
				continue
			}
			op, relevant := changeOp(event.Op)
			if !relevant {
				continue
			}
			pending[path] = domain.FileChange{Path: path, Op: op, At: time.Now()}
			timer.Reset(w.opts.Debounce)
			timerC = timer.C

		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			logger.Warn("watch: %v", err)

		case <-timerC:
			timerC = nil
			if !w.flush(ctx, limiter, pending, out) {
				return
			}
			clear(pending)
		}
	}
}

// flush delivers pending changes in path order. It returns false when ctx
// ends first.
func (w *Watcher) flush(
	ctx context.Context,
	limiter *rate.Limiter,
	pending map[string]domain.FileChange,
	out chan<- domain.FileChange,
) bool {
	paths := make([]string, 0, len(pending))
	for p := range pending {
		paths = append(paths, p)
	}
	slices.Sort(paths)

	for _, p := range paths {
		if err := limiter.Wait(ctx); err != nil {
			return false
		}
		select {
		case out <- pending[p]:
			logger.Debug("Change %s: %s", pending[p].Op, p)
		case <-ctx.Done():
			return false
		}
	}
	return true
}

// changeOp maps fsnotify operations to change kinds. Permission changes
// are not relevant.
func changeOp(op fsnotify.Op) (domain.ChangeOp, bool) {
	switch {
	case op.Has(fsnotify.Create), op.Has(fsnotify.Write):
		return domain.ChangeWrite, true
	case op.Has(fsnotify.Remove), op.Has(fsnotify.Rename):
		return domain.ChangeRemove, true
	default:
		return "", false
	}
}
