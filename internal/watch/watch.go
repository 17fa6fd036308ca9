// Package watch feeds newly arriving media files to the batch runner.
//
// Filesystem events for eligible files are debounced: a file is handed off
// only after it has been quiet for the configured period, so partially copied
// files are not transcribed. Files are processed one at a time.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"subgen/internal/logging"
)

// DefaultQuietPeriod is how long a file must go without events before it is
// processed.
const DefaultQuietPeriod = 2 * time.Second

// Handler processes one settled file.
type Handler func(ctx context.Context, path string)

// Watcher monitors a single directory.
type Watcher struct {
	dir    string
	accept func(name string) bool
	handle Handler
	quiet  time.Duration
	logger *slog.Logger

	mu      sync.Mutex
	pending map[string]time.Time
}

// New creates a watcher for dir. accept filters file names; a nil accept
// admits every file.
func New(dir string, accept func(name string) bool, handle Handler, logger *slog.Logger) *Watcher {
	if accept == nil {
		accept = func(string) bool { return true }
	}
	return &Watcher{
		dir:     dir,
		accept:  accept,
		handle:  handle,
		quiet:   DefaultQuietPeriod,
		logger:  logging.NewComponentLogger(logger, "watch"),
		pending: make(map[string]time.Time),
	}
}

// SetQuietPeriod overrides DefaultQuietPeriod.
func (w *Watcher) SetQuietPeriod(d time.Duration) {
	if d > 0 {
		w.quiet = d
	}
}

// Run blocks until ctx is cancelled or the underlying watcher fails.
func (w *Watcher) Run(ctx context.Context) error {
	if w.handle == nil {
		return errors.New("watch handler required")
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()
	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	w.logger.Info("watching for new files",
		logging.String(logging.FieldEventType, "watch_start"),
		logging.String("dir", w.dir),
		logging.Duration("quiet_period", w.quiet),
	)

	tick := w.quiet / 4
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watch stopped", logging.String(logging.FieldEventType, "watch_stop"))
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return errors.New("watcher event channel closed")
			}
			w.observe(event)
		case err, ok := <-fsw.Errors:
			if !ok {
				return errors.New("watcher error channel closed")
			}
			logging.WarnWithContext(w.logger, "watcher error", "watch_error",
				logging.Error(err),
				logging.String(logging.FieldImpact, "some file events may be missed"),
			)
		case now := <-ticker.C:
			for _, path := range w.settled(now) {
				if ctx.Err() != nil {
					return nil
				}
				w.handle(ctx, path)
			}
		}
	}
}

func (w *Watcher) observe(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
			w.mu.Lock()
			delete(w.pending, event.Name)
			w.mu.Unlock()
		}
		return
	}
	if !w.accept(filepath.Base(event.Name)) {
		return
	}
	w.mu.Lock()
	w.pending[event.Name] = time.Now()
	w.mu.Unlock()
}

// settled removes and returns pending paths quiet since before now-quiet, in
// lexicographic order. Paths that are no longer regular files are dropped.
func (w *Watcher) settled(now time.Time) []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	var ready []string
	for path, last := range w.pending {
		if now.Sub(last) < w.quiet {
			continue
		}
		delete(w.pending, path)
		if info, err := os.Stat(path); err != nil || !info.Mode().IsRegular() {
			continue
		}
		ready = append(ready, path)
	}
	sort.Strings(ready)
	return ready
}
