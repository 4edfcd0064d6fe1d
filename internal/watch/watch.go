// Package watch monitors log files and re-runs sanitization when they
// change.
//
// It implements a debounced fsnotify loop with rotation handling, so a
// file that is removed and recreated (logrotate style) keeps being
// sanitized without restarting the watcher.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces bursts of write events into a single
// sanitization run.
const DefaultDebounce = 500 * time.Millisecond

// backupSuffix matches the timestamped backups the sanitize command writes.
var backupSuffix = regexp.MustCompile(`\.\d{8}-\d{6}\.bak$`)

// IsDerivedOutput reports whether path is a file this tool itself produces.
// Watching those would make every run trigger another run.
func IsDerivedOutput(path string) bool {
	return strings.HasSuffix(path, ".sanitized") ||
		strings.HasSuffix(path, ".mappings.json") ||
		backupSuffix.MatchString(path)
}

// Options configures the watcher behavior.
type Options struct {
	Paths        []string                                     // Files to watch
	Debounce     time.Duration                                // Quiet period before re-running
	FollowRotate bool                                         // Whether to follow through file rotations
	OnChange     func(ctx context.Context, path string) error // Called once per settled change
}

// Watcher monitors files and invokes OnChange after writes settle.
type Watcher struct {
	opts    Options
	logger  *slog.Logger
	watcher *fsnotify.Watcher
	pending map[string]time.Time
}

// New creates a Watcher with the given options.
func New(opts Options, logger *slog.Logger) *Watcher {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	return &Watcher{
		opts:    opts,
		logger:  logger,
		pending: make(map[string]time.Time),
	}
}

// Run starts the watch loop. It blocks until context is cancelled or an
// unrecoverable error occurs.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.setupWatcher(); err != nil {
		return fmt.Errorf("failed to setup watcher: %w", err)
	}
	defer w.watcher.Close()

	return w.loop(ctx)
}

// setupWatcher initializes the fsnotify watcher over all requested paths.
func (w *Watcher) setupWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w.watcher = watcher

	for _, path := range w.opts.Paths {
		if IsDerivedOutput(path) {
			return fmt.Errorf("refusing to watch derived output file %s", path)
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
	}
	return nil
}

// loop consumes events, debounces them, and dispatches settled changes.
func (w *Watcher) loop(ctx context.Context) error {
	ticker := time.NewTicker(w.opts.Debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher closed unexpectedly")
			}
			if err := w.handleEvent(ctx, event); err != nil {
				return err
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher error channel closed")
			}
			return fmt.Errorf("watcher error: %w", err)

		case now := <-ticker.C:
			if err := w.flush(ctx, now); err != nil {
				return err
			}
		}
	}
}

// handleEvent records a pending change or deals with rotation.
func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) error {
	if IsDerivedOutput(event.Name) {
		return nil
	}

	switch {
	case event.Op&fsnotify.Write == fsnotify.Write,
		event.Op&fsnotify.Create == fsnotify.Create:
		w.pending[event.Name] = time.Now()
		return nil

	case event.Op&fsnotify.Remove == fsnotify.Remove,
		event.Op&fsnotify.Rename == fsnotify.Rename:
		return w.handleRotation(ctx, event.Name)

	case event.Op&fsnotify.Chmod == fsnotify.Chmod:
		// Ignore chmod events
		return nil
	}
	return nil
}

// flush dispatches every pending path whose last event is older than the
// debounce window.
func (w *Watcher) flush(ctx context.Context, now time.Time) error {
	for path, last := range w.pending {
		if now.Sub(last) < w.opts.Debounce {
			continue
		}
		delete(w.pending, path)

		w.logger.Info("file changed, re-sanitizing", "path", path)
		if err := w.opts.OnChange(ctx, path); err != nil {
			w.logger.Error("sanitization failed", "path", path, "error", err)
		}
	}
	return nil
}

// handleRotation waits for a removed or renamed file to reappear and
// re-adds it to the watcher.
func (w *Watcher) handleRotation(ctx context.Context, path string) error {
	if !w.opts.FollowRotate {
		return fmt.Errorf("watched file %s was removed", path)
	}

	timeout := time.After(10 * time.Second)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-timeout:
			return fmt.Errorf("timeout waiting for %s to reappear", path)
		case <-ticker.C:
			if _, err := os.Stat(path); err != nil {
				continue
			}
			if err := w.watcher.Add(path); err != nil {
				return fmt.Errorf("failed to watch rotated file: %w", err)
			}
			w.logger.Info("file rotated, following new file", "path", path)
			w.pending[path] = time.Now()
			return nil
		}
	}
}
