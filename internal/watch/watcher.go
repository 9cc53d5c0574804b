// Package watch re-runs the formatter when source files change.
package watch

import (
	"context"
	iofs "io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

const (
	debounceDuration = 100 * time.Millisecond
	// quietPeriod suppresses the events caused by formatting a file in place.
	quietPeriod = time.Second
)

// Watcher monitors directory trees and reports batches of changed source files.
type Watcher struct {
	roots   []string
	accept  func(path string) bool
	skipDir func(path string) bool
	logger  *slog.Logger
	Ready   chan struct{}

	newWatcher func() (*fsnotify.Watcher, error)
	recent     map[string]time.Time
}

// NewWatcher creates a Watcher over roots. accept decides which changed files are
// reported; skipDir prunes directories that must not be watched.
func NewWatcher(logger *slog.Logger, roots []string, accept, skipDir func(path string) bool) *Watcher {
	return &Watcher{
		roots:      roots,
		accept:     accept,
		skipDir:    skipDir,
		logger:     logger.With("component", "watcher"),
		Ready:      make(chan struct{}),
		newWatcher: fsnotify.NewWatcher,
		recent:     make(map[string]time.Time),
	}
}

// Watch blocks until ctx is cancelled, calling callback with the sorted set of
// files changed during each debounce window. Files passed to callback are not
// reported again for a short quiet period, so in-place formatting does not loop.
func (w *Watcher) Watch(ctx context.Context, callback func(ctx context.Context, files []string)) error {
	watcher, err := w.newWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	for _, root := range w.roots {
		if err := w.addRecursive(watcher, root); err != nil {
			return err
		}
	}

	w.logger.Info("Watching for changes", "roots", strings.Join(w.roots, ", "))
	if w.Ready != nil {
		close(w.Ready)
	}

	pending := make(map[string]struct{})
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return ctx.Err()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("Watcher error", "error", err)
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			path := w.handleEvent(watcher, event)
			if path == "" {
				continue
			}
			pending[path] = struct{}{}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(debounceDuration)
			fire = timer.C
		case <-fire:
			fire = nil
			files := make([]string, 0, len(pending))
			for p := range pending {
				files = append(files, p)
			}
			clear(pending)
			slices.Sort(files)

			callback(ctx, files)

			now := time.Now()
			for _, f := range files {
				w.recent[f] = now
			}
		}
	}
}

// handleEvent processes a single fsnotify event. New directories are added to the
// watcher. It returns the path of a relevant changed file, or "".
func (w *Watcher) handleEvent(watcher *fsnotify.Watcher, event fsnotify.Event) string {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return ""
	}

	path := filepath.Clean(event.Name)
	if event.Has(fsnotify.Create) {
		info, err := os.Stat(path)
		if err == nil && info.IsDir() {
			if err := w.addRecursive(watcher, path); err != nil {
				w.logger.Error("Failed to watch new directory", "path", path, "error", err)
			}
			return ""
		}
	}

	if !w.accept(path) {
		return ""
	}
	if at, ok := w.recent[path]; ok {
		if time.Since(at) < quietPeriod {
			w.logger.Debug("ignoring change made by the formatter", "path", path)
			return ""
		}
		delete(w.recent, path)
	}
	return path
}

// addRecursive adds the given path and all its subdirectories to the watcher.
// Hidden and skipped directories are not descended.
func (w *Watcher) addRecursive(watcher *fsnotify.Watcher, root string) error {
	walkRoot := root
	// WalkDir does not follow a symlinked root; a trailing separator makes Lstat resolve it.
	if info, err := os.Lstat(root); err == nil && info.Mode()&os.ModeSymlink != 0 {
		walkRoot = root + string(filepath.Separator)
	}

	return filepath.WalkDir(walkRoot, func(path string, d iofs.DirEntry, err error) error {
		path = filepath.Clean(path)
		if err != nil {
			if path == root {
				return err
			}
			w.logger.Warn("not watching unreadable path", "path", path, "error", err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && (strings.HasPrefix(d.Name(), ".") || w.skipDir(path)) {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			if path == root {
				return err
			}
			w.logger.Warn("not watching directory", "path", path, "error", err)
			return filepath.SkipDir
		}
		return nil
	})
}
