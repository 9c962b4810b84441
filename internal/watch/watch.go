// Package watch rebuilds the recipe index when vault files change. Events
// are debounced so a burst of edits produces a single rebuild.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 500 * time.Millisecond

// Watch starts an fsnotify watcher on root and calls rebuild after changes
// to recipe files, debounced by the given interval. It runs until ctx is
// cancelled.
//
// skip filters basenames the index would ignore anyway (the artifact
// itself, non-recipe files); events for those never schedule a rebuild.
// New directories created at runtime are automatically added to the watch
// list.
func Watch(ctx context.Context, root string, debounce time.Duration, logger *slog.Logger, skip func(base string) bool, rebuild func(context.Context) error) error {
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	if skip == nil {
		skip = func(string) bool { return false }
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, root); err != nil {
		return err
	}

	logger.Info("watch: started",
		slog.String("root", root),
		slog.Duration("debounce", debounce))

	// rebuildTimer debounces bursts of events into one rebuild.
	var rebuildTimer *time.Timer
	var rebuildCh <-chan time.Time

	schedule := func() {
		if rebuildTimer == nil {
			rebuildTimer = time.NewTimer(debounce)
			rebuildCh = rebuildTimer.C
		} else {
			rebuildTimer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if rebuildTimer != nil {
				rebuildTimer.Stop()
			}
			logger.Info("watch: stopped")
			return nil

		case <-rebuildCh:
			if err := rebuild(ctx); err != nil {
				logger.Error("watch: rebuild failed", slog.String("error", err.Error()))
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			// New directories: add to the watcher and rebuild, since a
			// moved-in directory may already contain recipes.
			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, ev.Name); addErr != nil {
						logger.Warn("watch: add new dir failed",
							slog.String("path", ev.Name),
							slog.String("error", addErr.Error()))
					} else {
						logger.Debug("watch: watching new dir", slog.String("path", ev.Name))
					}
					schedule()
					continue
				}
			}

			// Only recipe files schedule a rebuild. This also keeps the
			// artifact write from re-triggering the watcher.
			base := filepath.Base(ev.Name)
			if !strings.HasSuffix(base, ".md") || skip(base) {
				continue
			}

			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
				logger.Debug("watch: change noticed",
					slog.String("path", ev.Name),
					slog.String("op", ev.Op.String()))
				schedule()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watch: error", slog.String("error", watchErr.Error()))
		}
	}
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
