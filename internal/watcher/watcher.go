// Package watcher monitors live feed files for appends using OS-level
// notifications.
package watcher

import (
	"context"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Event is a file change detected on a watched feed.
type Event struct {
	Path string
	Op   fsnotify.Op
}

// Watcher resolves feed glob patterns at startup and forwards change events
// for the matched files.
type Watcher struct {
	fsw    *fsnotify.Watcher
	Events chan Event
	paths  []string
	log    *zap.Logger
}

// New creates a Watcher for the given glob patterns. Recursive patterns
// like "feeds/**/*.jsonl" are supported.
func New(patterns []string, logger *zap.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:    fsw,
		Events: make(chan Event, 256),
		log:    logger,
	}

	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			logger.Warn("failed to expand feed pattern", zap.String("pattern", pattern), zap.Error(err))
			continue
		}
		for _, m := range matches {
			abs, _ := filepath.Abs(m)
			if err := fsw.Add(abs); err != nil {
				logger.Warn("cannot watch feed", zap.String("path", abs), zap.Error(err))
				continue
			}
			w.paths = append(w.paths, abs)
		}
	}

	return w, nil
}

// Start forwards file events until the context is cancelled.
func (w *Watcher) Start(ctx context.Context) {
	defer w.fsw.Close()
	defer close(w.Events)

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			switch {
			case ev.Op&fsnotify.Write != 0,
				ev.Op&fsnotify.Create != 0,
				ev.Op&fsnotify.Remove != 0,
				ev.Op&fsnotify.Rename != 0:
				w.Events <- Event{Path: ev.Name, Op: ev.Op}
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("watcher error", zap.Error(err))
		}
	}
}

// Paths returns the feed files currently being watched.
func (w *Watcher) Paths() []string {
	return w.paths
}

// FileCount returns how many feed files are watched.
func (w *Watcher) FileCount() int {
	return len(w.paths)
}

// ReWatch re-adds a path after rotation recreated it.
func (w *Watcher) ReWatch(path string) error {
	return w.fsw.Add(path)
}
