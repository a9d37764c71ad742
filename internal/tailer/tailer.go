// Package tailer reads newly appended lines from watched feed files and
// emits them for ingestion into the live buffer.
package tailer

import (
	"bufio"
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/simons-plugins/logs-over-reflector/internal/model"
	"github.com/simons-plugins/logs-over-reflector/internal/watcher"
)

// Tailer follows feed files from their checkpointed offsets and emits
// complete appended lines.
type Tailer struct {
	mu     sync.Mutex
	files  map[string]*trackedFeed
	out    chan model.RawLine
	ckpt   *Checkpoint
	events <-chan watcher.Event
	watch  *watcher.Watcher
	log    *zap.Logger
}

type trackedFeed struct {
	file   *os.File
	offset int64
}

// New creates a Tailer fed by the given Watcher's events.
func New(w *watcher.Watcher, ckpt *Checkpoint, logger *zap.Logger) *Tailer {
	return &Tailer{
		files:  make(map[string]*trackedFeed),
		out:    make(chan model.RawLine, 512),
		ckpt:   ckpt,
		events: w.Events,
		watch:  w,
		log:    logger,
	}
}

// Lines returns the channel carrying appended feed lines.
func (t *Tailer) Lines() <-chan model.RawLine {
	return t.out
}

// Start processes watcher events until the context is cancelled.
func (t *Tailer) Start(ctx context.Context) {
	defer close(t.out)

	for _, p := range t.watch.Paths() {
		t.openFeed(p)
	}

	saveTicker := time.NewTicker(5 * time.Second)
	defer saveTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			t.saveCheckpoint()
			t.closeAll()
			return

		case ev, ok := <-t.events:
			if !ok {
				return
			}
			t.handleEvent(ev)

		case <-saveTicker.C:
			t.saveCheckpoint()
		}
	}
}

func (t *Tailer) handleEvent(ev watcher.Event) {
	switch {
	case ev.Op&fsnotify.Write != 0:
		t.readAppended(ev.Path)

	case ev.Op&fsnotify.Create != 0:
		// Feed reappeared, possibly after rotation.
		t.openFeed(ev.Path)
		t.readAppended(ev.Path)

	case ev.Op&fsnotify.Remove != 0, ev.Op&fsnotify.Rename != 0:
		t.closeFeed(ev.Path)
		go t.reconnect(ev.Path)
	}
}

// openFeed opens a feed for tailing, resuming from the checkpointed offset
// or the current end of file for feeds never seen before.
func (t *Tailer) openFeed(path string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.files[path]; exists {
		return
	}

	f, err := os.Open(path)
	if err != nil {
		t.log.Warn("cannot open feed", zap.String("path", path), zap.Error(err))
		return
	}

	var offset int64
	if saved, ok := t.ckpt.Get(path); ok {
		offset = saved
	} else {
		offset, _ = f.Seek(0, io.SeekEnd)
	}
	f.Seek(offset, io.SeekStart)

	t.files[path] = &trackedFeed{file: f, offset: offset}
}

// readAppended reads from the last offset to EOF and emits complete lines.
func (t *Tailer) readAppended(path string) {
	t.mu.Lock()
	tf, ok := t.files[path]
	t.mu.Unlock()
	if !ok {
		return
	}

	scanner := bufio.NewScanner(tf.file)
	for scanner.Scan() {
		t.out <- model.RawLine{Text: scanner.Text(), Source: path}
	}
	if err := scanner.Err(); err != nil {
		t.log.Warn("feed read error", zap.String("path", path), zap.Error(err))
	}

	pos, _ := tf.file.Seek(0, io.SeekCurrent)
	tf.offset = pos
	t.ckpt.Set(path, pos)
}

func (t *Tailer) closeFeed(path string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if tf, ok := t.files[path]; ok {
		tf.file.Close()
		delete(t.files, path)
	}
}

// reconnect polls for a rotated feed to reappear, up to 5 retries.
func (t *Tailer) reconnect(path string) {
	for i := 0; i < 5; i++ {
		time.Sleep(1 * time.Second)
		if _, err := os.Stat(path); err == nil {
			t.log.Info("reconnected to rotated feed", zap.String("path", path))
			_ = t.watch.ReWatch(path)
			t.ckpt.Forget(path)
			t.openFeed(path)
			return
		}
	}
	t.log.Warn("gave up reconnecting to feed", zap.String("path", path))
}

func (t *Tailer) saveCheckpoint() {
	if err := t.ckpt.Save(); err != nil {
		t.log.Warn("checkpoint save failed", zap.Error(err))
	}
}

func (t *Tailer) closeAll() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for path, tf := range t.files {
		tf.file.Close()
		delete(t.files, path)
	}
}
