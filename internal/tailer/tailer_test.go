package tailer

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/simons-plugins/logs-over-reflector/internal/watcher"
)

func TestTailAppendedLines(t *testing.T) {
	dir := t.TempDir()
	feedPath := filepath.Join(dir, "feed.jsonl")
	if err := os.WriteFile(feedPath, []byte(`{"source":"A","message":"old"}`+"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	w, err := watcher.New([]string{feedPath}, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}

	ckpt, err := NewCheckpoint(filepath.Join(dir, "state.json"))
	if err != nil {
		t.Fatal(err)
	}

	tail := New(w, ckpt, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())

	go w.Start(ctx)
	go tail.Start(ctx)

	// Let the tailer seek to the end of the pre-existing content.
	time.Sleep(300 * time.Millisecond)

	f, err := os.OpenFile(feedPath, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatal(err)
	}
	_, _ = f.WriteString(`{"source":"A","message":"new"}` + "\n")
	f.Close()

	select {
	case raw := <-tail.Lines():
		if raw.Text != `{"source":"A","message":"new"}` {
			t.Errorf("unexpected line: %q", raw.Text)
		}
		if raw.Source != feedPath {
			t.Errorf("expected source %q, got %q", feedPath, raw.Source)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for appended line")
	}

	cancel()
	time.Sleep(200 * time.Millisecond)
}

func TestCheckpointRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ckpt.json")

	c1, err := NewCheckpoint(path)
	if err != nil {
		t.Fatal(err)
	}
	c1.Set("/feeds/app.jsonl", 42)
	c1.Set("/feeds/zwave.jsonl", 1024)
	if err := c1.Save(); err != nil {
		t.Fatal(err)
	}

	c2, err := NewCheckpoint(path)
	if err != nil {
		t.Fatal(err)
	}

	if v, ok := c2.Get("/feeds/app.jsonl"); !ok || v != 42 {
		t.Errorf("expected 42, got %d (found=%v)", v, ok)
	}
	if v, ok := c2.Get("/feeds/zwave.jsonl"); !ok || v != 1024 {
		t.Errorf("expected 1024, got %d (found=%v)", v, ok)
	}
	if _, ok := c2.Get("/nonexistent"); ok {
		t.Error("expected missing key to return false")
	}
}

func TestCheckpointForget(t *testing.T) {
	dir := t.TempDir()
	c, err := NewCheckpoint(filepath.Join(dir, "ckpt.json"))
	if err != nil {
		t.Fatal(err)
	}

	c.Set("/feeds/app.jsonl", 100)
	c.Forget("/feeds/app.jsonl")

	if _, ok := c.Get("/feeds/app.jsonl"); ok {
		t.Error("expected offset to be forgotten")
	}
}
