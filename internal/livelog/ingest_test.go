package livelog

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/simons-plugins/logs-over-reflector/internal/model"
)

func TestIngestorDecodesRecords(t *testing.T) {
	lines := make(chan model.RawLine, 10)
	buf := NewBuffer(10)
	ing := NewIngestor(buf, lines, func() int { return 1 }, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go ing.Start(ctx)

	lines <- model.RawLine{
		Text:   `{"ts":"2024-05-01T12:00:00Z","source":"Z-Wave","severity":1,"message":"node awake"}`,
		Source: "feed.jsonl",
	}

	waitFor(t, func() bool { return buf.Len() == 1 })

	got := buf.Recent(1)
	if got[0].Source != "Z-Wave" || got[0].Severity != 1 || got[0].Message != "node awake" {
		t.Errorf("unexpected record: %+v", got[0])
	}
	if got[0].Time.Format(time.RFC3339) != "2024-05-01T12:00:00Z" {
		t.Errorf("unexpected time: %v", got[0].Time)
	}
}

func TestIngestorSkipsMalformed(t *testing.T) {
	lines := make(chan model.RawLine, 10)
	buf := NewBuffer(10)
	ing := NewIngestor(buf, lines, func() int { return 1 }, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go ing.Start(ctx)

	lines <- model.RawLine{Text: "not json", Source: "feed.jsonl"}
	lines <- model.RawLine{Text: `{"source":"App","message":"ok"}`, Source: "feed.jsonl"}

	waitFor(t, func() bool { return buf.Len() == 1 })

	stats := ing.Snapshot()
	if stats.Malformed != 1 {
		t.Errorf("expected 1 malformed, got %d", stats.Malformed)
	}
	if stats.TotalRecords != 1 {
		t.Errorf("expected 1 record, got %d", stats.TotalRecords)
	}

	// Missing ts must be defaulted, not left zero.
	got := buf.Recent(1)
	if got[0].Time.IsZero() {
		t.Error("missing ts should default to ingestion time")
	}
}

func TestIngestorStats(t *testing.T) {
	lines := make(chan model.RawLine, 10)
	buf := NewBuffer(10)
	ing := NewIngestor(buf, lines, func() int { return 3 }, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go ing.Start(ctx)

	lines <- model.RawLine{Text: `{"source":"A","message":"1"}`, Source: "f"}
	lines <- model.RawLine{Text: `{"source":"A","message":"2"}`, Source: "f"}
	lines <- model.RawLine{Text: `{"source":"B","message":"3"}`, Source: "f"}

	waitFor(t, func() bool { return ing.Snapshot().TotalRecords == 3 })

	stats := ing.Snapshot()
	if stats.SourceCounts["A"] != 2 || stats.SourceCounts["B"] != 1 {
		t.Errorf("unexpected source counts: %v", stats.SourceCounts)
	}
	if stats.FilesTailed != 3 {
		t.Errorf("expected 3 files tailed, got %d", stats.FilesTailed)
	}
	if stats.Buffered != 3 {
		t.Errorf("expected 3 buffered, got %d", stats.Buffered)
	}
}

// waitFor polls until cond holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("timed out waiting for condition")
}
