package livelog

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/simons-plugins/logs-over-reflector/internal/model"
)

// Stats is a point-in-time snapshot of ingestion metrics.
type Stats struct {
	Uptime       string           `json:"uptime"`
	TotalRecords int64            `json:"total_records"`
	Malformed    int64            `json:"malformed_records"`
	SourceCounts map[string]int64 `json:"source_counts"`
	Buffered     int              `json:"buffered"`
	FilesTailed  int              `json:"files_tailed"`
}

// Ingestor reads raw feed lines, decodes them as JSON records, and appends
// them to the live buffer. Malformed lines are skipped and counted, never
// fatal.
type Ingestor struct {
	buf       *Buffer
	lines     <-chan model.RawLine
	fileCount func() int
	log       *zap.Logger

	mu        sync.RWMutex
	startTime time.Time
	total     int64
	malformed int64
	bySource  map[string]int64
}

// NewIngestor creates an Ingestor reading from the given line channel.
// fileCountFn provides the live number of tailed feed files for stats.
func NewIngestor(buf *Buffer, lines <-chan model.RawLine, fileCountFn func() int, logger *zap.Logger) *Ingestor {
	return &Ingestor{
		buf:       buf,
		lines:     lines,
		fileCount: fileCountFn,
		log:       logger,
		startTime: time.Now(),
		bySource:  make(map[string]int64),
	}
}

// Start consumes feed lines until the context is cancelled or the channel
// closes.
func (i *Ingestor) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case raw, ok := <-i.lines:
			if !ok {
				return
			}
			i.ingest(raw)
		}
	}
}

// ingest decodes one feed line into a Record and buffers it.
func (i *Ingestor) ingest(raw model.RawLine) {
	var rec model.Record
	if err := json.Unmarshal([]byte(raw.Text), &rec); err != nil {
		i.mu.Lock()
		i.malformed++
		i.mu.Unlock()
		i.log.Debug("skipping malformed feed line",
			zap.String("feed", raw.Source),
			zap.Error(err))
		return
	}

	// Default missing fields at the boundary rather than propagating zero
	// values downstream.
	if rec.Time.IsZero() {
		rec.Time = time.Now()
	}

	i.buf.Append(rec)

	i.mu.Lock()
	i.total++
	i.bySource[rec.Source]++
	i.mu.Unlock()
}

// Snapshot returns the current ingestion metrics.
func (i *Ingestor) Snapshot() Stats {
	i.mu.RLock()
	defer i.mu.RUnlock()

	counts := make(map[string]int64, len(i.bySource))
	for k, v := range i.bySource {
		counts[k] = v
	}

	return Stats{
		Uptime:       time.Since(i.startTime).Truncate(time.Second).String(),
		TotalRecords: i.total,
		Malformed:    i.malformed,
		SourceCounts: counts,
		Buffered:     i.buf.Len(),
		FilesTailed:  i.fileCount(),
	}
}
