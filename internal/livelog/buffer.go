// Package livelog keeps the most recent feed records in memory and exposes
// them as a bounded most-recent-N query, which is the live source the query
// handlers consume.
package livelog

import (
	"sync"

	"github.com/simons-plugins/logs-over-reflector/internal/model"
)

// DefaultCapacity is how many records the live buffer retains by default.
// It matches the upper bound one live query may fetch.
const DefaultCapacity = 10000

// Buffer is a fixed-capacity ring of live records. Appends past capacity
// overwrite the oldest record. Safe for one writer and many readers.
type Buffer struct {
	mu   sync.RWMutex
	recs []model.Record
	next int // next write slot
	size int
}

// NewBuffer creates a Buffer holding up to capacity records.
func NewBuffer(capacity int) *Buffer {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Buffer{recs: make([]model.Record, capacity)}
}

// Append stores one record, evicting the oldest when full.
func (b *Buffer) Append(rec model.Record) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.recs[b.next] = rec
	b.next = (b.next + 1) % len(b.recs)
	if b.size < len(b.recs) {
		b.size++
	}
}

// Recent returns up to n of the most recent records in chronological order,
// oldest of the batch first. It always returns a fresh slice.
func (b *Buffer) Recent(n int) []model.Record {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if n > b.size {
		n = b.size
	}
	if n <= 0 {
		return []model.Record{}
	}

	out := make([]model.Record, n)
	start := b.next - n
	if start < 0 {
		start += len(b.recs)
	}
	for i := 0; i < n; i++ {
		out[i] = b.recs[(start+i)%len(b.recs)]
	}
	return out
}

// Len returns how many records are currently buffered.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.size
}
