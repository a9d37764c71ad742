package tailer

import (
	"encoding/json"
	"os"
	"sync"
)

// checkpointState is the on-disk JSON structure for persisted feed offsets.
type checkpointState struct {
	Offsets map[string]int64 `json:"offsets"`
}

// Checkpoint persists per-feed read offsets so tailing resumes after a
// restart instead of re-ingesting or skipping records.
type Checkpoint struct {
	mu    sync.RWMutex
	path  string
	state checkpointState
}

// NewCheckpoint creates or loads a checkpoint file at the given path.
func NewCheckpoint(path string) (*Checkpoint, error) {
	c := &Checkpoint{
		path:  path,
		state: checkpointState{Offsets: make(map[string]int64)},
	}

	raw, err := os.ReadFile(path)
	if err == nil {
		_ = json.Unmarshal(raw, &c.state)
	}
	if c.state.Offsets == nil {
		c.state.Offsets = make(map[string]int64)
	}

	return c, nil
}

// Get returns the saved offset for a feed path.
func (c *Checkpoint) Get(path string) (int64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.state.Offsets[path]
	return v, ok
}

// Set records the current offset for a feed path.
func (c *Checkpoint) Set(path string, offset int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Offsets[path] = offset
}

// Forget drops the saved offset for a feed path. Used after rotation, when
// the old offset would point past the start of the recreated file.
func (c *Checkpoint) Forget(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.state.Offsets, path)
}

// Save writes the checkpoint to disk via a temp file rename.
func (c *Checkpoint) Save() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	raw, err := json.MarshalIndent(c.state, "", "  ")
	if err != nil {
		return err
	}

	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, c.path)
}
