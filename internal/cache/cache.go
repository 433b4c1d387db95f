// Package cache holds the shared lookup structures the trial workers
// read concurrently. Latency matters little here; the point is loading
// each static table exactly once per batch.
package cache

import (
	"sync"

	"github.com/GallupGovt/ASIST/internal/model/core"
	"github.com/GallupGovt/ASIST/internal/semantic"
)

// IndexCache lazily loads one semantic index per map difficulty and
// serves it to every worker. Indexes are immutable after build, so a
// single copy is safe to share across trials.
type IndexCache struct {
	mu      sync.Mutex
	mapDir  string
	indexes map[core.Difficulty]*semantic.Index
}

// NewIndexCache creates a cache loading map files from mapDir.
func NewIndexCache(mapDir string) *IndexCache {
	return &IndexCache{
		mapDir:  mapDir,
		indexes: make(map[core.Difficulty]*semantic.Index),
	}
}

// Get returns the index for a difficulty, loading it on first use.
func (c *IndexCache) Get(d core.Difficulty) (*semantic.Index, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ix, ok := c.indexes[d]; ok {
		return ix, nil
	}
	ix, err := semantic.LoadIndex(c.mapDir, d)
	if err != nil {
		return nil, err
	}
	c.indexes[d] = ix
	return ix, nil
}

// SafeCounter is a thread-safe counter for batch progress accounting.
type SafeCounter struct {
	mu sync.Mutex
	v  int
}

func (c *SafeCounter) Value() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.v
}

func (c *SafeCounter) Inc() {
	c.mu.Lock()
	c.v++
	c.mu.Unlock()
}
