package store

import (
	"crypto/sha256"
	"sync"
)

// ChunkSet is the per-run, in-memory set of content-fragment hashes already
// submitted to listing extraction. Reload-heavy strategies re-render mostly
// unchanged DOM each step; filtering seen fragments bounds the token cost of
// repeated extraction. It is reset at job start and never persisted.
type ChunkSet struct {
	mu   sync.Mutex
	seen map[[sha256.Size]byte]struct{}
}

// NewChunkSet creates an empty chunk set.
func NewChunkSet() *ChunkSet {
	return &ChunkSet{seen: make(map[[sha256.Size]byte]struct{})}
}

// Filter returns only the lines whose content hash has not been seen this
// run, and marks them seen. Applying Filter twice to the same input yields
// an empty second result.
func (c *ChunkSet) Filter(lines []string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	var fresh []string
	for _, line := range lines {
		h := sha256.Sum256([]byte(line))
		if _, ok := c.seen[h]; ok {
			continue
		}
		c.seen[h] = struct{}{}
		fresh = append(fresh, line)
	}
	return fresh
}

// Len returns the number of distinct fragments seen this run.
func (c *ChunkSet) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.seen)
}
