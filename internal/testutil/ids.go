// Package testutil holds deterministic stand-ins for the generated values
// in stored records, so test runs and golden files are reproducible.
package testutil

import (
	"fmt"
	"sync"
)

// SequentialIDs generates run ids prefix-0001, prefix-0002, ... in order.
//
// It satisfies store.IDGenerator. Unlike the UUIDv7 default, the same test
// produces the same ids on every run, and Reset allows reuse.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type SequentialIDs struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequentialIDs creates a generator. If prefix is empty, "run" is used.
func NewSequentialIDs(prefix string) *SequentialIDs {
	if prefix == "" {
		prefix = "run"
	}
	return &SequentialIDs{prefix: prefix}
}

// Generate returns the next id.
func (g *SequentialIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%04d", g.prefix, g.n)
}

// Reset restarts the sequence. After Reset, Generate returns prefix-0001.
func (g *SequentialIDs) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n = 0
}
