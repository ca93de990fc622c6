// Package testutil holds deterministic helpers for runner tests.
package testutil

import (
	"strconv"
	"sync"
)

// SequentialJobIDs generates "<prefix>-1", "<prefix>-2", ... so tests can
// assert the job ID of every attempt.
//
// Thread-safety: all methods are safe for concurrent use.
type SequentialJobIDs struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequentialJobIDs creates a generator. An empty prefix becomes "job".
func NewSequentialJobIDs(prefix string) *SequentialJobIDs {
	if prefix == "" {
		prefix = "job"
	}
	return &SequentialJobIDs{prefix: prefix}
}

// Generate returns the next ID.
func (g *SequentialJobIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return g.prefix + "-" + strconv.Itoa(g.n)
}

// Issued returns how many IDs have been generated.
func (g *SequentialJobIDs) Issued() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.n
}

// FixedJobIDs returns predetermined IDs in order.
type FixedJobIDs struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedJobIDs creates a generator that returns ids in order.
func NewFixedJobIDs(ids ...string) *FixedJobIDs {
	return &FixedJobIDs{ids: ids}
}

// Generate returns the next predetermined ID.
//
// Panics if all IDs have been consumed: the test issued more jobs than it
// expected.
func (g *FixedJobIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.ids) {
		panic("FixedJobIDs: all job IDs exhausted")
	}
	id := g.ids[g.idx]
	g.idx++
	return id
}
