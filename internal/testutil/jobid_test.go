package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequentialJobIDs(t *testing.T) {
	g := NewSequentialJobIDs("run")

	assert.Equal(t, "run-1", g.Generate())
	assert.Equal(t, "run-2", g.Generate())
	assert.Equal(t, 2, g.Issued())
}

func TestSequentialJobIDs_DefaultPrefix(t *testing.T) {
	assert.Equal(t, "job-1", NewSequentialJobIDs("").Generate())
}

func TestSequentialJobIDs_ThreadSafe(t *testing.T) {
	g := NewSequentialJobIDs("job")
	const workers, perWorker = 50, 20

	var wg sync.WaitGroup
	seen := make(chan string, workers*perWorker)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perWorker {
				seen <- g.Generate()
			}
		}()
	}
	wg.Wait()
	close(seen)

	unique := map[string]bool{}
	for id := range seen {
		unique[id] = true
	}
	assert.Len(t, unique, workers*perWorker)
	assert.Equal(t, workers*perWorker, g.Issued())
}

func TestFixedJobIDs(t *testing.T) {
	g := NewFixedJobIDs("a", "b")

	assert.Equal(t, "a", g.Generate())
	assert.Equal(t, "b", g.Generate())
	assert.PanicsWithValue(t, "FixedJobIDs: all job IDs exhausted", func() { g.Generate() })
}
