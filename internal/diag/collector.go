// Package diag collects error messages reported concurrently by worker
// goroutines, for callers that want every diagnostic instead of just the
// first. Used by the self-hosting fixpoint test harness to gather the
// compile error of every failed concurrent run.
package diag

import "sync"

// Collector receives errors from any number of goroutines and buffers them
// for later retrieval.
type Collector struct {
	mu     sync.Mutex
	errors []error
}

// NewCollector returns a Collector with room for n pre-allocated slots.
func NewCollector(n int) *Collector {
	if n < 1 {
		n = 16
	}
	return &Collector{errors: make([]error, 0, n)}
}

// Report records err. A nil err is ignored. Safe to call concurrently.
func (c *Collector) Report(err error) {
	if err == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errors = append(c.errors, err)
}

// Len returns the number of collected errors.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.errors)
}

// Errors returns a snapshot of every error collected so far.
func (c *Collector) Errors() []error {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]error, len(c.errors))
	copy(out, c.errors)
	return out
}
