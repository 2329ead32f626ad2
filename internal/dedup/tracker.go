// Package dedup tracks which message identifiers have already been emitted
// during a run so repeated inbox fetches report each message once.
package dedup

import "sync"

// Tracker is a set of previously seen message identifiers. It grows for the
// lifetime of a run and is never persisted; a restart starts empty.
type Tracker struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{seen: make(map[string]struct{})}
}

// IsNew reports whether id has not been observed before, and marks it seen.
// Only the first call for a given id returns true.
func (t *Tracker) IsNew(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.seen[id]; ok {
		return false
	}
	t.seen[id] = struct{}{}
	return true
}

// Count returns the number of identifiers seen so far.
func (t *Tracker) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.seen)
}
