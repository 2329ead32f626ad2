package testutil

import (
	"testing"

	"github.com/nhle/tempmail-watcher/internal/store"
)

// NewTestStore creates an in-memory history store with all migrations
// applied and no entry cap. It automatically closes the store when the test
// completes.
func NewTestStore(t *testing.T) *store.Store {
	t.Helper()

	s, err := store.Open(":memory:", 0)
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}
