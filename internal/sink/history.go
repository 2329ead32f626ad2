package sink

import (
	"context"

	"github.com/nhle/tempmail-watcher/internal/model"
	"github.com/nhle/tempmail-watcher/internal/store"
)

// History persists each emitted message to the history store.
type History struct {
	store *store.Store
}

// NewHistory creates a history sink backed by s.
func NewHistory(s *store.Store) *History {
	return &History{store: s}
}

// Emit writes the message to the history database.
func (h *History) Emit(ctx context.Context, msg model.Message) error {
	return h.store.SaveMessage(ctx, msg)
}
