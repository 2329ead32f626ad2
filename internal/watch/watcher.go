// Package watch drives a single provider through the provision-then-poll
// lifecycle: provision once, then fetch the inbox on a fixed interval,
// routing each newly observed message through the dedup tracker to the sink.
package watch

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/nhle/tempmail-watcher/internal/dedup"
	"github.com/nhle/tempmail-watcher/internal/model"
	"github.com/nhle/tempmail-watcher/internal/provider"
)

// Sink receives each newly observed message exactly once, in inbox order.
type Sink interface {
	Emit(ctx context.Context, msg model.Message) error
}

// MultiSink fans a message out to several sinks.
type MultiSink []Sink

// Emit sends msg to every sink and joins their errors.
func (m MultiSink) Emit(ctx context.Context, msg model.Message) error {
	var errs []error
	for _, s := range m {
		if err := s.Emit(ctx, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Watcher owns one provider, one dedup tracker and one sink for the
// duration of a run. It is not safe for concurrent use; a run is a single
// logical thread of control.
type Watcher struct {
	provider provider.Provider
	sink     Sink
	tracker  *dedup.Tracker
	interval time.Duration
	log      *zap.Logger

	inbox       provider.Inbox
	provisioned bool
}

// New creates a watcher polling p on the given interval.
func New(p provider.Provider, sink Sink, interval time.Duration, log *zap.Logger) *Watcher {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Watcher{
		provider: p,
		sink:     sink,
		tracker:  dedup.NewTracker(),
		interval: interval,
		log:      log,
	}
}

// Inbox returns the provisioned inbox. Valid after Provision or Restore.
func (w *Watcher) Inbox() provider.Inbox {
	return w.inbox
}

// Restore primes the watcher with a previously provisioned inbox so Poll
// can run without a new signup. Session expiry on a restored inbox surfaces
// as a fetch failure on the first poll.
func (w *Watcher) Restore(inbox provider.Inbox) error {
	if err := w.provider.Restore(inbox); err != nil {
		return err
	}
	w.inbox = inbox
	w.provisioned = true
	return nil
}

// Provision performs the provider's signup handshake. A provisioning
// failure is not recoverable within the run; the caller aborts on error.
func (w *Watcher) Provision(ctx context.Context) (provider.Inbox, error) {
	if w.provisioned {
		return w.inbox, nil
	}

	inbox, err := w.provider.Provision(ctx)
	if err != nil {
		return provider.Inbox{}, err
	}

	w.inbox = inbox
	w.provisioned = true
	w.log.Info("inbox provisioned",
		zap.String("provider", string(w.provider.Name())),
		zap.String("address", inbox.Address),
	)
	return inbox, nil
}

// Poll fetches the inbox immediately and then on every interval tick until
// ctx is canceled (returns nil) or the provider reports session expiry
// (returns the SessionExpiredError). Network and API failures during a poll
// are logged and the next interval is attempted.
func (w *Watcher) Poll(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		if err := w.pollOnce(ctx); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Run is Provision followed by Poll.
func (w *Watcher) Run(ctx context.Context) error {
	if _, err := w.Provision(ctx); err != nil {
		return err
	}
	return w.Poll(ctx)
}

// pollOnce performs a single fetch-dedup-emit iteration. Only session
// expiry is returned as an error; everything else is absorbed and logged so
// the loop keeps going.
func (w *Watcher) pollOnce(ctx context.Context) error {
	msgs, err := w.provider.Fetch(ctx)
	if err != nil {
		if provider.IsSessionExpired(err) {
			w.log.Warn("session expired; stopping",
				zap.String("provider", string(w.provider.Name())),
			)
			return err
		}
		if ctx.Err() != nil {
			// Canceled mid-fetch; the caller's select exits the loop.
			return nil
		}
		w.log.Warn("poll failed",
			zap.String("provider", string(w.provider.Name())),
			zap.Error(err),
		)
		return nil
	}

	for _, msg := range msgs {
		if !w.tracker.IsNew(msg.ID) {
			continue
		}
		if err := w.sink.Emit(ctx, msg); err != nil {
			w.log.Warn("emitting message",
				zap.String("id", msg.ID),
				zap.Error(err),
			)
		}
	}

	return nil
}
