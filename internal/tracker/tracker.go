package tracker

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/tinoosan/ja4gate/internal/events"
	"github.com/tinoosan/ja4gate/internal/metrics"
	"github.com/tinoosan/ja4gate/internal/service"
	"github.com/tinoosan/ja4gate/internal/stream"
)

// Tracker consumes sighting events from the proxy and updates the store off
// the request hot path. Resolved events (new vs repeat) are pushed to the
// broadcaster for live consumers.
type Tracker struct {
	svc    service.Sightings
	events <-chan events.Event
	bc     *stream.Broadcaster
	log    *slog.Logger
	ctx    context.Context
	cancel context.CancelFunc

	stop chan struct{}
	wg   sync.WaitGroup
}

// New creates a Tracker that processes sighting events and mutates the
// repository accordingly. bc may be nil when no live feed is wanted.
func New(log *slog.Logger, svc service.Sightings, events <-chan events.Event, bc *stream.Broadcaster) *Tracker {
	if log == nil {
		log = slog.Default()
	}
	return &Tracker{svc: svc, events: events, bc: bc, log: log, ctx: context.Background()}
}

// Run starts the tracking loop.
func (t *Tracker) Run() {
	t.stop = make(chan struct{})
	t.ctx, t.cancel = context.WithCancel(t.ctx)
	// Tag this run with a stable operation_id for easier correlation.
	opID := uuid.NewString()
	t.log = t.log.With("operation_id", opID)
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		for {
			select {
			case <-t.stop:
				return
			case e, ok := <-t.events:
				if !ok {
					return
				}
				t.handle(e)
			}
		}
	}()
}

// Stop terminates the tracking loop.
func (t *Tracker) Stop() {
	if t.stop != nil {
		close(t.stop)
		if t.cancel != nil {
			t.cancel()
		}
		t.wg.Wait()
	}
}

func (t *Tracker) handle(e events.Event) {
	if e.Sighting == nil {
		t.log.Warn("event without sighting", "type", e.Type)
		return
	}

	saved, created, err := t.svc.Record(t.ctx, e.Sighting)
	if err != nil {
		t.log.Error("record sighting", "fingerprint", e.Sighting.Fingerprint, "err", err)
		return
	}

	resolved := events.EventRepeat
	if created {
		resolved = events.EventNew
		metrics.TrackedFingerprints.Inc()
	}
	metrics.SightingEvents.WithLabelValues(strings.ToLower(string(resolved))).Inc()

	if t.bc != nil {
		t.bc.Publish(events.Event{Type: resolved, Sighting: saved})
	}

	t.log.Info("tracked sighting", "fingerprint", saved.Fingerprint, "type", resolved, "hits", saved.Hits)
}
