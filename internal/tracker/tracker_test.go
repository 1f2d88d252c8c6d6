package tracker

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/tinoosan/ja4gate/internal/data"
	"github.com/tinoosan/ja4gate/internal/events"
	"github.com/tinoosan/ja4gate/internal/repo"
	"github.com/tinoosan/ja4gate/internal/service"
	"github.com/tinoosan/ja4gate/internal/stream"
)

func TestTrackerRecordsAndBroadcasts(t *testing.T) {
	rpo := repo.NewInMemorySightingRepo()
	svc := service.NewSightings(rpo)
	ch := make(chan events.Event, 4)
	bc := stream.NewBroadcaster()
	sub, cancel := bc.Subscribe()
	defer cancel()

	trk := New(slog.New(slog.NewTextHandler(io.Discard, nil)), svc, ch, bc)
	trk.Run()
	defer trk.Stop()

	ch <- events.Event{Type: events.EventSeen, Sighting: &data.Sighting{Fingerprint: "fp-a"}}

	select {
	case e := <-sub:
		if e.Type != events.EventNew {
			t.Fatalf("expected New event, got %q", e.Type)
		}
		if e.Sighting.Hits != 1 {
			t.Fatalf("expected 1 hit, got %d", e.Sighting.Hits)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no broadcast received")
	}

	ch <- events.Event{Type: events.EventSeen, Sighting: &data.Sighting{Fingerprint: "fp-a"}}

	select {
	case e := <-sub:
		if e.Type != events.EventRepeat {
			t.Fatalf("expected Repeat event, got %q", e.Type)
		}
		if e.Sighting.Hits != 2 {
			t.Fatalf("expected 2 hits, got %d", e.Sighting.Hits)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no broadcast received")
	}

	got, err := rpo.Get(context.Background(), "fp-a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Hits != 2 {
		t.Fatalf("repo not updated, hits=%d", got.Hits)
	}
}

func TestTrackerIgnoresEmptyEvents(t *testing.T) {
	rpo := repo.NewInMemorySightingRepo()
	svc := service.NewSightings(rpo)
	ch := make(chan events.Event, 2)

	trk := New(slog.New(slog.NewTextHandler(io.Discard, nil)), svc, ch, nil)
	trk.Run()

	ch <- events.Event{Type: events.EventSeen} // no sighting attached
	trk.Stop()

	list, err := rpo.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty repo, got %v", list)
	}
}
