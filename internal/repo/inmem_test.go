package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tinoosan/ja4gate/internal/data"
)

func sighting(fp string, t0 time.Time) *data.Sighting {
	return &data.Sighting{
		Fingerprint: fp,
		Method:      "GET",
		Path:        "/",
		RemoteAddr:  "203.0.113.9:4711",
		UserAgent:   "curl/8.0",
		FirstSeen:   t0,
		LastSeen:    t0,
	}
}

func TestUpsertInsertThenBump(t *testing.T) {
	r := NewInMemorySightingRepo()
	ctx := context.Background()
	t0 := time.Now()

	saved, created, err := r.Upsert(ctx, sighting("fp-a", t0))
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if !created {
		t.Fatal("expected created=true on first upsert")
	}
	if saved.ID == "" || saved.Hits != 1 {
		t.Fatalf("unexpected saved sighting: %+v", saved)
	}

	later := sighting("fp-a", t0.Add(time.Minute))
	later.Method = "POST" // first-seen attributes must not change
	saved, created, err = r.Upsert(ctx, later)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if created {
		t.Fatal("expected created=false on repeat upsert")
	}
	if saved.Hits != 2 {
		t.Fatalf("expected 2 hits, got %d", saved.Hits)
	}
	if saved.Method != "GET" {
		t.Fatalf("first-seen method overwritten: %q", saved.Method)
	}
	if !saved.LastSeen.Equal(t0.Add(time.Minute)) {
		t.Fatalf("last seen not bumped: %v", saved.LastSeen)
	}
}

func TestGetUnknown(t *testing.T) {
	r := NewInMemorySightingRepo()
	if _, err := r.Get(context.Background(), "nope"); !errors.Is(err, data.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListOrderedAndCloned(t *testing.T) {
	r := NewInMemorySightingRepo()
	ctx := context.Background()
	t0 := time.Now()

	if _, _, err := r.Upsert(ctx, sighting("fp-b", t0.Add(time.Second))); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if _, _, err := r.Upsert(ctx, sighting("fp-a", t0)); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	list, err := r.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].Fingerprint != "fp-a" || list[1].Fingerprint != "fp-b" {
		t.Fatalf("unexpected order: %v", list)
	}

	// Mutating the returned copy must not touch the store.
	list[0].Hits = 99
	got, err := r.Get(ctx, "fp-a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Hits != 1 {
		t.Fatalf("store mutated through returned clone: %+v", got)
	}
}
