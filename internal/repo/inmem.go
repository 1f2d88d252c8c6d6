package repo

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/tinoosan/ja4gate/internal/data"
)

type InMemorySightingRepo struct {
	mu        sync.RWMutex
	sightings map[string]*data.Sighting
}

func NewInMemorySightingRepo() *InMemorySightingRepo {
	return &InMemorySightingRepo{
		sightings: make(map[string]*data.Sighting),
	}
}

// List returns clones ordered by first sighting time, fingerprint as
// tiebreaker, so output is stable across calls.
func (r *InMemorySightingRepo) List(ctx context.Context) (data.Sightings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(data.Sightings, 0, len(r.sightings))
	for _, s := range r.sightings {
		out = append(out, s.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].FirstSeen.Equal(out[j].FirstSeen) {
			return out[i].FirstSeen.Before(out[j].FirstSeen)
		}
		return out[i].Fingerprint < out[j].Fingerprint
	})
	return out, nil
}

func (r *InMemorySightingRepo) Get(ctx context.Context, fingerprint string) (*data.Sighting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sightings[fingerprint]
	if !ok {
		return nil, data.ErrNotFound
	}
	return s.Clone(), nil
}

func (r *InMemorySightingRepo) Upsert(ctx context.Context, s *data.Sighting) (*data.Sighting, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.sightings[s.Fingerprint]; ok {
		cur.Hits++
		cur.LastSeen = s.LastSeen
		return cur.Clone(), false, nil
	}
	saved := s.Clone()
	if saved.ID == "" {
		saved.ID = uuid.NewString()
	}
	if saved.Hits == 0 {
		saved.Hits = 1
	}
	r.sightings[saved.Fingerprint] = saved
	return saved.Clone(), true, nil
}
