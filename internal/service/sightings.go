package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/tinoosan/ja4gate/internal/data"
	"github.com/tinoosan/ja4gate/internal/repo"
)

var ErrNoFingerprint = errors.New("sighting has no fingerprint")

type Sightings interface {
	List(ctx context.Context) (data.Sightings, error)
	Get(ctx context.Context, fingerprint string) (*data.Sighting, error)
	// Record stores one observation and reports whether the fingerprint was
	// seen for the first time.
	Record(ctx context.Context, s *data.Sighting) (*data.Sighting, bool, error)
}

type sightings struct {
	repo repo.SightingRepo
}

func NewSightings(repo repo.SightingRepo) Sightings {
	return &sightings{repo: repo}
}

func (ss *sightings) List(ctx context.Context) (data.Sightings, error) {
	return ss.repo.List(ctx)
}

func (ss *sightings) Get(ctx context.Context, fingerprint string) (*data.Sighting, error) {
	return ss.repo.Get(ctx, fingerprint)
}

func (ss *sightings) Record(ctx context.Context, s *data.Sighting) (*data.Sighting, bool, error) {
	if strings.TrimSpace(s.Fingerprint) == "" {
		return nil, false, ErrNoFingerprint
	}
	now := time.Now()
	if s.FirstSeen.IsZero() {
		s.FirstSeen = now
	}
	if s.LastSeen.IsZero() {
		s.LastSeen = now
	}
	return ss.repo.Upsert(ctx, s)
}
