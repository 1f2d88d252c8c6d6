package repo

import (
	"context"

	"github.com/tinoosan/ja4gate/internal/data"
)

type SightingRepo interface {
	SightingReader
	SightingWriter
}

type SightingReader interface {
	List(ctx context.Context) (data.Sightings, error)
	// Get looks a sighting up by its compact fingerprint.
	Get(ctx context.Context, fingerprint string) (*data.Sighting, error)
}

type SightingWriter interface {
	// Upsert records an observation. For an unknown fingerprint it inserts
	// the sighting and reports created=true; otherwise it bumps Hits and
	// LastSeen on the existing row, keeping the first-seen attributes.
	Upsert(ctx context.Context, s *data.Sighting) (saved *data.Sighting, created bool, err error)
}
