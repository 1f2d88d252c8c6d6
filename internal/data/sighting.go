package data

import (
	"encoding/json"
	"errors"
	"io"
	"time"
)

// Sighting aggregates every time a given JA4H fingerprint was observed at
// the proxy. Attributes other than LastSeen and Hits are captured from the
// first request that produced the fingerprint.
type Sighting struct {
	ID          string    `json:"id"`
	Fingerprint string    `json:"fingerprint"`
	Raw         string    `json:"raw,omitempty"`
	Method      string    `json:"method"`
	Path        string    `json:"path"`
	RemoteAddr  string    `json:"remoteAddr"`
	UserAgent   string    `json:"userAgent"`
	FirstSeen   time.Time `json:"firstSeen"`
	LastSeen    time.Time `json:"lastSeen"`
	Hits        int64     `json:"hits"`
}

type Sightings []*Sighting

var ErrNotFound = errors.New("sighting not found")

func (s *Sighting) ToJSON(w io.Writer) error { return json.NewEncoder(w).Encode(s) }

func (s Sightings) ToJSON(w io.Writer) error { return json.NewEncoder(w).Encode(s) }

// Clone returns a deep copy so repository internals never leak to callers.
func (s *Sighting) Clone() *Sighting {
	if s == nil {
		return nil
	}
	cp := *s
	return &cp
}

func (s Sightings) Clone() Sightings {
	out := make(Sightings, 0, len(s))
	for _, sg := range s {
		out = append(out, sg.Clone())
	}
	return out
}
