package events

import "github.com/tinoosan/ja4gate/internal/data"

// Event carries one fingerprint observation through the pipeline.
//
// The proxy emits EventSeen; the tracker resolves it to EventNew or
// EventRepeat after the store reports whether the fingerprint existed.
type Event struct {
	Type     EventType      `json:"type"`
	Sighting *data.Sighting `json:"sighting"`
}

type EventType string

const (
	EventSeen   EventType = "Seen"
	EventNew    EventType = "New"
	EventRepeat EventType = "Repeat"
)
