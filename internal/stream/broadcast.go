package stream

import (
	"sync"

	"github.com/tinoosan/ja4gate/internal/events"
)

// Broadcaster fans sighting events out to any number of subscribers.
// Publish never blocks; a subscriber that falls behind loses events rather
// than stalling the tracker.
type Broadcaster struct {
	mu   sync.Mutex
	subs map[chan events.Event]struct{}
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[chan events.Event]struct{})}
}

// Subscribe registers a new subscriber. The returned cancel func must be
// called to release it; the channel is closed on cancel.
func (b *Broadcaster) Subscribe() (<-chan events.Event, func()) {
	ch := make(chan events.Event, 16)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, ch)
			b.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers the event to every subscriber with room in its buffer.
func (b *Broadcaster) Publish(e events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}
