package events

// Reporter publishes sighting events.
type Reporter interface {
	Report(Event)
}

// ChanReporter writes events to a channel. Report drops the event when the
// channel is full so a slow tracker can never stall the proxy hot path.
type ChanReporter struct {
	ch chan<- Event
}

func NewChanReporter(ch chan<- Event) *ChanReporter { return &ChanReporter{ch: ch} }

func (r *ChanReporter) Report(e Event) {
	if r == nil {
		return
	}
	select {
	case r.ch <- e:
	default:
	}
}
