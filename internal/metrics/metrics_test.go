package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCountersAccumulate(t *testing.T) {
	RequestsFingerprinted.WithLabelValues("GET").Inc()
	RequestsFingerprinted.WithLabelValues("GET").Inc()
	if got := testutil.ToFloat64(RequestsFingerprinted.WithLabelValues("GET")); got != 2 {
		t.Fatalf("expected 2, got %v", got)
	}

	SightingEvents.WithLabelValues("new").Inc()
	if got := testutil.ToFloat64(SightingEvents.WithLabelValues("new")); got != 1 {
		t.Fatalf("expected 1, got %v", got)
	}

	TrackedFingerprints.Set(3)
	if got := testutil.ToFloat64(TrackedFingerprints); got != 3 {
		t.Fatalf("expected 3, got %v", got)
	}
}
