package router

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tinoosan/ja4gate/internal/ja4h"
	"github.com/tinoosan/ja4gate/internal/metrics"
	"github.com/tinoosan/ja4gate/internal/repo"
	"github.com/tinoosan/ja4gate/internal/service"
	"github.com/tinoosan/ja4gate/internal/stream"
)

func testRouter() http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.NewSightings(repo.NewInMemorySightingRepo())
	return New(logger, svc, ja4h.Options{}, stream.NewBroadcaster())
}

func TestMetricsEndpointEmitsFamilies(t *testing.T) {
	// Register collectors and prime a couple of samples
	metrics.Register()
	metrics.RequestsFingerprinted.WithLabelValues("GET").Inc()
	metrics.FingerprintLatency.Observe(0.00002)
	metrics.SightingEvents.WithLabelValues("new").Inc()
	metrics.TrackedFingerprints.Set(1)

	r := testRouter()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "ja4gate_requests_fingerprinted_total") {
		t.Fatalf("missing requests_fingerprinted_total in metrics: %s", body)
	}
	if !strings.Contains(body, "ja4gate_fingerprint_seconds_count") {
		t.Fatalf("missing fingerprint latency histogram in metrics: %s", body)
	}
	if !strings.Contains(body, "ja4gate_sighting_events_total") {
		t.Fatalf("missing sighting_events_total in metrics: %s", body)
	}
	if !strings.Contains(body, "ja4gate_tracked_fingerprints") {
		t.Fatalf("missing tracked_fingerprints gauge in metrics: %s", body)
	}
}
