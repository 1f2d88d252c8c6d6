package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestsFingerprinted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ja4gate",
			Name:      "requests_fingerprinted_total",
			Help:      "Count of proxied requests that received a fingerprint.",
		},
		[]string{"method"},
	)

	FingerprintErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ja4gate",
			Name:      "fingerprint_errors_total",
			Help:      "Requests forwarded without a fingerprint due to a malformed view.",
		},
	)

	FingerprintLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "ja4gate",
			Name:      "fingerprint_seconds",
			Help:      "Latency of one fingerprint computation.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		},
	)

	SightingEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ja4gate",
			Name:      "sighting_events_total",
			Help:      "Count of sighting events processed by the tracker.",
		},
		[]string{"type"},
	)

	TrackedFingerprints = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "ja4gate",
			Name:      "tracked_fingerprints",
			Help:      "Number of distinct fingerprints recorded since start.",
		},
	)
)

// Register registers the ja4gate metrics into the default registry.
func Register() {
	prometheus.MustRegister(RequestsFingerprinted, FingerprintErrors, FingerprintLatency, SightingEvents, TrackedFingerprints)
}
