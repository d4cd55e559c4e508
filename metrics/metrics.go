// Package metrics defines the Prometheus metrics exported by vehiclegw.
//
// All metrics live on a dedicated registry served by Handler, so the
// exposition only carries vehiclegw series plus the Go and process
// collectors.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome label values shared by the request and upstream counters.
const (
	OutcomeSuccess   = "success"
	OutcomeFailed    = "failed"
	OutcomeTransport = "transport_error"
	OutcomeInvalid   = "invalid"
)

// Registry holds every vehiclegw collector.
var Registry = prometheus.NewRegistry()

var (
	// RequestsTotal counts adapter operations by operation name and outcome.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vehiclegw_requests_total",
			Help: "Total vehicle operations handled, by operation and outcome.",
		},
		[]string{"operation", "outcome"},
	)

	// UpstreamRequestsTotal counts POSTs to the upstream API by path and outcome.
	UpstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vehiclegw_upstream_requests_total",
			Help: "Total requests sent to the upstream vehicle API.",
		},
		[]string{"path", "outcome"},
	)

	// UpstreamDurationSeconds is a histogram of upstream round-trip time.
	UpstreamDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vehiclegw_upstream_duration_seconds",
			Help:    "Round-trip time of upstream vehicle API requests in seconds.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"path"},
	)

	// EventsPublishedTotal counts envelopes handed to messaging, by message
	// type and result.
	EventsPublishedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vehiclegw_events_published_total",
			Help: "Events published to the message broker, by envelope type and result.",
		},
		[]string{"type", "result"},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		RequestsTotal,
		UpstreamRequestsTotal,
		UpstreamDurationSeconds,
		EventsPublishedTotal,
	)
}

// Handler serves the registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}

// RecordRequest records one completed adapter operation.
func RecordRequest(operation, outcome string) {
	RequestsTotal.WithLabelValues(operation, outcome).Inc()
}

// RecordUpstream records one upstream round trip.
func RecordUpstream(path, outcome string, d time.Duration) {
	UpstreamRequestsTotal.WithLabelValues(path, outcome).Inc()
	UpstreamDurationSeconds.WithLabelValues(path).Observe(d.Seconds())
}

// RecordPublish records the result of publishing one envelope of msgType.
// Dropped envelopes count as errors.
func RecordPublish(msgType string, ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	EventsPublishedTotal.WithLabelValues(msgType, result).Inc()
}
