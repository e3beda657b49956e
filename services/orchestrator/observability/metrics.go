// Package observability provides metrics and instrumentation for the relay.
//
// # Description
//
// This package implements Prometheus metrics for monitoring the chat relay.
// Metrics include:
//   - Request counters (by channel and status)
//   - Escalation and lead-capture counters
//   - Ingestion chunk counters
//   - Reply latency histograms
//
// # Integration
//
// Metrics are exposed via the /metrics endpoint. Use with Prometheus +
// Grafana for dashboards and alerting.
//
// # Thread Safety
//
// All metric operations are thread-safe via Prometheus's internal locking.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace for all metrics
const metricsNamespace = "supportrelay"

// Subsystem for chat pipeline metrics
const chatSubsystem = "chat"

// RelayMetrics holds all Prometheus metrics for the chat relay.
//
// # Description
//
// Provides counters and histograms for monitoring conversation traffic across
// channels. Initialize once at startup via InitMetrics().
//
// # Fields
//
//   - RequestsTotal: Counter of inbound messages by channel and status
//   - EscalationsTotal: Counter of human-handoff triggers by channel
//   - LeadsCapturedTotal: Counter of detected leads by channel
//   - ChunksIngestedTotal: Counter of knowledge chunks stored
//   - ReplyDurationSeconds: Histogram of end-to-end reply latency
//
// # Thread Safety
//
// All operations are thread-safe.
type RelayMetrics struct {
	// RequestsTotal counts inbound chat messages by channel and outcome.
	// Labels: channel (web, whatsapp, instagram), status (success, error)
	RequestsTotal *prometheus.CounterVec

	// EscalationsTotal counts messages that triggered the human handoff.
	// Labels: channel
	EscalationsTotal *prometheus.CounterVec

	// LeadsCapturedTotal counts messages from which a lead was extracted.
	// Labels: channel
	LeadsCapturedTotal *prometheus.CounterVec

	// ChunksIngestedTotal counts knowledge chunks accepted by the store.
	ChunksIngestedTotal prometheus.Counter

	// ReplyDurationSeconds measures end-to-end reply latency including
	// retrieval and the model call.
	// Labels: channel
	ReplyDurationSeconds *prometheus.HistogramVec
}

// DefaultMetrics is the singleton instance of RelayMetrics.
// Initialized by InitMetrics().
var DefaultMetrics *RelayMetrics

// InitMetrics initializes the default metrics instance.
//
// # Description
//
// Creates and registers all Prometheus metrics. Should be called once at
// application startup, after the Prometheus registry is available.
//
// # Limitations
//
//   - Panics if called twice (duplicate registration).
func InitMetrics() *RelayMetrics {
	DefaultMetrics = &RelayMetrics{
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: chatSubsystem,
				Name:      "requests_total",
				Help:      "Total inbound chat messages by channel and status",
			},
			[]string{"channel", "status"},
		),

		EscalationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: chatSubsystem,
				Name:      "escalations_total",
				Help:      "Total messages that triggered a human handoff",
			},
			[]string{"channel"},
		),

		LeadsCapturedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: chatSubsystem,
				Name:      "leads_captured_total",
				Help:      "Total leads extracted from inbound messages",
			},
			[]string{"channel"},
		),

		ChunksIngestedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "ingest",
				Name:      "chunks_ingested_total",
				Help:      "Total knowledge chunks accepted by the vector store",
			},
		),

		ReplyDurationSeconds: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: chatSubsystem,
				Name:      "reply_duration_seconds",
				Help:      "End-to-end reply latency in seconds",
				Buckets:   []float64{0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
			},
			[]string{"channel"},
		),
	}

	return DefaultMetrics
}

// RecordRequest records a completed inbound message.
//
// # Inputs
//
//   - channel: The channel the message arrived on.
//   - success: Whether a reply was produced successfully.
func (m *RelayMetrics) RecordRequest(channel string, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	m.RequestsTotal.WithLabelValues(channel, status).Inc()
}

// RecordEscalation records a human-handoff trigger.
func (m *RelayMetrics) RecordEscalation(channel string) {
	m.EscalationsTotal.WithLabelValues(channel).Inc()
}

// RecordLeadCaptured records a detected lead.
func (m *RelayMetrics) RecordLeadCaptured(channel string) {
	m.LeadsCapturedTotal.WithLabelValues(channel).Inc()
}

// RecordChunksIngested records accepted knowledge chunks.
func (m *RelayMetrics) RecordChunksIngested(count int) {
	m.ChunksIngestedTotal.Add(float64(count))
}

// RecordReplyDuration records end-to-end reply latency.
//
// # Inputs
//
//   - channel: The channel the message arrived on.
//   - seconds: Total latency in seconds.
func (m *RelayMetrics) RecordReplyDuration(channel string, seconds float64) {
	m.ReplyDurationSeconds.WithLabelValues(channel).Observe(seconds)
}
