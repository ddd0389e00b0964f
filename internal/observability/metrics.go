package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// simulation engine and chat subsystem.
type Metrics struct {
	StepsApplied    prometheus.Counter
	AlertsRaised    *prometheus.CounterVec // labels: category={weather,info}, source={simulated,manual}
	AlertsDismissed prometheus.Counter
	EngineRunning   prometheus.Gauge

	// Chat metrics.
	ChatMessages    *prometheus.CounterVec // labels: sender={user,assistant}
	RepliesResolved prometheus.Counter
	ReplyFailures   prometheus.Counter
	ReplyLatency    prometheus.Histogram
	CaptureStarts   prometheus.Counter
	ImagesSubmitted prometheus.Counter
}

// NewMetrics creates and registers all engine metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		StepsApplied: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "field_engine",
			Name:      "steps_applied_total",
			Help:      "Total telemetry simulation steps applied.",
		}),
		AlertsRaised: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "field_engine",
			Name:      "alerts_raised_total",
			Help:      "Alerts pushed to the feed by category and source.",
		}, []string{"category", "source"}),
		AlertsDismissed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "field_engine",
			Name:      "alerts_dismissed_total",
			Help:      "Alerts removed from the feed by explicit dismissal.",
		}),
		EngineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "field_engine",
			Name:      "engine_running",
			Help:      "1 when the simulation loop is active, 0 when stopped.",
		}),
		ChatMessages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "field_engine",
			Name:      "chat_messages_total",
			Help:      "Chat messages appended to the session log by sender.",
		}, []string{"sender"}),
		RepliesResolved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "field_engine",
			Name:      "replies_resolved_total",
			Help:      "Assistant replies delivered successfully.",
		}),
		ReplyFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "field_engine",
			Name:      "reply_failures_total",
			Help:      "Reply pipeline failures surfaced as the fallback message.",
		}),
		ReplyLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "field_engine",
			Name:      "reply_latency_seconds",
			Help:      "Time from user message to assistant reply delivery.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 1.5, 2, 3, 5, 10},
		}),
		CaptureStarts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "field_engine",
			Name:      "capture_starts_total",
			Help:      "Voice capture sessions started.",
		}),
		ImagesSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "field_engine",
			Name:      "images_submitted_total",
			Help:      "Field images submitted for analysis.",
		}),
	}

	prometheus.MustRegister(
		m.StepsApplied,
		m.AlertsRaised,
		m.AlertsDismissed,
		m.EngineRunning,
		m.ChatMessages,
		m.RepliesResolved,
		m.ReplyFailures,
		m.ReplyLatency,
		m.CaptureStarts,
		m.ImagesSubmitted,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		StepsApplied:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "field_engine", Name: "steps_applied_total"}),
		AlertsRaised:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "field_engine", Name: "alerts_raised_total"}, []string{"category", "source"}),
		AlertsDismissed: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "field_engine", Name: "alerts_dismissed_total"}),
		EngineRunning:   prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "field_engine", Name: "engine_running"}),
		ChatMessages:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "field_engine", Name: "chat_messages_total"}, []string{"sender"}),
		RepliesResolved: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "field_engine", Name: "replies_resolved_total"}),
		ReplyFailures:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "field_engine", Name: "reply_failures_total"}),
		ReplyLatency:    prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "field_engine", Name: "reply_latency_seconds"}),
		CaptureStarts:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "field_engine", Name: "capture_starts_total"}),
		ImagesSubmitted: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "field_engine", Name: "images_submitted_total"}),
	}
}
