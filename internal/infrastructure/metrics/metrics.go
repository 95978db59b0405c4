package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the receptionist.
// Every recorder is safe to call on a nil *Metrics.
type Metrics struct {
	registry *prometheus.Registry

	// Booking metrics
	BookingOutcomes  *prometheus.CounterVec
	PipelineDuration *prometheus.HistogramVec

	// Language cache metrics
	LanguageCache *prometheus.CounterVec

	// Session metrics
	SessionsTotal   *prometheus.CounterVec
	DroppedFrames   *prometheus.CounterVec
	SentimentErrors prometheus.Counter
	SentimentSkips  prometheus.Counter

	// Analytics metrics
	AnalyticsWrites *prometheus.CounterVec
}

// New creates a new Metrics instance with all Prometheus metrics registered.
func New(namespace string) *Metrics {
	if namespace == "" {
		namespace = "receptionist"
	}

	registry := prometheus.NewRegistry()

	bookingOutcomes := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_outcomes_total",
			Help:      "Booking orchestrator terminal states",
		},
		[]string{"state"},
	)

	pipelineDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pipeline_duration_seconds",
			Help:      "Voice turn pipeline duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20},
		},
		[]string{"status"},
	)

	languageCache := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "language_cache_total",
			Help:      "Language cache lookups by result",
		},
		[]string{"result"},
	)

	sessionsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_total",
			Help:      "Interaction sessions finalized, by close kind",
		},
		[]string{"close"},
	)

	droppedFrames := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dropped_frames_total",
			Help:      "Interaction frames dropped by reason",
		},
		[]string{"reason"},
	)

	sentimentErrors := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sentiment_errors_total",
			Help:      "Failed sentiment scoring calls",
		},
	)

	sentimentSkips := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sentiment_skipped_total",
			Help:      "Utterances not scored because the scoring limit was reached",
		},
	)

	analyticsWrites := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analytics_writes_total",
			Help:      "Analytics record writes by result",
		},
		[]string{"result"},
	)

	// Register all metrics
	registry.MustRegister(
		bookingOutcomes,
		pipelineDuration,
		languageCache,
		sessionsTotal,
		droppedFrames,
		sentimentErrors,
		sentimentSkips,
		analyticsWrites,
	)

	return &Metrics{
		registry:         registry,
		BookingOutcomes:  bookingOutcomes,
		PipelineDuration: pipelineDuration,
		LanguageCache:    languageCache,
		SessionsTotal:    sessionsTotal,
		DroppedFrames:    droppedFrames,
		SentimentErrors:  sentimentErrors,
		SentimentSkips:   sentimentSkips,
		AnalyticsWrites:  analyticsWrites,
	}
}

// Handler returns an HTTP handler for the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordBookingOutcome counts a terminal booking state.
func (m *Metrics) RecordBookingOutcome(state string) {
	if m == nil {
		return
	}
	m.BookingOutcomes.WithLabelValues(state).Inc()
}

// RecordPipeline records a completed voice turn.
func (m *Metrics) RecordPipeline(status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.PipelineDuration.WithLabelValues(statusClass(status)).Observe(duration.Seconds())
}

// RecordLanguageCache records a cache hit or miss.
func (m *Metrics) RecordLanguageCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.LanguageCache.WithLabelValues(result).Inc()
}

// RecordSessionClosed records a finalized session.
func (m *Metrics) RecordSessionClosed(abnormal bool) {
	if m == nil {
		return
	}
	kind := "normal"
	if abnormal {
		kind = "abnormal"
	}
	m.SessionsTotal.WithLabelValues(kind).Inc()
}

// RecordDroppedFrame records a frame that was not applied.
func (m *Metrics) RecordDroppedFrame(reason string) {
	if m == nil {
		return
	}
	m.DroppedFrames.WithLabelValues(reason).Inc()
}

// RecordSentimentError records a failed scoring call.
func (m *Metrics) RecordSentimentError() {
	if m == nil {
		return
	}
	m.SentimentErrors.Inc()
}

// RecordSentimentSkipped records an utterance left unscored.
func (m *Metrics) RecordSentimentSkipped() {
	if m == nil {
		return
	}
	m.SentimentSkips.Inc()
}

// RecordAnalyticsWrite records the final result of an analytics write.
func (m *Metrics) RecordAnalyticsWrite(ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "error"
	}
	m.AnalyticsWrites.WithLabelValues(result).Inc()
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	default:
		return "2xx"
	}
}
