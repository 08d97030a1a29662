package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the agent.
type Metrics struct {
	// Engine metrics
	EventsReceived   *prometheus.CounterVec // by event kind
	EventsSuppressed *prometheus.CounterVec // by suppression reason
	EventsEmitted    *prometheus.CounterVec // by action

	// Delivery metrics
	Deliveries      *prometheus.CounterVec // by outcome
	DeliverySeconds prometheus.Histogram

	// Cursor metrics
	CursorValue      prometheus.Gauge
	CursorSaveErrors prometheus.Counter

	// Backlog metrics
	BacklogScanned prometheus.Counter

	// Feed metrics
	FeedConnected  prometheus.Gauge
	FeedReconnects prometheus.Counter
	FeedDropped    prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "dealsync"
	}

	return &Metrics{
		EventsReceived: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "events_received_total",
			Help:      "Total number of raw events entering the engine, by kind",
		}, []string{"kind"}),
		EventsSuppressed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "events_suppressed_total",
			Help:      "Total number of events suppressed without emission, by reason",
		}, []string{"reason"}),
		EventsEmitted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "events_emitted_total",
			Help:      "Total number of classified events handed to delivery, by action",
		}, []string{"action"}),
		Deliveries: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "delivery",
			Name:      "attempts_total",
			Help:      "Total number of delivery attempts, by outcome",
		}, []string{"outcome"}),
		DeliverySeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "delivery",
			Name:      "attempt_seconds",
			Help:      "Delivery attempt duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		CursorValue: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "cursor",
			Name:      "value",
			Help:      "Current in-memory cursor value (highest classified deal ticket)",
		}),
		CursorSaveErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cursor",
			Name:      "save_errors_total",
			Help:      "Total number of cursor persistence failures",
		}),
		BacklogScanned: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "backlog",
			Name:      "deals_scanned_total",
			Help:      "Total number of historical deals inspected by the startup pass",
		}),
		FeedConnected: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "connected",
			Help:      "1 when the live feed connection is established, 0 otherwise",
		}),
		FeedReconnects: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "reconnects_total",
			Help:      "Total number of feed reconnect attempts",
		}),
		FeedDropped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "frames_dropped_total",
			Help:      "Total number of feed frames dropped (undecodable or buffer full)",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Default is the process-wide metrics instance.
var Default = NewMetrics("")

// RecordEventReceived increments the received counter for an event kind.
func RecordEventReceived(kind string) {
	Default.EventsReceived.WithLabelValues(kind).Inc()
}

// RecordEventSuppressed increments the suppressed counter for a reason.
func RecordEventSuppressed(reason string) {
	Default.EventsSuppressed.WithLabelValues(reason).Inc()
}

// RecordEventEmitted increments the emitted counter for an action.
func RecordEventEmitted(action string) {
	Default.EventsEmitted.WithLabelValues(action).Inc()
}

// RecordDelivery records one delivery attempt with its outcome and duration.
func RecordDelivery(outcome string, seconds float64) {
	Default.Deliveries.WithLabelValues(outcome).Inc()
	Default.DeliverySeconds.Observe(seconds)
}

// SetCursor updates the cursor value gauge.
func SetCursor(value uint64) {
	Default.CursorValue.Set(float64(value))
}

// RecordCursorSaveError increments the persistence failure counter.
func RecordCursorSaveError() {
	Default.CursorSaveErrors.Inc()
}

// RecordBacklogScanned adds to the backlog scan counter.
func RecordBacklogScanned(n int) {
	Default.BacklogScanned.Add(float64(n))
}

// SetFeedConnected updates the feed connection gauge.
func SetFeedConnected(connected bool) {
	if connected {
		Default.FeedConnected.Set(1)
	} else {
		Default.FeedConnected.Set(0)
	}
}

// RecordFeedReconnect increments the reconnect counter.
func RecordFeedReconnect() {
	Default.FeedReconnects.Inc()
}

// RecordFeedDropped increments the dropped frame counter.
func RecordFeedDropped() {
	Default.FeedDropped.Inc()
}
