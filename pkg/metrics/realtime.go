package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RealtimeMetrics records websocket and notification delivery activity.
type RealtimeMetrics struct {
	connections   prometheus.Gauge
	broadcasts    *prometheus.CounterVec
	notifications *prometheus.CounterVec
	markReadBatch *prometheus.HistogramVec
}

// NewRealtimeMetrics registers the realtime metrics on the provided registerer.
func NewRealtimeMetrics(reg prometheus.Registerer) *RealtimeMetrics {
	if reg == nil {
		return &RealtimeMetrics{}
	}
	connections := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "realtime_connections",
		Help: "Currently connected websocket clients.",
	})
	broadcasts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "realtime_events_broadcast",
		Help: "Events broadcast to realtime rooms.",
	}, []string{"event"})
	notifications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_created",
		Help: "Notification rows created per type.",
	}, []string{"type"})
	markReadBatch := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "notifications_mark_read_batch_seconds",
		Help:    "Duration of mark-read batch operations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	reg.MustRegister(connections, broadcasts, notifications, markReadBatch)
	return &RealtimeMetrics{
		connections:   connections,
		broadcasts:    broadcasts,
		notifications: notifications,
		markReadBatch: markReadBatch,
	}
}

// ConnOpened increments the connection gauge.
func (r *RealtimeMetrics) ConnOpened() {
	if r == nil || r.connections == nil {
		return
	}
	r.connections.Inc()
}

// ConnClosed decrements the connection gauge.
func (r *RealtimeMetrics) ConnClosed() {
	if r == nil || r.connections == nil {
		return
	}
	r.connections.Dec()
}

// IncBroadcast counts an event broadcast to connected clients.
func (r *RealtimeMetrics) IncBroadcast(event string) {
	if r == nil || r.broadcasts == nil {
		return
	}
	r.broadcasts.WithLabelValues(normalizeLabel(event)).Inc()
}

// IncNotificationCreated counts a persisted notification by type.
func (r *RealtimeMetrics) IncNotificationCreated(notificationType string) {
	if r == nil || r.notifications == nil {
		return
	}
	r.notifications.WithLabelValues(normalizeLabel(notificationType)).Inc()
}

// ObserveMarkReadBatch records the duration of a mark-read batch with its outcome.
func (r *RealtimeMetrics) ObserveMarkReadBatch(outcome string, duration time.Duration) {
	if r == nil || r.markReadBatch == nil {
		return
	}
	r.markReadBatch.WithLabelValues(normalizeLabel(outcome)).Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
