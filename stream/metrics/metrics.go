// Package metrics exposes Prometheus instrumentation for a running stream
// graph.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// StreamMetrics collects Prometheus-compatible metrics for node lifecycle,
// event throughput, and throttle pressure across a stream graph.
//
// Metrics exposed (all namespaced with "streamkit_"):
//
//  1. active_nodes (gauge): Live node count, labeled by flavor.
//  2. events_total (counter): Events ingested, labeled by node_id, kind
//     (next/error/terminate).
//  3. events_dropped_total (counter): Events a throttle or filter dropped,
//     labeled by node_id, reason.
//  4. retries_total (counter): Retry attempts, labeled by node_id, reason.
//  5. ingest_latency_ms (histogram): Time spent inside one Node.ingest call,
//     labeled by node_id.
//  6. throttle_queue_depth (histogram): PressureThrottle buffer occupancy
//     at admission time, labeled by node_id.
//
// Thread-safe: every method is either a direct Prometheus client call
// (already safe for concurrent use) or guarded by mu.
type StreamMetrics struct {
	activeNodes   *prometheus.GaugeVec
	events        *prometheus.CounterVec
	eventsDropped *prometheus.CounterVec
	retries       *prometheus.CounterVec
	ingestLatency *prometheus.HistogramVec
	queueDepth    *prometheus.HistogramVec

	registry prometheus.Registerer
	mu       sync.RWMutex
	enabled  bool
}

// New creates and registers all stream metrics with the provided registry.
// Pass prometheus.DefaultRegisterer for the global registry, or a fresh
// prometheus.NewRegistry() for test isolation.
func New(registry prometheus.Registerer) *StreamMetrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}

	factory := promauto.With(registry)

	sm := &StreamMetrics{
		registry: registry,
		enabled:  true,
	}

	sm.activeNodes = factory.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "streamkit",
		Name:      "active_nodes",
		Help:      "Current number of live nodes, by flavor",
	}, []string{"flavor"})

	sm.events = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "streamkit",
		Name:      "events_total",
		Help:      "Events ingested by a node",
	}, []string{"node_id", "kind"})

	sm.eventsDropped = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "streamkit",
		Name:      "events_dropped_total",
		Help:      "Events suppressed by a filter or throttle",
	}, []string{"node_id", "reason"})

	sm.retries = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "streamkit",
		Name:      "retries_total",
		Help:      "Retry attempts made by RetrySync/RetryAsync",
	}, []string{"node_id", "reason"})

	sm.ingestLatency = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "streamkit",
		Name:      "ingest_latency_ms",
		Help:      "Duration of one Node.ingest call in milliseconds",
		Buckets:   []float64{0.1, 0.5, 1, 5, 10, 50, 100, 500, 1000},
	}, []string{"node_id"})

	sm.queueDepth = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "streamkit",
		Name:      "throttle_queue_depth",
		Help:      "PressureThrottle buffer occupancy observed at admission time",
		Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100},
	}, []string{"node_id"})

	return sm
}

// RecordIngest records the duration of one Node.ingest call and the kind of
// event it processed ("next", "error", or "terminate").
func (sm *StreamMetrics) RecordIngest(nodeID, kind string, latency time.Duration) {
	if !sm.isEnabled() {
		return
	}
	sm.events.WithLabelValues(nodeID, kind).Inc()
	sm.ingestLatency.WithLabelValues(nodeID).Observe(float64(latency) / float64(time.Millisecond))
}

// RecordDrop increments the dropped-event counter for a node and reason
// ("filter", "throttle", "merging").
func (sm *StreamMetrics) RecordDrop(nodeID, reason string) {
	if !sm.isEnabled() {
		return
	}
	sm.eventsDropped.WithLabelValues(nodeID, reason).Inc()
}

// RecordRetry increments the retry counter for a node and reason.
func (sm *StreamMetrics) RecordRetry(nodeID, reason string) {
	if !sm.isEnabled() {
		return
	}
	sm.retries.WithLabelValues(nodeID, reason).Inc()
}

// RecordQueueDepth observes a PressureThrottle's buffer occupancy.
func (sm *StreamMetrics) RecordQueueDepth(nodeID string, depth int) {
	if !sm.isEnabled() {
		return
	}
	sm.queueDepth.WithLabelValues(nodeID).Observe(float64(depth))
}

// SetActiveNodes sets the live node gauge for one flavor.
func (sm *StreamMetrics) SetActiveNodes(flavor string, count int) {
	if !sm.isEnabled() {
		return
	}
	sm.activeNodes.WithLabelValues(flavor).Set(float64(count))
}

func (sm *StreamMetrics) isEnabled() bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.enabled
}

// Disable stops metric recording (useful for benchmarks).
func (sm *StreamMetrics) Disable() {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.enabled = false
}

// Enable re-enables metric recording after Disable.
func (sm *StreamMetrics) Enable() {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.enabled = true
}
