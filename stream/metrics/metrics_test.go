package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	return m.GetCounter().GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	if err := g.Write(&m); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	return m.GetGauge().GetValue()
}

func TestRecordIngestIncrementsCounterAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	sm := New(reg)

	sm.RecordIngest("node1", "next", 5*time.Millisecond)

	got := counterValue(t, sm.events.WithLabelValues("node1", "next"))
	if got != 1 {
		t.Errorf("events_total = %v, want 1", got)
	}
}

func TestRecordDropIncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	sm := New(reg)

	sm.RecordDrop("node1", "throttle")
	sm.RecordDrop("node1", "throttle")

	got := counterValue(t, sm.eventsDropped.WithLabelValues("node1", "throttle"))
	if got != 2 {
		t.Errorf("events_dropped_total = %v, want 2", got)
	}
}

func TestRecordRetryIncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	sm := New(reg)

	sm.RecordRetry("node1", "error")

	got := counterValue(t, sm.retries.WithLabelValues("node1", "error"))
	if got != 1 {
		t.Errorf("retries_total = %v, want 1", got)
	}
}

func TestSetActiveNodesSetsGauge(t *testing.T) {
	reg := prometheus.NewRegistry()
	sm := New(reg)

	sm.SetActiveNodes("hot", 3)

	got := gaugeValue(t, sm.activeNodes.WithLabelValues("hot"))
	if got != 3 {
		t.Errorf("active_nodes = %v, want 3", got)
	}
}

func TestDisableSuppressesRecording(t *testing.T) {
	reg := prometheus.NewRegistry()
	sm := New(reg)

	sm.Disable()
	sm.RecordDrop("node1", "throttle")

	got := counterValue(t, sm.eventsDropped.WithLabelValues("node1", "throttle"))
	if got != 0 {
		t.Errorf("events_dropped_total = %v, want 0 while disabled", got)
	}

	sm.Enable()
	sm.RecordDrop("node1", "throttle")
	got = counterValue(t, sm.eventsDropped.WithLabelValues("node1", "throttle"))
	if got != 1 {
		t.Errorf("events_dropped_total = %v, want 1 after re-enable", got)
	}
}
