package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// InventoryMetrics records outcomes of the daily stock workflow.
type InventoryMetrics struct {
	duration *prometheus.HistogramVec
	items    *prometheus.CounterVec
	oversold prometheus.Gauge
}

// NewInventoryMetrics registers the inventory metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewInventoryMetrics(reg prometheus.Registerer) *InventoryMetrics {
	if reg == nil {
		return &InventoryMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "foushack",
		Name:      "inventory_batch_duration_seconds",
		Help:      "Duration of bulk inventory writes in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})
	items := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "foushack",
		Name:      "inventory_batch_items_total",
		Help:      "Per-product outcomes of bulk inventory writes.",
	}, []string{"operation", "outcome"})
	oversold := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "foushack",
		Name:      "inventory_oversold_products",
		Help:      "Products whose remaining stock was negative at the last summary.",
	})
	reg.MustRegister(duration, items, oversold)
	return &InventoryMetrics{
		duration: duration,
		items:    items,
		oversold: oversold,
	}
}

// ObserveBatch records the duration and per-item outcomes of a bulk write.
func (m *InventoryMetrics) ObserveBatch(operation string, elapsed time.Duration, applied, failed int) {
	if m == nil || m.duration == nil {
		return
	}
	op := normalizeLabel(operation)
	m.duration.WithLabelValues(op).Observe(elapsed.Seconds())
	if applied > 0 {
		m.items.WithLabelValues(op, "applied").Add(float64(applied))
	}
	if failed > 0 {
		m.items.WithLabelValues(op, "failed").Add(float64(failed))
	}
}

// SetOversold records how many products currently show negative stock.
func (m *InventoryMetrics) SetOversold(count int) {
	if m == nil || m.oversold == nil {
		return
	}
	m.oversold.Set(float64(count))
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
