package metrics

import "github.com/prometheus/client_golang/prometheus"

// OrderMetrics records storefront order and payment activity.
type OrderMetrics struct {
	orders     *prometheus.CounterVec
	mismatches prometheus.Counter
}

// NewOrderMetrics registers the order metrics; a nil registerer yields a no-op recorder.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	orders := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "foushack",
		Name:      "orders_total",
		Help:      "Storefront orders by payment status transition.",
	}, []string{"status"})
	mismatches := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "foushack",
		Name:      "payment_signature_mismatches_total",
		Help:      "Payment confirmations rejected for a bad signature.",
	})
	reg.MustRegister(orders, mismatches)
	return &OrderMetrics{orders: orders, mismatches: mismatches}
}

// IncOrder counts an order entering the given payment status.
func (m *OrderMetrics) IncOrder(status string) {
	if m == nil || m.orders == nil {
		return
	}
	m.orders.WithLabelValues(normalizeLabel(status)).Inc()
}

// IncSignatureMismatch counts a rejected payment confirmation.
func (m *OrderMetrics) IncSignatureMismatch() {
	if m == nil || m.mismatches == nil {
		return
	}
	m.mismatches.Inc()
}
