package telemetry

import (
	"github.com/dukerupert/storefront/internal/cart"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// CartMetrics holds Prometheus metrics for cart operations.
// A nil *CartMetrics is valid and records nothing.
type CartMetrics struct {
	Operations   *prometheus.CounterVec
	Failures     *prometheus.CounterVec
	DroppedItems *prometheus.CounterVec
	SyncOutcomes *prometheus.CounterVec
	CartValue    *prometheus.HistogramVec
	CartItems    *prometheus.HistogramVec
}

// NewCartMetrics creates the cart metrics and registers them with reg.
// A nil reg registers with the default registry.
func NewCartMetrics(namespace string, reg prometheus.Registerer) *CartMetrics {
	if namespace == "" {
		namespace = "storefront"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	subsystem := "cart"

	return &CartMetrics{
		Operations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "operations_total",
				Help:      "Total cart operations by outcome",
			},
			[]string{"operation", "mode", "result"}, // result: ok, error
		),
		Failures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "failures_total",
				Help:      "Total failed cart operations by error code",
			},
			[]string{"operation", "code"},
		),
		DroppedItems: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "dropped_items_total",
				Help:      "Malformed cart lines discarded during normalization",
			},
			[]string{"source"}, // source: api, snapshot
		),
		SyncOutcomes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "sync_total",
				Help:      "Guest cart migrations by final status",
			},
			[]string{"status"},
		),
		CartValue: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "value",
				Help:      "Cart total after each successful operation",
				Buckets:   []float64{10000, 25000, 50000, 100000, 150000, 250000, 500000, 1000000},
			},
			[]string{"mode"},
		),
		CartItems: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "items",
				Help:      "Cart item count after each successful operation",
				Buckets:   []float64{1, 2, 3, 5, 10, 20, 50},
			},
			[]string{"mode"},
		),
	}
}

// ObserveOperation records the outcome of one cart operation.
func (m *CartMetrics) ObserveOperation(operation string, mode cart.Mode, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.Operations.WithLabelValues(operation, string(mode), "error").Inc()
		m.Failures.WithLabelValues(operation, cart.ErrorCode(err)).Inc()
		return
	}
	m.Operations.WithLabelValues(operation, string(mode), "ok").Inc()
}

// ObserveCart records the shape of the cart after an operation.
func (m *CartMetrics) ObserveCart(mode cart.Mode, c cart.Cart) {
	if m == nil {
		return
	}
	m.CartValue.WithLabelValues(string(mode)).Observe(c.Total)
	m.CartItems.WithLabelValues(string(mode)).Observe(float64(c.ItemCount))
}

// ObserveDropped records malformed lines discarded from source.
func (m *CartMetrics) ObserveDropped(source string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.DroppedItems.WithLabelValues(source).Add(float64(n))
}

// ObserveSync records the final status of a guest cart migration.
func (m *CartMetrics) ObserveSync(status cart.SyncStatus) {
	if m == nil {
		return
	}
	m.SyncOutcomes.WithLabelValues(string(status)).Inc()
}
