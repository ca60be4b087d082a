package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// FulfillmentMetrics records cart aggregation and basket generation outcomes.
type FulfillmentMetrics struct {
	aggregationDuration *prometheus.HistogramVec
	unserviceableItems  *prometheus.CounterVec
	basketGenerated     *prometheus.CounterVec
	basketSize          prometheus.Histogram
}

// NewFulfillmentMetrics registers the fulfillment metrics on the provided registerer.
func NewFulfillmentMetrics(reg prometheus.Registerer) *FulfillmentMetrics {
	if reg == nil {
		return &FulfillmentMetrics{}
	}
	aggregationDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cart_aggregation_duration_seconds",
		Help:    "Duration of cart aggregation calls in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"surface"})
	unserviceableItems := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_unserviceable_items_total",
		Help: "Cart items routed to the unserviceable list, by reason.",
	}, []string{"reason"})
	basketGenerated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "basket_generations_total",
		Help: "Curated basket generation attempts, by outcome.",
	}, []string{"outcome"})
	basketSize := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "basket_selection_size",
		Help:    "Number of items selected per generated basket.",
		Buckets: []float64{0, 1, 2, 3, 5, 8, 10, 15, 25},
	})
	reg.MustRegister(aggregationDuration, unserviceableItems, basketGenerated, basketSize)
	return &FulfillmentMetrics{
		aggregationDuration: aggregationDuration,
		unserviceableItems:  unserviceableItems,
		basketGenerated:     basketGenerated,
		basketSize:          basketSize,
	}
}

// ObserveAggregation records the duration of an aggregation call for the
// named surface (cart, basket, checkout).
func (m *FulfillmentMetrics) ObserveAggregation(surface string, duration time.Duration) {
	if m == nil || m.aggregationDuration == nil {
		return
	}
	m.aggregationDuration.WithLabelValues(normalizeLabel(surface)).Observe(duration.Seconds())
}

// IncUnserviceable counts an item that could not be routed to a zone group.
func (m *FulfillmentMetrics) IncUnserviceable(reason string) {
	if m == nil || m.unserviceableItems == nil {
		return
	}
	m.unserviceableItems.WithLabelValues(normalizeLabel(reason)).Inc()
}

// IncBasketGeneration counts a basket generation attempt by outcome
// (generated, cancelled, failed).
func (m *FulfillmentMetrics) IncBasketGeneration(outcome string) {
	if m == nil || m.basketGenerated == nil {
		return
	}
	m.basketGenerated.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// ObserveBasketSize records how many items a generation selected.
func (m *FulfillmentMetrics) ObserveBasketSize(size int) {
	if m == nil || m.basketSize == nil {
		return
	}
	m.basketSize.Observe(float64(size))
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
