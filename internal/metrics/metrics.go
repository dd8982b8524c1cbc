// Package metrics holds the Prometheus collectors for hydration runs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for ItemsTotal.
const (
	OutcomeHydrated = "hydrated"
	OutcomeOrphan   = "orphan"
	OutcomeError    = "error"
)

// Metrics groups the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	ItemsTotal     *prometheus.CounterVec
	Duration       prometheus.Histogram
	BaseCacheTotal *prometheus.CounterVec
}

// New creates the collectors and registers them with reg. A nil reg leaves
// them unregistered.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ItemsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hydrate_items_total",
				Help: "Items processed, by outcome.",
			},
			[]string{"outcome"},
		),
		Duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "hydrate_duration_seconds",
				Help:    "Time spent hydrating a single item.",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
		),
		BaseCacheTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hydrate_base_cache_total",
				Help: "Base template cache lookups, by result.",
			},
			[]string{"result"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.ItemsTotal, m.Duration, m.BaseCacheTotal)
	}
	return m
}

// Item records one processed item.
func (m *Metrics) Item(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.ItemsTotal.WithLabelValues(outcome).Inc()
	m.Duration.Observe(d.Seconds())
}

// CacheLookup records a base cache hit or miss.
func (m *Metrics) CacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.BaseCacheTotal.WithLabelValues(result).Inc()
}
