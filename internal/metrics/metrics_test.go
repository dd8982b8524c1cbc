package metrics_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/stac-utils/hydrate/internal/metrics"
)

func TestMetrics_Record(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	m.Item(metrics.OutcomeHydrated, time.Millisecond)
	m.Item(metrics.OutcomeHydrated, time.Millisecond)
	m.Item(metrics.OutcomeError, time.Millisecond)
	m.CacheLookup(true)
	m.CacheLookup(false)
	m.CacheLookup(false)

	if got := testutil.ToFloat64(m.ItemsTotal.WithLabelValues(metrics.OutcomeHydrated)); got != 2 {
		t.Fatalf("hydrated=%v", got)
	}
	if got := testutil.ToFloat64(m.BaseCacheTotal.WithLabelValues("miss")); got != 2 {
		t.Fatalf("miss=%v", got)
	}
	if n, err := testutil.GatherAndCount(reg, "hydrate_duration_seconds"); err != nil || n != 1 {
		t.Fatalf("histogram series=%d err=%v", n, err)
	}
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *metrics.Metrics
	m.Item(metrics.OutcomeOrphan, time.Second)
	m.CacheLookup(true)
}
