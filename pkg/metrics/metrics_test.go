package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNilRegistryIsNoop(t *testing.T) {
	var r *Registry
	r.SubscriptionStarted("failover", "x")
	r.SubscriptionEnded("failover", "x")
	r.StreamFailed("failover", "x", "source")
	r.SourceEmitted("redis", "x")
}

func TestDisabledConfig(t *testing.T) {
	if r := NewRegistryWithConfig(Config{Enabled: false}); r != nil {
		t.Error("disabled config should yield a nil registry")
	}
}

func TestSubscriptionGauge(t *testing.T) {
	r := NewRegistry(prometheus.NewRegistry())

	r.SubscriptionStarted("backpressure", "ingest")
	r.SubscriptionStarted("backpressure", "ingest")
	r.SubscriptionEnded("backpressure", "ingest")

	got := testutil.ToFloat64(r.ActiveSubscriptions.WithLabelValues("backpressure", "ingest"))
	if got != 1 {
		t.Errorf("active subscriptions = %v, want 1", got)
	}
}

func TestSourceItemsExposition(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRegistry(reg)

	r.SourceEmitted("cron", "ticks")
	r.SourceEmitted("cron", "ticks")

	expected := `
# HELP chunkflow_source_items_total Total number of values emitted by external sources
# TYPE chunkflow_source_items_total counter
chunkflow_source_items_total{name="ticks",source_type="cron"} 2
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "chunkflow_source_items_total"); err != nil {
		t.Error(err)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if !cfg.Enabled || cfg.Namespace != DefaultNamespace || cfg.Registry == nil {
		t.Errorf("unexpected default config: %+v", cfg)
	}
	if DefaultRegistry == nil {
		t.Fatal("DefaultRegistry should be initialised")
	}
}
