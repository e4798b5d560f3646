// Package metrics provides Prometheus instrumentation for chunkflow components.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all metric instances for chunkflow components.
//
// A nil *Registry is valid and records nothing, so components can call its
// helper methods unconditionally.
type Registry struct {
	// Chunked backpressure metrics
	ChunksDispatched *prometheus.CounterVec
	ChunkSize        *prometheus.HistogramVec
	HandlerDuration  *prometheus.HistogramVec
	BufferedItems    *prometheus.GaugeVec
	DownstreamBusy   *prometheus.GaugeVec

	// Failover metrics
	FailoverSwitches *prometheus.CounterVec

	// Shared stream metrics
	ActiveSubscriptions *prometheus.GaugeVec
	StreamErrors        *prometheus.CounterVec
	SourceItems         *prometheus.CounterVec
}

// DefaultRegistry is the default metrics registry used by chunkflow components.
var DefaultRegistry *Registry

func init() {
	DefaultRegistry = NewRegistry(prometheus.DefaultRegisterer)
}

// NewRegistry creates a new metrics registry with the given Prometheus registerer.
func NewRegistry(reg prometheus.Registerer) *Registry {
	return NewRegistryWithConfig(Config{Enabled: true, Registry: reg})
}

// NewRegistryWithConfig creates a metrics registry honouring the namespace and
// constant labels of config. It returns nil when config is disabled.
func NewRegistryWithConfig(config Config) *Registry {
	if !config.Enabled {
		return nil
	}

	namespace := config.Namespace
	if namespace == "" {
		namespace = DefaultNamespace
	}

	reg := config.Registry
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if len(config.Labels) > 0 {
		reg = prometheus.WrapRegistererWith(config.Labels, reg)
	}
	factory := promauto.With(reg)

	return &Registry{
		ChunksDispatched: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "backpressure",
				Name:      "chunks_dispatched_total",
				Help:      "Total number of chunks handed to the handler",
			},
			[]string{"name"},
		),

		ChunkSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "backpressure",
				Name:      "chunk_size",
				Help:      "Number of source values per dispatched chunk",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
			},
			[]string{"name"},
		),

		HandlerDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "backpressure",
				Name:      "handler_duration_seconds",
				Help:      "Time from handler invocation until its result stream completed",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"name"},
		),

		BufferedItems: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "backpressure",
				Name:      "buffered_items",
				Help:      "Source values waiting for the downstream stage to become idle",
			},
			[]string{"name"},
		),

		DownstreamBusy: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "backpressure",
				Name:      "downstream_busy",
				Help:      "Number of subscriptions with a handler result stream in flight",
			},
			[]string{"name"},
		),

		FailoverSwitches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "failover",
				Name:      "switches_total",
				Help:      "Total number of switch-overs to a later source",
			},
			[]string{"name"},
		),

		ActiveSubscriptions: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "stream",
				Name:      "active_subscriptions",
				Help:      "Number of live subscriptions per operator",
			},
			[]string{"operator", "name"},
		),

		StreamErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "stream",
				Name:      "errors_total",
				Help:      "Total number of failed subscriptions by failure kind",
			},
			[]string{"operator", "name", "kind"},
		),

		SourceItems: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "source",
				Name:      "items_total",
				Help:      "Total number of values emitted by external sources",
			},
			[]string{"source_type", "name"},
		),
	}
}

// SubscriptionStarted increments the live subscription gauge.
func (r *Registry) SubscriptionStarted(operator, name string) {
	if r == nil {
		return
	}
	r.ActiveSubscriptions.WithLabelValues(operator, name).Inc()
}

// SubscriptionEnded decrements the live subscription gauge.
func (r *Registry) SubscriptionEnded(operator, name string) {
	if r == nil {
		return
	}
	r.ActiveSubscriptions.WithLabelValues(operator, name).Dec()
}

// StreamFailed counts a failed subscription.
func (r *Registry) StreamFailed(operator, name, kind string) {
	if r == nil {
		return
	}
	r.StreamErrors.WithLabelValues(operator, name, kind).Inc()
}

// SourceEmitted counts a value emitted by an external source.
func (r *Registry) SourceEmitted(sourceType, name string) {
	if r == nil {
		return
	}
	r.SourceItems.WithLabelValues(sourceType, name).Inc()
}
