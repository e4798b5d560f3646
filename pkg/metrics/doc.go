// Package metrics provides Prometheus instrumentation for chunkflow components.
//
// # Overview
//
// The combinators and sources accept an optional *Registry through their
// Config. A nil registry disables instrumentation. When set, they record:
//   - Chunked backpressure: chunks dispatched, chunk sizes, handler durations,
//     buffered values and whether downstream work is in flight
//   - Failover: switch-overs to a later source
//   - All operators: live subscriptions and failures by kind
//   - External sources: values emitted
//
// # Quick Start
//
// Use the default registry, which is registered with
// prometheus.DefaultRegisterer:
//
//	cfg := backpressure.DefaultConfig()
//	cfg.Name = "ingest"
//	cfg.Metrics = metrics.DefaultRegistry
//	out := backpressure.ChunkedWithConfig(handler, cfg)(src)
//
// Then expose metrics via HTTP:
//
//	http.Handle("/metrics", promhttp.Handler())
//	log.Fatal(http.ListenAndServe(":8080", nil))
//
// # Custom Registry
//
// Use a custom Prometheus registry for isolation. Each Registerer can back
// only one Registry, since promauto registers every collector on creation:
//
//	reg := prometheus.NewRegistry()
//	m := metrics.NewRegistryWithConfig(metrics.Config{
//		Enabled:   true,
//		Registry:  reg,
//		Namespace: "ingest",
//		Labels:    prometheus.Labels{"env": "prod"},
//	})
//
// # Available Metrics
//
//   - chunkflow_backpressure_chunks_dispatched_total{name}
//   - chunkflow_backpressure_chunk_size{name}
//   - chunkflow_backpressure_handler_duration_seconds{name}
//   - chunkflow_backpressure_buffered_items{name}
//   - chunkflow_backpressure_downstream_busy{name}
//   - chunkflow_failover_switches_total{name}
//   - chunkflow_stream_active_subscriptions{operator,name}
//   - chunkflow_stream_errors_total{operator,name,kind}
//   - chunkflow_source_items_total{source_type,name}
package metrics
