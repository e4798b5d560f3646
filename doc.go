/*
Package chunkflow provides push-stream combinators for Go services.

Streaming (pkg/streaming):
  - stream: Stream[T], Observer[T] and Subscription with sources and operators
  - backpressure: chunked backpressure with a single in-flight handler
  - failover: this-then-that switch-over between streams
  - source: Redis pub/sub and cron schedule sources
  - sink: batch handlers for Redis lists and writers

Observability (pkg/metrics):
  - Prometheus collectors shared by every operator

Example usage:

	import (
		"github.com/vnykmshr/chunkflow/pkg/streaming/backpressure"
		"github.com/vnykmshr/chunkflow/pkg/streaming/failover"
		"github.com/vnykmshr/chunkflow/pkg/streaming/stream"
	)

	prices := failover.Then(cachedPrices, livePrices)
	batched := backpressure.Chunked(saveBatch)(prices)

	err := stream.Drain(ctx, batched)
*/
package chunkflow
