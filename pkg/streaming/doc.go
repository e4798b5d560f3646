/*
Package streaming groups the push-stream packages of chunkflow.

  - stream: the Stream[T] contract, sources, operators and terminal helpers
  - backpressure: Chunked, which buffers values while a handler is busy and
    hands them over as one chunk once it is idle
  - failover: Then and Chain, switching from a stale stream to a fresher one
    on its first value
  - source: streams fed by Redis pub/sub and cron schedules
  - sink: chunk handlers writing batches to Redis lists and io.Writers

Basic usage:

	persist := backpressure.Chunked(sink.RedisList(client, "events"))
	live := source.FromRedisPubSub(client, "events")

	err := stream.Drain(ctx, persist(live))
*/
package streaming
