// Package sink provides ready-made chunk handlers for backpressure.Chunked.
//
// Each handler performs one batched write per chunk, which is where chunked
// backpressure pays off: a burst of values arriving while a write is in
// flight becomes a single round trip instead of many.
//
//	persist := backpressure.Chunked(sink.RedisList(client, "audit"))
//	lengths := persist(events) // emits the list length after every RPUSH
//
//	logLines := backpressure.Chunked(sink.Lines(os.Stdout))
package sink
