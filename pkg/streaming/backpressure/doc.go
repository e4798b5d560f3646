/*
Package backpressure provides the chunked backpressure operator.

Chunked runs a handler over batches of source values while guaranteeing that
at most one handler result stream is in flight at any time. Values arriving
while the downstream stage is busy are collected into a single pending chunk,
which is handed to the handler as soon as the in-flight result stream
completes:

	write := func(batch []Order) stream.Stream[Receipt] {
		return stream.New(func(ctx context.Context, emit func(Receipt) bool) error {
			receipt, err := store.InsertBatch(ctx, batch)
			if err != nil {
				return err
			}
			emit(receipt)
			return nil
		})
	}

	receipts := backpressure.Chunked(write)(orders)

State Machine:

Each subscription owns its own state and moves between three phases:

  - idle: a new value is handed to the handler alone and the phase becomes busy
  - busy: a new value starts the pending chunk and the phase becomes buffering
  - buffering: new values are appended to the pending chunk

When the in-flight result stream completes, a pending chunk is dispatched at
once; otherwise the phase returns to idle. The combined stream completes once
the source has completed and nothing is in flight or pending. Chunks are
never empty.

Errors:

A failing source, a failing result stream, a panicking handler or a handler
returning nil all fail the combined stream and tear down every inner
subscription. Use IsSourceFailure and IsHandlerFailure to tell them apart;
the original cause stays reachable through errors.Is and errors.As.

Configuration:

	cfg := backpressure.DefaultConfig()
	cfg.Name = "orders"
	cfg.Logger = &logger          // zerolog, nil disables logging
	cfg.Metrics = metrics.DefaultRegistry

	op, err := backpressure.ChunkedSafe(write, cfg)

Concurrency:

Source and result notifications are funnelled into a bounded per-subscription
mailbox drained by one goroutine, which owns the state. The handler runs on
that goroutine. Streams passed in as sources or returned by the handler must
deliver asynchronously, as every stream built with package stream does.
Cancelling the combined subscription cancels the source and the active result
stream, discards the pending chunk and never calls the handler again.
*/
package backpressure
