/*
Package stream provides the push-based event stream abstraction the chunkflow
combinators are built on.

A Stream is lazy: nothing runs until Subscribe is called, and each call to
Subscribe starts an independent run with its own state. Values are pushed to
an Observer; a subscription ends with exactly one of OnError or OnComplete, or
silently when it is cancelled.

Core Concepts:

  - Stream[T]: Subscribe(ctx, observer) returns a Subscription
  - Observer[T]: OnNext, OnError, OnComplete; calls never overlap
  - Subscription: Cancel() never blocks, Done() closes once all goroutines exited
  - Operator[T, R]: a func(Stream[T]) Stream[R], applied with Pipe

Basic Usage:

	s := stream.Pipe(
		stream.Just(1, 2, 3, 4, 5),
		stream.Filter(func(x int) bool { return x%2 == 0 }),
	)

	values, err := stream.Collect(ctx, s)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(values) // [2 4]

Custom Streams:

New wraps a ProduceFunc that runs on its own goroutine per subscription.
Returning nil completes the stream, returning an error fails it, and emit
reports false once the consumer has cancelled:

	lines := stream.New(func(ctx context.Context, emit func(string) bool) error {
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			if !emit(scanner.Text()) {
				return nil
			}
		}
		return scanner.Err()
	})

A panic inside a producer is converted into a failure wrapping
errors.ErrPanic.

Sources:

	stream.Empty[int]()                 // completes immediately
	stream.Never[int]()                 // never emits, never terminates
	stream.Fail[int](err)               // fails immediately
	stream.Just(1, 2, 3)                // fixed values
	stream.FromChannel(ch)              // until ch is closed
	stream.Timer(time.Second)           // one value after a delay
	stream.Interval(100*time.Millisecond) // 0, 1, 2, ... forever
	stream.Defer(factory)               // fresh stream per subscription

Operators:

Map, Filter, Take, Concat and Finalize. Finalize runs a callback once a
particular subscription has terminated for any reason, which is how callers
observe that a stream instance has gone idle.

Observing Notifications:

Notify turns a single callback into an Observer, classifying every call as a
Notification of kind KindNext, KindError or KindComplete. Combinators use it
to funnel the notifications of several inner subscriptions into one queue.

Terminal Helpers:

Collect, ForEach, Count and Drain subscribe, block until the stream
terminates or ctx is done, and return the stream's failure or ctx.Err().

Thread Safety:

Subscribe and Cancel may be called from any goroutine. Observers are invoked
from the subscription's delivery goroutine and must not block indefinitely,
since a slow observer holds back its producer.
*/
package stream
