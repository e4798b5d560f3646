package stream

import (
	"context"
	"errors"

	cferrors "github.com/vnykmshr/chunkflow/pkg/common/errors"
)

// ErrNilStream is returned when a nil Stream is passed where a stream is required.
var ErrNilStream = errors.New("stream is nil")

// Observer receives the notifications of a single subscription.
//
// Calls belonging to one subscription never overlap. A subscription delivers
// any number of OnNext calls followed by at most one of OnError or OnComplete.
// A cancelled subscription delivers no terminal notification.
type Observer[T any] interface {
	// OnNext delivers the next value.
	OnNext(value T)

	// OnError delivers a failure. No further notifications follow.
	OnError(err error)

	// OnComplete signals successful termination. No further notifications follow.
	OnComplete()
}

// Subscription is the handle returned by Stream.Subscribe.
type Subscription interface {
	// Cancel stops further delivery and releases the subscription's resources.
	// It never blocks and may be called any number of times, from any goroutine,
	// including from inside the subscription's own Observer.
	Cancel()

	// Done is closed once every goroutine started for the subscription has
	// exited, after the terminal notification (if any) was delivered.
	Done() <-chan struct{}
}

// Stream is a lazy, push-based sequence of values. Nothing happens until
// Subscribe is called, and every call to Subscribe starts an independent run
// with its own state.
type Stream[T any] interface {
	// Subscribe starts delivering values to observer. Cancelling ctx has the
	// same effect as cancelling the returned Subscription.
	Subscribe(ctx context.Context, observer Observer[T]) Subscription
}

// ProduceFunc drives a stream created with New. It runs on a dedicated
// goroutine per subscription and delivers values through emit, which reports
// false once the subscription has been cancelled. Returning nil completes the
// stream, returning an error fails it. Producers must return promptly once ctx
// is done.
type ProduceFunc[T any] func(ctx context.Context, emit func(T) bool) error

// Operator transforms one stream into another.
type Operator[T, R any] func(Stream[T]) Stream[R]

// Pipe applies op to s.
func Pipe[T, R any](s Stream[T], op Operator[T, R]) Stream[R] {
	return op(s)
}

// producerStream is the default implementation of Stream.
type producerStream[T any] struct {
	produce ProduceFunc[T]
}

// New creates a Stream driven by produce.
func New[T any](produce ProduceFunc[T]) Stream[T] {
	if produce == nil {
		panic("stream: nil ProduceFunc")
	}
	return &producerStream[T]{produce: produce}
}

// Subscribe implements Stream.Subscribe.
func (s *producerStream[T]) Subscribe(ctx context.Context, observer Observer[T]) Subscription {
	if observer == nil {
		observer = ObserverFuncs[T]{}
	}

	ctx, cancel := context.WithCancel(ctx)
	sub := &subscription{cancel: cancel, done: make(chan struct{})}

	go runProducer(ctx, sub, s.produce, observer)

	return sub
}

func runProducer[T any](ctx context.Context, sub *subscription, produce ProduceFunc[T], observer Observer[T]) {
	defer close(sub.done)
	defer sub.cancel()

	emit := func(value T) bool {
		if ctx.Err() != nil {
			return false
		}
		observer.OnNext(value)
		return ctx.Err() == nil
	}

	err := safeProduce(ctx, produce, emit)

	// Cancelled subscriptions end silently.
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		observer.OnError(err)
		return
	}
	observer.OnComplete()
}

func safeProduce[T any](ctx context.Context, produce ProduceFunc[T], emit func(T) bool) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = cferrors.NewOperationError("stream", "produce", cferrors.PanicError(r))
		}
	}()
	return produce(ctx, emit)
}

// subscription implements Subscription.
type subscription struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Cancel implements Subscription.Cancel.
func (s *subscription) Cancel() {
	s.cancel()
}

// Done implements Subscription.Done.
func (s *subscription) Done() <-chan struct{} {
	return s.done
}

// ObserverFuncs adapts plain functions to the Observer interface. Nil fields
// are ignored.
type ObserverFuncs[T any] struct {
	Next     func(T)
	Error    func(error)
	Complete func()
}

// OnNext implements Observer.OnNext.
func (o ObserverFuncs[T]) OnNext(value T) {
	if o.Next != nil {
		o.Next(value)
	}
}

// OnError implements Observer.OnError.
func (o ObserverFuncs[T]) OnError(err error) {
	if o.Error != nil {
		o.Error(err)
	}
}

// OnComplete implements Observer.OnComplete.
func (o ObserverFuncs[T]) OnComplete() {
	if o.Complete != nil {
		o.Complete()
	}
}
