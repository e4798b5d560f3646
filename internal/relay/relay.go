// Package relay funnels the notifications of several inner subscriptions into
// a single queue drained by one goroutine.
//
// Combinators own a Mailbox per subscription. Inner observers created with
// Tap post tagged events into it, and the combinator's loop goroutine is the
// only reader, so all state transitions happen on that goroutine. Closing the
// mailbox makes every pending and future Post return false, which lets
// inner delivery goroutines exit even if nobody drains the queue anymore.
package relay

import (
	"sync"

	"github.com/vnykmshr/chunkflow/pkg/streaming/stream"
)

// DefaultSize is the mailbox capacity used when none is configured.
const DefaultSize = 64

// Mailbox is a bounded multi-producer, single-consumer event queue.
type Mailbox[E any] struct {
	ch     chan E
	closed chan struct{}
	once   sync.Once
}

// New creates a Mailbox holding up to size events. A size of zero or less
// selects DefaultSize.
func New[E any](size int) *Mailbox[E] {
	if size <= 0 {
		size = DefaultSize
	}
	return &Mailbox[E]{
		ch:     make(chan E, size),
		closed: make(chan struct{}),
	}
}

// Post enqueues e, blocking while the mailbox is full. It returns false if
// the mailbox was closed before e could be enqueued.
func (m *Mailbox[E]) Post(e E) bool {
	select {
	case <-m.closed:
		return false
	default:
	}

	select {
	case m.ch <- e:
		return true
	case <-m.closed:
		return false
	}
}

// Receive returns the channel the consumer reads events from. The channel is
// never closed; consumers select on it alongside their own cancellation.
func (m *Mailbox[E]) Receive() <-chan E {
	return m.ch
}

// Close rejects all further posts and releases blocked posters. Safe to call
// more than once.
func (m *Mailbox[E]) Close() {
	m.once.Do(func() { close(m.closed) })
}

// Closed is closed once Close has been called.
func (m *Mailbox[E]) Closed() <-chan struct{} {
	return m.closed
}

// Tap returns an Observer that wraps every notification it receives with
// wrap and posts the result to m.
func Tap[T, E any](m *Mailbox[E], wrap func(stream.Notification[T]) E) stream.Observer[T] {
	return stream.Notify(func(n stream.Notification[T]) {
		m.Post(wrap(n))
	})
}

// Release cancels every non-nil subscription, then waits until all of them
// have shut down.
func Release(subs ...stream.Subscription) {
	for _, s := range subs {
		if s != nil {
			s.Cancel()
		}
	}
	for _, s := range subs {
		if s != nil {
			<-s.Done()
		}
	}
}
