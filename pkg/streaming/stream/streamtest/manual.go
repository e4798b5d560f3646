package streamtest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/vnykmshr/chunkflow/internal/testutil"
	"github.com/vnykmshr/chunkflow/pkg/streaming/stream"
)

type commandKind int

const (
	cmdNext commandKind = iota
	cmdError
	cmdComplete
)

type command[T any] struct {
	kind  commandKind
	value T
	err   error
	ack   chan struct{}
}

// ManualStream is a Stream whose notifications are pushed by the test.
//
// Each call to Next, Error or Complete is handed to one active subscription
// and blocks until that subscription has delivered it. Terminal commands
// unblock once the subscription has fully shut down.
type ManualStream[T any] struct {
	tb      testing.TB
	timeout time.Duration
	cmds    chan command[T]

	mu         sync.Mutex
	active     int
	total      int
	subscribed chan struct{}
}

// NewManualStream creates a ManualStream bound to tb.
func NewManualStream[T any](tb testing.TB) *ManualStream[T] {
	return &ManualStream[T]{
		tb:         tb,
		timeout:    testutil.TestTimeout,
		cmds:       make(chan command[T]),
		subscribed: make(chan struct{}),
	}
}

// Subscribe implements stream.Stream.
func (m *ManualStream[T]) Subscribe(ctx context.Context, observer stream.Observer[T]) stream.Subscription {
	m.mu.Lock()
	m.active++
	m.total++
	if m.total == 1 {
		close(m.subscribed)
	}
	m.mu.Unlock()

	var pending chan struct{}
	s := stream.New(func(ctx context.Context, emit func(T) bool) error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case cmd := <-m.cmds:
				switch cmd.kind {
				case cmdNext:
					emit(cmd.value)
					close(cmd.ack)
				case cmdError:
					pending = cmd.ack
					return cmd.err
				case cmdComplete:
					pending = cmd.ack
					return nil
				}
			}
		}
	})

	return stream.Pipe(s, stream.Finalize[T](func() {
		m.mu.Lock()
		m.active--
		m.mu.Unlock()
		if pending != nil {
			close(pending)
		}
	})).Subscribe(ctx, observer)
}

// Next pushes value to the active subscription.
func (m *ManualStream[T]) Next(value T) {
	m.tb.Helper()
	m.send(command[T]{kind: cmdNext, value: value})
}

// Error fails the active subscription with err.
func (m *ManualStream[T]) Error(err error) {
	m.tb.Helper()
	m.send(command[T]{kind: cmdError, err: err})
}

// Complete completes the active subscription.
func (m *ManualStream[T]) Complete() {
	m.tb.Helper()
	m.send(command[T]{kind: cmdComplete})
}

func (m *ManualStream[T]) send(cmd command[T]) {
	m.tb.Helper()
	cmd.ack = make(chan struct{})

	select {
	case m.cmds <- cmd:
	case <-time.After(m.timeout):
		m.tb.Fatalf("no active subscription accepted the notification within %v", m.timeout)
	}

	select {
	case <-cmd.ack:
	case <-time.After(m.timeout):
		m.tb.Fatalf("notification not delivered within %v", m.timeout)
	}
}

// WaitSubscribed blocks until the stream has been subscribed at least once.
func (m *ManualStream[T]) WaitSubscribed() {
	m.tb.Helper()
	select {
	case <-m.subscribed:
	case <-time.After(m.timeout):
		m.tb.Fatalf("stream not subscribed within %v", m.timeout)
	}
}

// Active returns the number of subscriptions that have not yet shut down.
func (m *ManualStream[T]) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// Subscriptions returns the number of times the stream was subscribed.
func (m *ManualStream[T]) Subscriptions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.total
}
