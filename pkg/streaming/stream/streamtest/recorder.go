package streamtest

import (
	"sync"

	"github.com/vnykmshr/chunkflow/pkg/streaming/stream"
)

// Recorder is an Observer that records every notification it receives.
//
// Recorder is safe to inspect from other goroutines while it is subscribed.
type Recorder[T any] struct {
	mu            sync.Mutex
	notifications []stream.Notification[T]
	done          chan struct{}
	doneOnce      sync.Once
}

// NewRecorder constructs an empty Recorder.
func NewRecorder[T any]() *Recorder[T] {
	return &Recorder[T]{done: make(chan struct{})}
}

// OnNext implements stream.Observer.
func (r *Recorder[T]) OnNext(value T) {
	r.record(stream.Notification[T]{Kind: stream.KindNext, Value: value})
}

// OnError implements stream.Observer.
func (r *Recorder[T]) OnError(err error) {
	r.record(stream.Notification[T]{Kind: stream.KindError, Err: err})
}

// OnComplete implements stream.Observer.
func (r *Recorder[T]) OnComplete() {
	r.record(stream.Notification[T]{Kind: stream.KindComplete})
}

func (r *Recorder[T]) record(n stream.Notification[T]) {
	r.mu.Lock()
	r.notifications = append(r.notifications, n)
	r.mu.Unlock()

	if n.IsTerminal() {
		r.doneOnce.Do(func() { close(r.done) })
	}
}

// Terminated is closed once a terminal notification has been recorded.
func (r *Recorder[T]) Terminated() <-chan struct{} {
	return r.done
}

// Notifications returns a snapshot copy of every recorded notification.
func (r *Recorder[T]) Notifications() []stream.Notification[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := make([]stream.Notification[T], len(r.notifications))
	copy(cp, r.notifications)
	return cp
}

// Values returns the recorded values in arrival order.
func (r *Recorder[T]) Values() []T {
	ns := r.Notifications()
	out := make([]T, 0, len(ns))
	for _, n := range ns {
		if n.Kind == stream.KindNext {
			out = append(out, n.Value)
		}
	}
	return out
}

// Err returns the recorded failure, if any.
func (r *Recorder[T]) Err() error {
	for _, n := range r.Notifications() {
		if n.Kind == stream.KindError {
			return n.Err
		}
	}
	return nil
}

// Completed reports whether OnComplete was recorded.
func (r *Recorder[T]) Completed() bool {
	for _, n := range r.Notifications() {
		if n.Kind == stream.KindComplete {
			return true
		}
	}
	return false
}

// Terminals returns the number of terminal notifications recorded. Anything
// other than 0 or 1 is a contract violation.
func (r *Recorder[T]) Terminals() int {
	count := 0
	for _, n := range r.Notifications() {
		if n.IsTerminal() {
			count++
		}
	}
	return count
}
