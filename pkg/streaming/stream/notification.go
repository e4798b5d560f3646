package stream

import "fmt"

// Kind classifies a Notification.
type Kind uint8

const (
	// KindNext carries a value.
	KindNext Kind = iota + 1

	// KindError carries a failure and terminates the subscription.
	KindError

	// KindComplete terminates the subscription successfully.
	KindComplete
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNext:
		return "next"
	case KindError:
		return "error"
	case KindComplete:
		return "complete"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Notification is one observer call captured as a value.
type Notification[T any] struct {
	Value T
	Err   error
	Kind  Kind
}

// IsTerminal reports whether the notification ends its subscription.
func (n Notification[T]) IsTerminal() bool {
	return n.Kind == KindError || n.Kind == KindComplete
}

// Deliver replays the notification on observer.
func (n Notification[T]) Deliver(observer Observer[T]) {
	switch n.Kind {
	case KindNext:
		observer.OnNext(n.Value)
	case KindError:
		observer.OnError(n.Err)
	case KindComplete:
		observer.OnComplete()
	}
}

// notifyObserver funnels every observer call into one callback.
type notifyObserver[T any] func(Notification[T])

func (f notifyObserver[T]) OnNext(value T) {
	f(Notification[T]{Kind: KindNext, Value: value})
}

func (f notifyObserver[T]) OnError(err error) {
	f(Notification[T]{Kind: KindError, Err: err})
}

func (f notifyObserver[T]) OnComplete() {
	f(Notification[T]{Kind: KindComplete})
}

// Notify returns an Observer that reports every call to fn as a Notification.
func Notify[T any](fn func(Notification[T])) Observer[T] {
	return notifyObserver[T](fn)
}
