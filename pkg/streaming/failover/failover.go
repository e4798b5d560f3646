package failover

import (
	"context"
	"fmt"

	"github.com/vnykmshr/chunkflow/internal/logging"
	"github.com/vnykmshr/chunkflow/internal/relay"
	"github.com/vnykmshr/chunkflow/pkg/common/validation"
	"github.com/vnykmshr/chunkflow/pkg/streaming/stream"
)

// Then returns a stream forwarding first until next emits its first value.
// At that moment first is cancelled and only next is forwarded from then on,
// starting with that value. It panics if either stream is nil.
func Then[T any](first, next stream.Stream[T]) stream.Stream[T] {
	return ThenWithConfig(first, next, DefaultConfig())
}

// ThenWithConfig is Then with a custom configuration.
func ThenWithConfig[T any](first, next stream.Stream[T], config Config) stream.Stream[T] {
	return ChainWithConfig(config, first, next)
}

// Chain combines streams into one that switches to each later stream as soon
// as it emits. It is the left fold of Then over streams; an empty chain
// completes immediately. It panics if any stream is nil.
func Chain[T any](streams ...stream.Stream[T]) stream.Stream[T] {
	return ChainWithConfig(DefaultConfig(), streams...)
}

// ChainWithConfig is Chain with a custom configuration.
func ChainWithConfig[T any](config Config, streams ...stream.Stream[T]) stream.Stream[T] {
	s, err := ChainSafe(config, streams...)
	if err != nil {
		panic(err)
	}
	return s
}

// ChainSafe creates the chain with validation that returns an error instead
// of panicking.
func ChainSafe[T any](config Config, streams ...stream.Stream[T]) (stream.Stream[T], error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	for i, s := range streams {
		if err := validation.ValidateNotNil(operatorName, fmt.Sprintf("streams[%d]", i), s); err != nil {
			return nil, err
		}
	}

	if len(streams) == 0 {
		return stream.Empty[T](), nil
	}

	combined := streams[0]
	for depth, next := range streams[1:] {
		combined = newPair(combined, next, config, depth+1)
	}
	return combined, nil
}

// slot tags which side of a pair a notification came from.
type slot uint8

const (
	slotFirst slot = iota + 1
	slotNext
)

type event[T any] struct {
	slot slot
	n    stream.Notification[T]
}

// pair switches from first to next on next's first value.
type pair[T any] struct {
	first  stream.Stream[T]
	next   stream.Stream[T]
	config Config
	depth  int
}

func newPair[T any](first, next stream.Stream[T], config Config, depth int) stream.Stream[T] {
	p := &pair[T]{first: first, next: next, config: config, depth: depth}
	return stream.New(p.run)
}

func (p *pair[T]) run(ctx context.Context, emit func(T) bool) (err error) {
	log := logging.Component(p.config.Logger, operatorName, p.config.Name).
		With().Int(logging.FieldSlot, p.depth).Logger()
	m := p.config.Metrics
	m.SubscriptionStarted(operatorName, p.config.Name)

	box := relay.New[event[T]](p.config.MailboxSize)
	tap := func(s slot) stream.Observer[T] {
		return relay.Tap(box, func(n stream.Notification[T]) event[T] {
			return event[T]{slot: s, n: n}
		})
	}

	var firstSub, nextSub stream.Subscription
	defer func() {
		box.Close()
		relay.Release(firstSub, nextSub)
		if err != nil && ctx.Err() == nil {
			m.StreamFailed(operatorName, p.config.Name, "source")
			log.Warn().Err(err).Msg("failover chain failed")
		}
		m.SubscriptionEnded(operatorName, p.config.Name)
	}()

	firstSub = p.first.Subscribe(ctx, tap(slotFirst))
	nextSub = p.next.Subscribe(ctx, tap(slotNext))

	var switched, firstDone, nextDone bool
	for !firstDone || !nextDone {
		var ev event[T]
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev = <-box.Receive():
		}

		if ev.slot == slotFirst && switched {
			continue
		}

		switch ev.n.Kind {
		case stream.KindNext:
			if ev.slot == slotNext && !switched {
				switched, firstDone = true, true
				firstSub.Cancel()
				if m != nil {
					m.FailoverSwitches.WithLabelValues(p.config.Name).Inc()
				}
				log.Debug().Msg("switched to next source")
			}
			if !emit(ev.n.Value) {
				return ctx.Err()
			}
		case stream.KindError:
			return ev.n.Err
		case stream.KindComplete:
			if ev.slot == slotFirst {
				firstDone = true
			} else {
				nextDone = true
			}
		}
	}
	return nil
}
