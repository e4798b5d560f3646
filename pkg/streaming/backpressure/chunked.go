package backpressure

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/vnykmshr/chunkflow/internal/logging"
	"github.com/vnykmshr/chunkflow/internal/relay"
	cferrors "github.com/vnykmshr/chunkflow/pkg/common/errors"
	"github.com/vnykmshr/chunkflow/pkg/common/validation"
	"github.com/vnykmshr/chunkflow/pkg/streaming/stream"
)

// Handler maps a non-empty chunk of source values to the stream that
// processes it. The chunk is owned by the handler.
type Handler[T, R any] func(chunk []T) stream.Stream[R]

// Chunked returns an operator that runs handler on chunks of source values,
// one handler result stream at a time. It panics if handler is nil.
func Chunked[T, R any](handler Handler[T, R]) stream.Operator[T, R] {
	return ChunkedWithConfig(handler, DefaultConfig())
}

// ChunkedWithConfig is Chunked with a custom configuration. It panics if
// handler is nil or config is invalid.
func ChunkedWithConfig[T, R any](handler Handler[T, R], config Config) stream.Operator[T, R] {
	op, err := ChunkedSafe(handler, config)
	if err != nil {
		panic(err)
	}
	return op
}

// ChunkedSafe creates the operator with validation that returns an error
// instead of panicking.
func ChunkedSafe[T, R any](handler Handler[T, R], config Config) (stream.Operator[T, R], error) {
	if handler == nil {
		return nil, validation.ValidateNotNil(operatorName, "handler", nil)
	}
	if err := config.validate(); err != nil {
		return nil, err
	}

	return func(source stream.Stream[T]) stream.Stream[R] {
		return stream.New(func(ctx context.Context, emit func(R) bool) error {
			if source == nil {
				return sourceFailure(stream.ErrNilStream)
			}
			r := &run[T, R]{
				handler: handler,
				config:  config,
				log:     logging.Component(config.Logger, operatorName, config.Name),
				emit:    emit,
				box:     relay.New[event[T, R]](config.MailboxSize),
			}
			return r.loop(ctx, source)
		})
	}, nil
}

// event is one notification delivered to the run loop. Source events carry
// fromSource; result events carry the generation of the chunk they belong to.
type event[T, R any] struct {
	fromSource bool
	gen        uint64
	source     stream.Notification[T]
	result     stream.Notification[R]
}

// run is the per-subscription state of a chunked operator.
type run[T, R any] struct {
	handler Handler[T, R]
	config  Config
	log     zerolog.Logger
	emit    func(R) bool
	box     *relay.Mailbox[event[T, R]]

	state state[T]

	active     stream.Subscription
	gen        uint64
	activeSize int
	started    time.Time

	// This run's current contribution to the shared gauges.
	gaugeBusy     bool
	gaugeBuffered int
}

func (r *run[T, R]) loop(ctx context.Context, source stream.Stream[T]) (err error) {
	m := r.config.Metrics
	m.SubscriptionStarted(operatorName, r.config.Name)

	var sourceSub stream.Subscription
	defer func() {
		r.box.Close()
		relay.Release(sourceSub, r.active)
		r.active = nil

		r.state.buffer = nil
		r.syncGauges(false, 0)

		if err != nil && ctx.Err() == nil {
			m.StreamFailed(operatorName, r.config.Name, failureKind(err))
			r.log.Warn().Err(err).Uint64(logging.FieldGeneration, r.gen).Msg("chunked stream failed")
		}
		m.SubscriptionEnded(operatorName, r.config.Name)
	}()

	sourceSub = source.Subscribe(ctx, relay.Tap(r.box, func(n stream.Notification[T]) event[T, R] {
		return event[T, R]{fromSource: true, source: n}
	}))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-r.box.Receive():
			done, err := r.handle(ctx, ev)
			if err != nil || done {
				return err
			}
		}
	}
}

// handle applies one event. It reports done once the combined stream has
// completed.
func (r *run[T, R]) handle(ctx context.Context, ev event[T, R]) (bool, error) {
	if ev.fromSource {
		switch ev.source.Kind {
		case stream.KindNext:
			act, chunk := r.state.onValue(ev.source.Value)
			return r.apply(ctx, act, chunk)
		case stream.KindError:
			return true, sourceFailure(ev.source.Err)
		default:
			r.log.Debug().Int(logging.FieldBuffered, r.state.buffered()).Msg("source completed")
			return r.apply(ctx, r.state.onSourceDone(), nil)
		}
	}

	if ev.gen != r.gen {
		return false, nil
	}

	switch ev.result.Kind {
	case stream.KindNext:
		if !r.emit(ev.result.Value) {
			return true, ctx.Err()
		}
		return false, nil
	case stream.KindError:
		return true, handlerFailure(ev.result.Err, r.gen, r.activeSize)
	default:
		relay.Release(r.active)
		r.active = nil
		if m := r.config.Metrics; m != nil {
			m.HandlerDuration.WithLabelValues(r.config.Name).Observe(time.Since(r.started).Seconds())
		}
		act, chunk := r.state.onIdle()
		return r.apply(ctx, act, chunk)
	}
}

func (r *run[T, R]) apply(ctx context.Context, act action, chunk []T) (bool, error) {
	r.syncGauges(r.state.phase != phaseIdle, r.state.buffered())

	switch act {
	case actDispatch:
		if err := r.dispatch(ctx, chunk); err != nil {
			return true, err
		}
		return false, nil
	case actComplete:
		r.log.Debug().Uint64(logging.FieldGeneration, r.gen).Msg("chunked stream completed")
		return true, nil
	default:
		return false, nil
	}
}

// dispatch invokes the handler on chunk and subscribes to its result.
func (r *run[T, R]) dispatch(ctx context.Context, chunk []T) error {
	if len(chunk) == 0 {
		panic("backpressure: dispatch of an empty chunk")
	}

	r.gen++
	r.activeSize = len(chunk)

	result, err := r.invoke(chunk)
	if err != nil {
		return handlerFailure(err, r.gen, r.activeSize)
	}

	if m := r.config.Metrics; m != nil {
		m.ChunksDispatched.WithLabelValues(r.config.Name).Inc()
		m.ChunkSize.WithLabelValues(r.config.Name).Observe(float64(len(chunk)))
	}
	r.log.Debug().
		Uint64(logging.FieldGeneration, r.gen).
		Int(logging.FieldChunkSize, len(chunk)).
		Msg("chunk dispatched")

	gen := r.gen
	r.started = time.Now()
	r.active = result.Subscribe(ctx, relay.Tap(r.box, func(n stream.Notification[R]) event[T, R] {
		return event[T, R]{gen: gen, result: n}
	}))
	return nil
}

// invoke calls the handler, converting a panic or a nil result into an error.
func (r *run[T, R]) invoke(chunk []T) (result stream.Stream[R], err error) {
	defer func() {
		if rec := recover(); rec != nil {
			result, err = nil, cferrors.PanicError(rec)
		}
	}()

	result = r.handler(chunk)
	if result == nil {
		return nil, stream.ErrNilStream
	}
	return result, nil
}

// syncGauges moves this run's contribution to the shared gauges to match
// busy and buffered.
func (r *run[T, R]) syncGauges(busy bool, buffered int) {
	m := r.config.Metrics
	if m == nil {
		return
	}
	if busy != r.gaugeBusy {
		g := m.DownstreamBusy.WithLabelValues(r.config.Name)
		if busy {
			g.Inc()
		} else {
			g.Dec()
		}
		r.gaugeBusy = busy
	}
	if delta := buffered - r.gaugeBuffered; delta != 0 {
		m.BufferedItems.WithLabelValues(r.config.Name).Add(float64(delta))
		r.gaugeBuffered = buffered
	}
}
