package backpressure

// phase is the downstream side of the backpressure state machine.
type phase uint8

const (
	// phaseIdle: no result stream in flight, nothing buffered.
	phaseIdle phase = iota

	// phaseBusy: a result stream is in flight, nothing buffered.
	phaseBusy

	// phaseBuffering: a result stream is in flight and values are waiting.
	phaseBuffering
)

func (p phase) String() string {
	switch p {
	case phaseIdle:
		return "idle"
	case phaseBusy:
		return "busy"
	case phaseBuffering:
		return "buffering"
	default:
		return "unknown"
	}
}

// action tells the run loop what to do after a transition.
type action uint8

const (
	actWait action = iota
	actDispatch
	actComplete
)

// state is owned by exactly one subscription and only touched by its loop.
type state[T any] struct {
	phase      phase
	buffer     []T
	sourceDone bool
}

// onValue handles a source value. An idle downstream dispatches it alone,
// a busy one buffers it.
func (s *state[T]) onValue(v T) (action, []T) {
	switch s.phase {
	case phaseIdle:
		s.phase = phaseBusy
		return actDispatch, []T{v}
	case phaseBusy:
		s.phase = phaseBuffering
		s.buffer = []T{v}
	case phaseBuffering:
		s.buffer = append(s.buffer, v)
	}
	return actWait, nil
}

// onIdle handles completion of the in-flight result stream. A pending buffer
// is handed over immediately, with no idle interval in between.
func (s *state[T]) onIdle() (action, []T) {
	switch s.phase {
	case phaseBuffering:
		chunk := s.buffer
		s.buffer = nil
		s.phase = phaseBusy
		return actDispatch, chunk
	case phaseBusy:
		s.phase = phaseIdle
		if s.sourceDone {
			return actComplete, nil
		}
	}
	return actWait, nil
}

// onSourceDone handles source completion. A pending buffer is flushed by the
// next onIdle, so completion waits for it.
func (s *state[T]) onSourceDone() action {
	s.sourceDone = true
	if s.phase == phaseIdle {
		return actComplete
	}
	return actWait
}

// buffered returns the number of values waiting for the next chunk.
func (s *state[T]) buffered() int {
	return len(s.buffer)
}
