package asyncexec

import (
	"runtime"
	"sync"
	"sync/atomic"
)

type futureState int32

const (
	stateInit futureState = iota
	stateValue
	stateError
	stateCancelled
	stateBroken
)

// sharedState is the heap-allocated block shared between exactly one
// Promise[V] and the Future[V] values produced from it (calling Future
// repeatedly yields handles over the same block, per spec.md §4.3). Its
// single atomic state field is the only thing compare-and-swapped; the
// mutex+cond pair exists solely to let Wait block without polling.
type sharedState[V any] struct {
	mu    sync.Mutex
	cond  *sync.Cond
	state atomic.Int32

	value V
	err   error
}

func newSharedState[V any]() *sharedState[V] {
	s := &sharedState[V]{}
	s.cond = sync.NewCond(&s.mu)
	return s
}

func (s *sharedState[V]) transition(to futureState, value V, err error) bool {
	s.mu.Lock()
	if !s.state.CompareAndSwap(int32(stateInit), int32(to)) {
		s.mu.Unlock()
		return false
	}
	s.value = value
	s.err = err
	s.mu.Unlock()
	s.cond.Broadcast()
	return true
}

func (s *sharedState[V]) isReady() bool {
	return futureState(s.state.Load()) != stateInit
}

func (s *sharedState[V]) wait() {
	if s.isReady() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for !s.isReady() {
		s.cond.Wait()
	}
}

// get waits for a terminal transition then resolves it into (value,
// cancelled, error), matching spec.md §4.3's get() semantics table. It
// re-acquires mu after wait returns so its read of value/err is ordered
// after transition's write under the same lock, even though wait's fast
// path checks the atomic state without holding mu.
func (s *sharedState[V]) get() (V, bool, error) {
	s.wait()
	s.mu.Lock()
	defer s.mu.Unlock()
	switch futureState(s.state.Load()) {
	case stateValue:
		return s.value, false, nil
	case stateCancelled:
		var zero V
		return zero, true, nil
	case stateError:
		var zero V
		return zero, false, s.err
	case stateBroken:
		var zero V
		return zero, false, ErrBrokenPromise
	default:
		var zero V
		return zero, false, ErrBrokenPromise
	}
}

func (s *sharedState[V]) cancel() { s.transition(stateCancelled, *new(V), nil) }

func (s *sharedState[V]) isCancelled() bool {
	return futureState(s.state.Load()) == stateCancelled
}

// Promise is the producing half of a one-shot value carrier. Exactly one of
// SetValue, SetException, or Cancel may take effect; whichever reaches the
// compare-and-swap first wins, and later attempts are silent no-ops.
//
// If a Promise is garbage collected while still in its init state (the
// caller never settled it), the shared state transitions to broken and any
// Future obtained from it resolves with ErrBrokenPromise. This finalizer is
// the Go-native stand-in for the original's promise destructor.
type Promise[V any] struct {
	state *sharedState[V]
}

// NewPromise constructs a Promise[V] and arms the broken-promise finalizer.
func NewPromise[V any]() *Promise[V] {
	p := &Promise[V]{state: newSharedState[V]()}
	runtime.SetFinalizer(p, func(p *Promise[V]) {
		p.state.transition(stateBroken, *new(V), nil)
	})
	return p
}

// Future returns a Future[V] bound to this promise's shared state. It may
// be called more than once; all returned futures observe the same terminal
// transition.
func (p *Promise[V]) Future() *Future[V] { return &Future[V]{state: p.state} }

// SetValue publishes value as the terminal result.
func (p *Promise[V]) SetValue(value V) { p.state.transition(stateValue, value, nil) }

// SetException publishes err as the terminal failure.
func (p *Promise[V]) SetException(err error) { p.state.transition(stateError, *new(V), err) }

// Cancel publishes cancellation as the terminal outcome.
func (p *Promise[V]) Cancel() { p.state.cancel() }

// IsCancelled reports whether this promise's shared state has already
// observed cancellation.
func (p *Promise[V]) IsCancelled() bool { return p.state.isCancelled() }

// Future is the consuming half of a one-shot value carrier. It is not
// copyable in spirit (there is exactly one logical consumer); Go cannot
// forbid copying a struct, so this is enforced by convention only.
type Future[V any] struct {
	state *sharedState[V]
}

// IsValid reports whether this future is bound to a shared state. The zero
// value Future{} is not valid.
func (f *Future[V]) IsValid() bool { return f != nil && f.state != nil }

// Wait blocks until the shared state reaches a terminal transition.
func (f *Future[V]) Wait() {
	if !f.IsValid() {
		return
	}
	f.state.wait()
}

// Get waits for the terminal transition and resolves it: returns the
// published value, or the zero value with cancelled=true if the pipeline
// was cancelled, or propagates the stored error (including
// ErrBrokenPromise).
func (f *Future[V]) Get() (value V, cancelled bool, err error) {
	if !f.IsValid() {
		var zero V
		return zero, false, ErrFutureInvalid
	}
	return f.state.get()
}

// Cancel forwards cancellation to the shared state. It races with
// SetValue/SetException; whichever reaches the underlying
// compare-and-swap first wins.
func (f *Future[V]) Cancel() {
	if f.IsValid() {
		f.state.cancel()
	}
}
