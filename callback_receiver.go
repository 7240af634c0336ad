package asyncexec

import (
	"sync/atomic"

	"github.com/corewind/asyncexec/reflectfn"
)

type callbackState int32

const (
	callbackPending callbackState = iota
	callbackValue
	callbackError
	callbackCancelled
)

// CallbackReceiver is the terminal receiver kind parameterized by three
// callables, per spec.md §4.4 item 4. Unlike ValueReceiver it has no
// backing promise, so it owns its own single-shot compare-and-swap state —
// this is the one receiver kind in this port for which that is correct,
// since spec.md §9's promise-owns-the-transition resolution only applies to
// receivers that forward onto a promise.
//
// onValue may be either func() or func(V); its arity is validated once at
// construction via reflectfn, matching spec.md §4.9's description of C11
// dispatching make_callback_receiver on the handler's arity.
type CallbackReceiver[V any] struct {
	onValue  any
	onError  func(error)
	onCancel func()
	state    atomic.Int32
}

// NewCallbackReceiver validates onValue's arity and returns a
// CallbackReceiver. It panics with ErrNotInvocable if onValue is neither
// func() nor func(V).
func NewCallbackReceiver[V any](onValue any, onError func(error), onCancel func()) *CallbackReceiver[V] {
	if !reflectfn.IsNiladic(onValue) && !reflectfn.AcceptsArg[V](onValue) {
		panic(ErrNotInvocable)
	}
	return &CallbackReceiver[V]{onValue: onValue, onError: onError, onCancel: onCancel}
}

func (c *CallbackReceiver[V]) tryTransition(to callbackState) bool {
	return c.state.CompareAndSwap(int32(callbackPending), int32(to))
}

// Complete invokes onValue(value) (or onValue()) exactly once, across all
// interleavings with Fail/Cancel — whichever of the three reaches the
// underlying compare-and-swap first is the one that fires.
func (c *CallbackReceiver[V]) Complete(value V) {
	if c.tryTransition(callbackValue) {
		reflectfn.CallWithValue(c.onValue, value)
	}
}

// Fail invokes onError(err) exactly once, across all interleavings with
// Complete/Cancel.
func (c *CallbackReceiver[V]) Fail(err error) {
	if c.tryTransition(callbackError) && c.onError != nil {
		c.onError(err)
	}
}

// Cancel invokes onCancel exactly once, across all interleavings with
// Complete/Fail. Idempotent: a Cancel arriving after a terminal
// Complete/Fail is a silent no-op.
func (c *CallbackReceiver[V]) Cancel() {
	if c.tryTransition(callbackCancelled) && c.onCancel != nil {
		c.onCancel()
	}
}

// IsCancelled reports whether this receiver has transitioned to the
// cancelled state. spec.md §9's Open Question flags a source revision where
// an equivalent method was defined as `state != failed` — plainly inverted
// from the state name. This port's contract is unambiguous: true iff
// cancelled, nothing else.
func (c *CallbackReceiver[V]) IsCancelled() bool {
	return callbackState(c.state.Load()) == callbackCancelled
}
