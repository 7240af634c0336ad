package asyncexec

import "errors"

// Namespace prefixes every sentinel error exported by this package.
const Namespace = "asyncexec"

var (
	// ErrAlreadyStarted is the panic value raised when Start is invoked more
	// than once on the same operation state.
	ErrAlreadyStarted = errors.New(Namespace + ": operation state already started")

	// ErrBrokenPromise is the error Future.Get returns when the producing
	// Promise was garbage collected while still in the init state.
	ErrBrokenPromise = errors.New(Namespace + ": broken promise")

	// ErrFutureInvalid is returned by Future.Get when called on a
	// zero-value, disconnected future (Future.Wait returns at once on one).
	ErrFutureInvalid = errors.New(Namespace + ": future is not valid")

	// ErrZeroQueueCount is a scheduler construction precondition failure: a
	// scheduler needs at least one queue.
	ErrZeroQueueCount = errors.New(Namespace + ": queue count must be at least 1")

	// ErrTaskPanicked wraps a recovered panic from a connected sender's
	// completion step (the function passed to Then/ThenResult). A panic in a
	// plain task scheduled directly on a ThreadPool is discarded, not wrapped.
	ErrTaskPanicked = errors.New(Namespace + ": task execution panicked")

	// ErrNotInvocable is the panic value NewCallbackReceiver raises when a
	// value handler's signature does not match any supported callback arity.
	ErrNotInvocable = errors.New(Namespace + ": value is not invocable with the expected arity")
)
