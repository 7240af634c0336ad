package asyncexec

// ValueReceiver is the terminal receiver backed by a Promise[V]. Per
// spec.md §9's resolution of the source's divergent revisions, it owns no
// state-transition logic of its own — it is a transparent forwarder onto
// the promise's shared state, which is the sole owner of the single
// terminal transition (the third Open Question in spec.md §9).
type ValueReceiver[V any] struct {
	promise *Promise[V]
}

// NewValueReceiver constructs a ValueReceiver with a fresh backing promise.
func NewValueReceiver[V any]() *ValueReceiver[V] {
	return &ValueReceiver[V]{promise: NewPromise[V]()}
}

// Future returns the Future[V] bound to this receiver's promise.
func (v *ValueReceiver[V]) Future() *Future[V] { return v.promise.Future() }

func (v *ValueReceiver[V]) Complete(value V)  { v.promise.SetValue(value) }
func (v *ValueReceiver[V]) Fail(err error)    { v.promise.SetException(err) }
func (v *ValueReceiver[V]) Cancel()           { v.promise.Cancel() }
func (v *ValueReceiver[V]) IsCancelled() bool { return v.promise.IsCancelled() }
