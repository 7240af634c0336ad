package asyncexec

// Start connects a disposable ValueReceiver, starts the resulting
// operation state, and discards the future — spec.md §4.4's "fire and
// forget" driver. Any error or cancellation is simply never observed.
func Start[V any](s Sender[V]) {
	r := NewValueReceiver[V]()
	state := s.Connect(r)
	state.Start()
}

// Wait connects a ValueReceiver, retrieves its Future *before* starting the
// operation state (so a caller may Cancel the future before Start, per
// spec.md §4.4's cancellation-before-start scenario), starts the state, and
// returns the future.
func Wait[V any](s Sender[V]) *Future[V] {
	r := NewValueReceiver[V]()
	f := r.Future()
	state := s.Connect(r)
	state.Start()
	return f
}
