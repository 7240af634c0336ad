package asyncexec

// ScheduleSender is the leaf sender of every pipeline: connecting it to a
// receiver and starting the resulting state enqueues a task on a scheduler
// handle. When that task runs, it completes the receiver with Unit{} unless
// the receiver has already been cancelled, translating any recovered panic
// into Fail, exactly as spec.md §4.4 item 1 describes.
type ScheduleSender struct {
	handle SchedulerHandle
}

// Schedule returns a Sender[Unit] bound to handle.
func Schedule(handle SchedulerHandle) ScheduleSender {
	return ScheduleSender{handle: handle}
}

// Connect wires r to a fresh scheduleState. It performs no work.
func (s ScheduleSender) Connect(r Receiver[Unit]) OperationState {
	return &scheduleState{handle: s.handle, receiver: r}
}

type scheduleState struct {
	guardedState
	handle   SchedulerHandle
	receiver Receiver[Unit]
}

// Start enqueues a task on the bound scheduler handle. May be called at
// most once.
func (s *scheduleState) Start() {
	s.startOnce(func() {
		s.handle.Schedule(func() {
			runReceiverCompletion(s.receiver, func() (Unit, error) {
				return Unit{}, nil
			})
		})
	})
}

// runReceiverCompletion is the single choke point through which every
// terminal step of the chain (ScheduleSender's task, and every adapter
// receiver's Complete) decides whether to run user code at all, and how to
// turn a panic or error into Fail. It is shared so that the "check
// is_cancelled before invoking complete" rule from spec.md §4.4 is
// enforced in exactly one place rather than duplicated per sender kind.
func runReceiverCompletion[V any](r Receiver[V], fn func() (V, error)) {
	if r.IsCancelled() {
		return
	}

	var (
		value V
		err   error
	)

	func() {
		defer func() {
			if rec := recover(); rec != nil {
				err = panicToError(rec)
			}
		}()
		value, err = fn()
	}()

	if err != nil {
		r.Fail(err)
		return
	}
	r.Complete(value)
}

func panicToError(rec any) error {
	if e, ok := rec.(error); ok {
		return wrapPanic(e)
	}
	return wrapPanicValue(rec)
}
