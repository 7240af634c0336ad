package asyncexec

// Unit stands in for "no value" in a generic Sender/Receiver chain — Go has
// no void type usable as a type argument, so senders that produce nothing
// (ScheduleSender chief among them) are typed Sender[Unit].
type Unit = struct{}

// Receiver is the consumer end of a Sender: exactly one of Complete, Fail,
// or Cancel takes effect for a given connected operation state. Cancel is
// idempotent and may arrive before or after the computation starts.
// IsCancelled is a best-effort hint that may flip concurrently with a call
// to Complete racing it.
type Receiver[V any] interface {
	// Complete publishes the successful result of the upstream computation.
	Complete(value V)

	// Fail publishes an error in place of a result.
	Fail(err error)

	// Cancel requests cancellation. Idempotent; a no-op once the receiver
	// has already observed a terminal Complete/Fail.
	Cancel()

	// IsCancelled reports whether Cancel has already taken effect.
	IsCancelled() bool
}
