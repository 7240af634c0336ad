// Package asyncexec provides structured concurrency primitives for
// composing asynchronous work without hand-rolled goroutine/channel
// plumbing: an unbounded multi-producer/multi-consumer Channel, a CountDown
// Latch, a Future/Promise pair, a sender/receiver operation-state protocol
// in the style of a P2300-flavored execution model, a round-robin
// work-stealing Scheduler, and a ThreadPool that runs scheduled work on a
// fixed set of worker goroutines.
//
// Composition
// Senders compose via Then, chaining a transformation onto a prior
// operation's result without blocking the calling goroutine. Start fires a
// sender and discards its result; Wait fires a sender and returns a Future
// the caller can Wait/Get/Cancel explicitly.
//
// Scheduling
// ThreadPool.Scheduler returns a SchedulerHandle; ScheduleSender moves a
// computation onto the pool before running it, so CPU-bound continuations
// never run inline on a caller's goroutine.
//
// Subpackages
//   - handle: move-only ownership of a native resource descriptor
//   - netaddr: a value-typed socket endpoint (IPC path, IPv4, IPv6)
//   - socket: stream/datagram/server sockets built on handle and netaddr
//   - precondition: centralized argument and system-error validation
//   - reflectfn: runtime arity/type inspection for variable-arity handlers
//   - pool: generic fixed- and dynamic-size object pools
//   - metrics: a minimal Counter/UpDownCounter/Histogram instrumentation
//     surface, with a no-op default
package asyncexec
