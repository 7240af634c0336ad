// Package pool provides generic fixed- and dynamic-size object pools,
// wired into the socket façade to amortize receive-buffer allocation
// across calls (see socket.NewBufferPool). Pool[T any] gives callers typed
// Get/Put without an assertion at every call site.
package pool

// Pool hands out and reclaims values of type T.
type Pool[T any] interface {
	// Get returns a value from the pool, creating one if none is available.
	// A fixed pool that has already created its capacity of values blocks
	// instead, until a value is Put back.
	Get() T

	// Put returns a value to the pool for reuse.
	Put(T)
}
