// Package handle provides a move-only RAII owner of an opaque native
// system-resource descriptor (spec.md's C7), the Go port of
// original_source/lib_header/inc/jar/system/basic_handle.hpp.
//
// Go has no non-copyable types and no destructors, so the original's
// compile-time-enforced move semantics are reproduced by convention rather
// than by the type system: a *Handle is always passed and stored by
// pointer, Take() is the one sanctioned way to extract the native value
// (and it invalidates the handle in place, exactly like a C++ move), and
// Close() is the explicit stand-in for "destructor runs iff valid" — Go
// code cannot rely on scope exit to release a file descriptor, so callers
// must call Close (typically via defer) themselves.
package handle

import "sync"

// Invalid is the sentinel native value representing "no resource."
const Invalid = -1

// Handle owns a native integer descriptor (a file descriptor, in this
// port's only use of it) plus the invalid sentinel, a destroy function, and
// a guard against double-destroy.
type Handle struct {
	mu      sync.Mutex
	native  int
	destroy func(int) error
	valid   bool
}

// New wraps an already-open native descriptor, to be released by destroy
// when the Handle is closed while still valid.
func New(native int, destroy func(int) error) *Handle {
	return &Handle{native: native, destroy: destroy, valid: native != Invalid}
}

// IsValid reports whether this handle still owns a resource (i.e. has not
// been moved-from via Take, nor already Closed).
func (h *Handle) IsValid() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.valid
}

// Native returns the native descriptor without affecting validity. Callers
// needing a one-shot syscall (read/write/setsockopt) should use this rather
// than Take.
func (h *Handle) Native() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.valid {
		return Invalid
	}
	return h.native
}

// Take extracts the native descriptor and invalidates h in place — the Go
// equivalent of a C++ move: after Take, h.IsValid() is false and h.Close()
// is a no-op, so the caller that received the native value now owns its
// lifetime exclusively.
func (h *Handle) Take() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.valid {
		return Invalid
	}
	n := h.native
	h.valid = false
	h.native = Invalid
	return n
}

// Close destroys the underlying resource iff the handle is still valid.
// Idempotent: calling Close twice, or calling it after Take, is a no-op.
func (h *Handle) Close() error {
	h.mu.Lock()
	if !h.valid {
		h.mu.Unlock()
		return nil
	}
	n := h.native
	h.valid = false
	h.native = Invalid
	h.mu.Unlock()
	return h.destroy(n)
}

// Equal compares two handles' native values, per spec.md's "equality
// compares native values" — it does not consider validity, matching the
// original's raw value comparison.
func Equal(a, b *Handle) bool {
	return a.Native() == b.Native()
}
