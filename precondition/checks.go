// Package precondition centralizes the argument and system-error validation
// C10 of spec.md describes: a small family of named checks, each raising a
// typed failure, used throughout the socket façade instead of ad hoc
// error construction at every call site.
//
// Grounded on original_source/lib_header/inc/jar/util/contract.hpp and
// lib_header/inc/jar/core/contract.hpp's not_null/not_zero/not_less/
// not_greater/no_system_error family.
package precondition

import (
	"errors"
	"fmt"
	"reflect"

	"golang.org/x/sys/unix"
)

// InvalidArgumentError is raised by NotNull, NotZero, NotLess, and
// NotGreater: a caller-supplied precondition violation.
type InvalidArgumentError struct {
	Message string
}

func (e *InvalidArgumentError) Error() string { return "invalid argument: " + e.Message }

// SystemError is raised by NoSystemError: any system-call failure, carrying
// the raw errno and a human-readable category via errno.Error().
type SystemError struct {
	Errno unix.Errno
	Op    string
}

func (e *SystemError) Error() string {
	return fmt.Sprintf("system error during %s: %s (errno %d)", e.Op, e.Errno.Error(), int(e.Errno))
}

func (e *SystemError) Unwrap() error { return e.Errno }

// Is reports whether target is the same errno, so callers can write
// errors.Is(err, unix.EPIPE) without unwrapping by hand.
func (e *SystemError) Is(target error) bool {
	var errno unix.Errno
	if errors.As(target, &errno) {
		return e.Errno == errno
	}
	return false
}

// DomainError is raised for a valid-type operation attempted in an invalid
// state (e.g. Open on an already-open socket).
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string { return "domain error: " + e.Message }

// NotNull panics unless ptr is non-nil. msg names the argument for the
// resulting error. ptr may be a slice, map, chan, func, pointer, or
// interface; a nil slice or map boxed into the any parameter still reports
// nil, unlike a plain "ptr == nil" comparison (which only catches a nil
// interface itself).
func NotNull(ptr any, msg string) {
	if isNilArgument(ptr) {
		panic(&InvalidArgumentError{Message: msg + " must not be nil"})
	}
}

func isNilArgument(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Chan, reflect.Func, reflect.Map, reflect.Ptr, reflect.Slice, reflect.Interface, reflect.UnsafePointer:
		return rv.IsNil()
	default:
		return false
	}
}

// NotZero panics if v is the zero value. msg names the argument.
func NotZero(v int, msg string) {
	if v == 0 {
		panic(&InvalidArgumentError{Message: msg + " must not be zero"})
	}
}

// NotLess panics if v < min. msg names the argument.
func NotLess(v, min int, msg string) {
	if v < min {
		panic(&InvalidArgumentError{Message: fmt.Sprintf("%s must not be less than %d", msg, min)})
	}
}

// NotGreater panics if v > max. msg names the argument.
func NotGreater(v, max int, msg string) {
	if v > max {
		panic(&InvalidArgumentError{Message: fmt.Sprintf("%s must not be greater than %d", msg, max)})
	}
}

// NoSystemError converts a raw syscall return into a *SystemError when err
// is non-nil and not one of the ignored errnos (used, e.g., to treat
// EINPROGRESS on a non-blocking connect as success). op names the syscall
// for the resulting error's context. An err that is not a unix.Errno is not
// turned into a *SystemError; it is wrapped with op as context instead. It
// returns nil when err is nil or ignored.
func NoSystemError(op string, err error, ignored ...unix.Errno) error {
	if err == nil {
		return nil
	}
	errno, ok := err.(unix.Errno)
	if !ok {
		return fmt.Errorf("system error during %s: %w", op, err)
	}
	for _, ig := range ignored {
		if errno == ig {
			return nil
		}
	}
	return &SystemError{Errno: errno, Op: op}
}

// Recover converts a panic produced by NotNull/NotZero/NotLess/NotGreater
// back into a returned error. Socket-layer entry points that validate
// arguments via panic (matching the original's "throws" contract, which the
// Go port expresses as a recoverable panic to keep the validation call
// sites terse) should defer Recover(&err) as their first statement.
func Recover(errp *error) {
	if r := recover(); r != nil {
		if err, ok := r.(error); ok {
			*errp = err
			return
		}
		panic(r)
	}
}
