package asyncexec

import "fmt"

// wrapPanic and wrapPanicValue convert a recovered panic into an error
// wrapping ErrTaskPanicked, so callers can errors.Is(err, ErrTaskPanicked)
// regardless of what the panicking code passed to panic().
func wrapPanic(cause error) error {
	return fmt.Errorf("%w: %v", ErrTaskPanicked, cause)
}

func wrapPanicValue(v any) error {
	return fmt.Errorf("%w: %v", ErrTaskPanicked, v)
}
