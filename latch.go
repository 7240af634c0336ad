package asyncexec

import "sync"

// Latch is a single-use countdown synchronizer: a counter initialized to
// some expected value that any number of goroutines may decrement, and any
// number of goroutines may wait on until it reaches zero. Once zero, it
// stays zero; there is no reset.
//
// The zero value is not usable; construct with NewLatch.
type Latch struct {
	mu      sync.Mutex
	cond    *sync.Cond
	counter uint64
}

// NewLatch constructs a Latch expecting `expected` count-downs before it
// opens. expected may be zero, in which case the latch is already open.
func NewLatch(expected uint64) *Latch {
	l := &Latch{counter: expected}
	l.cond = sync.NewCond(&l.mu)
	return l
}

// CountDown decrements the counter by n (default 1 via CountDownOne), waking
// every waiter once it reaches zero.
//
// Decrementing below zero is a programming error in the original contract;
// this port resolves that open question by saturating at zero rather than
// panicking or wrapping, so that a buggy caller cannot produce a latch that
// looks open while silently holding a huge unsigned counter.
func (l *Latch) CountDown(n uint64) {
	l.mu.Lock()
	if n >= l.counter {
		l.counter = 0
	} else {
		l.counter -= n
	}
	opened := l.counter == 0
	l.mu.Unlock()
	if opened {
		l.cond.Broadcast()
	}
}

// CountDownOne decrements the counter by one.
func (l *Latch) CountDownOne() { l.CountDown(1) }

// Wait blocks until the counter reaches zero.
func (l *Latch) Wait() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for l.counter != 0 {
		l.cond.Wait()
	}
}

// TryWait reports whether the counter is currently zero, without blocking.
func (l *Latch) TryWait() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.counter == 0
}

// ArriveAndWait is CountDown(n) followed by Wait.
func (l *Latch) ArriveAndWait(n uint64) {
	l.CountDown(n)
	l.Wait()
}
