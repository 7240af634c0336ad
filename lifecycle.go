package asyncexec

import "sync"

// lifecycleCoordinator encapsulates ThreadPool's shutdown sequence: clear
// the scheduler so every worker's blocking Scheduled() call returns (nil,
// false), then wait for all worker goroutines to exit. It is a narrowed
// form of a multi-stage shutdown sequencer (cancellation, draining, channel
// closure across many stages); ThreadPool only owns a scheduler and a
// WaitGroup, so those extra stages have no counterpart here.
//
// Close is safe for concurrent calls; the sequence executes exactly once.
type lifecycleCoordinator struct {
	clear func()
	wg    *sync.WaitGroup
	once  sync.Once
}

func newLifecycleCoordinator(clear func(), wg *sync.WaitGroup) *lifecycleCoordinator {
	return &lifecycleCoordinator{clear: clear, wg: wg}
}

// Close clears the scheduler, then joins every worker goroutine.
func (lc *lifecycleCoordinator) Close() {
	lc.once.Do(func() {
		if lc.clear != nil {
			lc.clear()
		}
		if lc.wg != nil {
			lc.wg.Wait()
		}
	})
}
