package asyncexec

import (
	"sync/atomic"
	"time"

	"github.com/corewind/asyncexec/metrics"
)

// Task is a zero-argument, erased, movable callable invoked at most once by
// a worker goroutine. There is no ordering guarantee between tasks except
// FIFO within a single underlying queue.
type Task = func()

// taskEnvelope pairs a task with its enqueue time, so a worker's Scheduled
// can record how long it waited in a queue before a worker claimed it.
type taskEnvelope struct {
	fn        Task
	enqueueAt time.Time
}

// RRScheduler is a fixed-size sequence of Channel[taskEnvelope] with
// round-robin push and home-biased, stealing pop — the Go port of
// rr_scheduler.hpp.
// Pushes are spread across queues to reduce contention; pops prefer a
// worker's "home" queue for cache locality, falling back to stealing from
// other queues, and finally to a blocking pop on the home queue.
//
// The original assigns a worker's home queue via thread-local storage on
// its first call to scheduled(). Go has no supported thread-local storage
// (goroutines are not OS threads and are not reliably identifiable), so
// this port assigns the home index explicitly when a worker identity is
// created via NewWorker, and that identity — not an ambient thread — is
// what stays stable for its lifetime. A long-lived goroutine that keeps its
// *SchedulerWorker and calls Scheduled() on it repeatedly reproduces the
// original's affinity exactly; ThreadPool does precisely this.
type RRScheduler struct {
	queues    []*Channel[taskEnvelope]
	pushIndex atomic.Uint64
	popIndex  atomic.Uint64

	provider metrics.Provider

	pushes    metrics.Counter
	steals    metrics.Counter
	homePops  metrics.Counter
	queueSize metrics.UpDownCounter
	waitTime  metrics.Histogram
}

// NewRRScheduler constructs a round-robin scheduler with queueCount queues.
// queueCount must be at least 1; zero panics with ErrZeroQueueCount,
// matching spec.md §4.5's "zero is a precondition failure."
func NewRRScheduler(queueCount uint, opts ...SchedulerOption) *RRScheduler {
	if queueCount == 0 {
		panic(ErrZeroQueueCount)
	}

	cfg := schedulerOptions{provider: metrics.NewNoopProvider()}
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &RRScheduler{
		queues:   make([]*Channel[taskEnvelope], queueCount),
		provider: cfg.provider,
	}
	for i := range s.queues {
		s.queues[i] = NewChannel[taskEnvelope]()
	}

	s.pushes = s.provider.Counter("scheduler.push", metrics.WithDescription("tasks scheduled"))
	s.steals = s.provider.Counter("scheduler.pop.steal", metrics.WithDescription("tasks popped from a non-home queue"))
	s.homePops = s.provider.Counter("scheduler.pop.home", metrics.WithDescription("tasks popped from the home or blocking queue"))
	s.queueSize = s.provider.UpDownCounter("scheduler.queue_depth", metrics.WithDescription("buffered task count across all queues"))
	s.waitTime = s.provider.Histogram("scheduler.queue_wait_seconds", metrics.WithDescription("time a task spent queued before a worker claimed it"), metrics.WithUnit("seconds"))

	return s
}

// SchedulerOption configures an RRScheduler at construction time.
type SchedulerOption func(*schedulerOptions)

type schedulerOptions struct {
	provider metrics.Provider
}

// WithSchedulerMetrics attaches a metrics.Provider that records push/pop/
// steal counters and queue depth. The default is a no-op provider.
func WithSchedulerMetrics(p metrics.Provider) SchedulerOption {
	return func(o *schedulerOptions) { o.provider = p }
}

// QueueCount returns the number of queues backing this scheduler.
func (s *RRScheduler) QueueCount() int { return len(s.queues) }

// Schedule enqueues task for execution. It spreads pushes across queues in
// round-robin order, attempting a non-blocking push into up to 4*queueCount
// queues before falling back to a blocking push on the chosen home queue,
// matching spec.md §4.5.
func (s *RRScheduler) Schedule(task Task) {
	n := uint64(len(s.queues))
	i := s.pushIndex.Add(1) - 1
	env := taskEnvelope{fn: task, enqueueAt: time.Now()}

	attempts := 4 * n
	for k := uint64(0); k < attempts; k++ {
		q := s.queues[(i+k)%n]
		if q.TryPush(env) {
			s.pushes.Add(1)
			s.queueSize.Add(1)
			return
		}
	}

	s.queues[i%n].Push(env)
	s.pushes.Add(1)
	s.queueSize.Add(1)
}

// SchedulerWorker is a stable "home queue" identity produced by
// RRScheduler.NewWorker. Callers intending to reproduce the original's
// thread-local affinity should create exactly one SchedulerWorker per
// long-lived worker goroutine and call Scheduled repeatedly on it.
type SchedulerWorker struct {
	s    *RRScheduler
	home uint64
}

// NewWorker assigns a new stable home queue index and returns a
// SchedulerWorker bound to it.
func (s *RRScheduler) NewWorker() *SchedulerWorker {
	home := s.popIndex.Add(1) - 1
	return &SchedulerWorker{s: s, home: home}
}

// Scheduled returns the next task for this worker: it first tries every
// queue starting at the worker's home queue (work stealing), then blocks on
// the home queue if none had work ready. It returns (task, true), or (nil,
// false) once the scheduler has been cleared and drained.
func (w *SchedulerWorker) Scheduled() (Task, bool) {
	n := uint64(len(w.s.queues))

	for k := uint64(0); k < n; k++ {
		q := w.s.queues[(w.home+k)%n]
		if env, ok := q.TryPop(); ok {
			w.s.queueSize.Add(-1)
			w.s.waitTime.Record(time.Since(env.enqueueAt).Seconds())
			if k == 0 {
				w.s.homePops.Add(1)
			} else {
				w.s.steals.Add(1)
			}
			return env.fn, true
		}
	}

	env, ok := w.s.queues[w.home%n].Pop()
	if !ok {
		return nil, false
	}
	w.s.queueSize.Add(-1)
	w.s.waitTime.Record(time.Since(env.enqueueAt).Seconds())
	w.s.homePops.Add(1)
	return env.fn, true
}

// Clear cancels every underlying queue. After Clear, every subsequent call
// to Scheduled on any worker eventually returns (nil, false).
func (s *RRScheduler) Clear() {
	for _, q := range s.queues {
		q.Clear()
	}
}
