package asyncexec

import (
	"runtime"
	"sync"

	"github.com/corewind/asyncexec/metrics"
)

// ThreadPool owns an RRScheduler and a fixed set of worker goroutines, each
// draining the scheduler until it is cleared. Construction spawns
// threadCount workers; destruction (Close) clears the scheduler via a
// two-phase lifecycleCoordinator and waits for every worker to exit.
type ThreadPool struct {
	scheduler *RRScheduler
	wg        sync.WaitGroup
	close     *lifecycleCoordinator

	active metrics.UpDownCounter
}

// ThreadPoolOption configures a ThreadPool at construction time.
type ThreadPoolOption func(*threadPoolOptions)

type threadPoolOptions struct {
	threadCount uint
	provider    metrics.Provider
	schedOpts   []SchedulerOption
}

// WithThreadCount sets the number of worker goroutines. Zero clamps to 1,
// matching spec.md §4.6's "default: hardware concurrency, clamped to >= 1"
// (callers wanting hardware concurrency should pass runtime.NumCPU()
// explicitly; WithThreadCount(0) is reserved for "clamp to 1").
func WithThreadCount(n uint) ThreadPoolOption {
	return func(o *threadPoolOptions) { o.threadCount = n }
}

// WithPoolMetrics attaches a metrics.Provider shared by the pool's scheduler
// and its active-worker gauge.
func WithPoolMetrics(p metrics.Provider) ThreadPoolOption {
	return func(o *threadPoolOptions) {
		o.provider = p
		o.schedOpts = append(o.schedOpts, WithSchedulerMetrics(p))
	}
}

func defaultThreadPoolOptions() threadPoolOptions {
	return threadPoolOptions{
		threadCount: uint(runtime.GOMAXPROCS(0)),
		provider:    metrics.NewNoopProvider(),
	}
}

// NewThreadPool constructs the underlying RRScheduler with threadCount
// queues and spawns threadCount workers that each drain it until cleared.
func NewThreadPool(opts ...ThreadPoolOption) *ThreadPool {
	cfg := defaultThreadPoolOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.threadCount == 0 {
		cfg.threadCount = 1
	}

	p := &ThreadPool{
		scheduler: NewRRScheduler(cfg.threadCount, cfg.schedOpts...),
		active:    cfg.provider.UpDownCounter("threadpool.active_workers", metrics.WithDescription("currently running worker goroutines")),
	}

	p.wg.Add(int(cfg.threadCount))
	for i := uint(0); i < cfg.threadCount; i++ {
		go p.runWorker()
	}

	p.close = newLifecycleCoordinator(p.scheduler.Clear, &p.wg)

	return p
}

func (p *ThreadPool) runWorker() {
	defer p.wg.Done()
	p.active.Add(1)
	defer p.active.Add(-1)

	w := p.scheduler.NewWorker()
	for {
		task, ok := w.Scheduled()
		if !ok {
			return
		}
		runTaskRecovering(task)
	}
}

// runTaskRecovering invokes task, converting a panic into a discarded
// recovery rather than letting it crash the worker goroutine. The async
// pipeline never leaks a panic out of a worker (spec.md §7); callers that
// need the resulting error should catch it at the sender/receiver layer
// (runReceiverCompletion does exactly that around each Then/ThenResult
// function).
func runTaskRecovering(task Task) {
	defer func() { _ = recover() }()
	task()
}

// Scheduler exposes the pool's underlying SchedulerHandle: the small,
// copyable adapter that, through ScheduleWith, widens Schedule to accept a
// callable plus one eagerly captured argument. Callables of more than one
// argument are not supported.
func (p *ThreadPool) Scheduler() SchedulerHandle { return SchedulerHandle{raw: p.scheduler} }

// Close clears the scheduler and waits for every worker to exit. Safe to
// call more than once; the shutdown sequence runs exactly once.
func (p *ThreadPool) Close() { p.close.Close() }

// SchedulerHandle is a small, copyable reference to a ThreadPool's
// scheduler. It is what user code threads through a sender pipeline instead
// of the pool itself, mirroring rr_scheduler.hpp's nested `adapter`.
type SchedulerHandle struct {
	raw *RRScheduler
}

// Schedule enqueues a zero-argument task directly.
func (h SchedulerHandle) Schedule(task Task) { h.raw.Schedule(task) }

// ScheduleWith eagerly captures arg and enqueues a task that invokes
// fn(arg) when run. It takes exactly one argument.
func ScheduleWith[A any](h SchedulerHandle, fn func(A), arg A) {
	h.raw.Schedule(func() { fn(arg) })
}
