package asyncexec

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/corewind/asyncexec/metrics"
)

func TestThreadPoolRunsScheduledTasks(t *testing.T) {
	p := NewThreadPool(WithThreadCount(2))
	defer p.Close()

	const n = 50
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		p.Scheduler().Schedule(func() { wg.Done() })
	}

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("not all tasks ran")
	}
}

func TestThreadPoolZeroThreadCountClampsToOne(t *testing.T) {
	p := NewThreadPool(WithThreadCount(0))
	defer p.Close()

	var ran atomic.Bool
	done := make(chan struct{})
	p.Scheduler().Schedule(func() {
		ran.Store(true)
		close(done)
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("task never ran with clamped thread count")
	}
	require.True(t, ran.Load())
}

func TestThreadPoolCloseIsIdempotent(t *testing.T) {
	p := NewThreadPool(WithThreadCount(1))
	p.Close()
	p.Close()
}

func TestThreadPoolPanickingTaskDoesNotCrashWorker(t *testing.T) {
	p := NewThreadPool(WithThreadCount(1))
	defer p.Close()

	p.Scheduler().Schedule(func() { panic("boom") })

	var ran atomic.Bool
	done := make(chan struct{})
	p.Scheduler().Schedule(func() {
		ran.Store(true)
		close(done)
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("worker did not survive the panicking task")
	}
	require.True(t, ran.Load())
}

func TestScheduleWithCapturesArgument(t *testing.T) {
	p := NewThreadPool(WithThreadCount(1))
	defer p.Close()

	result := make(chan int, 1)
	ScheduleWith(p.Scheduler(), func(v int) { result <- v * 2 }, 21)

	select {
	case v := <-result:
		require.Equal(t, 42, v)
	case <-time.After(time.Second):
		t.Fatalf("ScheduleWith task never ran")
	}
}

func TestThreadPoolMetricsProvider(t *testing.T) {
	provider := metrics.NewBasicProvider()
	p := NewThreadPool(WithThreadCount(2), WithPoolMetrics(provider))
	defer p.Close()

	done := make(chan struct{})
	p.Scheduler().Schedule(func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("task never ran")
	}
}
