package asyncexec

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/corewind/asyncexec/metrics"
)

func TestNewRRSchedulerZeroQueuesPanics(t *testing.T) {
	require.PanicsWithValue(t, ErrZeroQueueCount, func() {
		NewRRScheduler(0)
	})
}

func TestSchedulerScheduleAndDrainSingleQueue(t *testing.T) {
	s := NewRRScheduler(1)
	w := s.NewWorker()

	var ran atomic.Bool
	s.Schedule(func() { ran.Store(true) })

	task, ok := w.Scheduled()
	require.True(t, ok)
	task()
	require.True(t, ran.Load())
}

func TestSchedulerFairnessAcrossQueues(t *testing.T) {
	const queues = 4
	const tasks = 400
	s := NewRRScheduler(queues)

	var wg sync.WaitGroup
	wg.Add(tasks)
	for i := 0; i < tasks; i++ {
		s.Schedule(func() { wg.Done() })
	}

	workers := make([]*SchedulerWorker, queues)
	for i := range workers {
		workers[i] = s.NewWorker()
	}

	var drained atomic.Int64
	done := make(chan struct{})
	for _, w := range workers {
		go func(w *SchedulerWorker) {
			for {
				select {
				case <-done:
					return
				default:
				}
				task, ok := w.Scheduled()
				if !ok {
					return
				}
				task()
				drained.Add(1)
			}
		}(w)
	}

	waitCh := make(chan struct{})
	go func() { wg.Wait(); close(waitCh) }()

	select {
	case <-waitCh:
	case <-time.After(2 * time.Second):
		t.Fatalf("not all tasks drained: %d/%d", drained.Load(), tasks)
	}
	close(done)
	s.Clear()
}

func TestSchedulerWorkStealing(t *testing.T) {
	s := NewRRScheduler(2)

	// With two queues, round robin alternates pushes, so scheduling enough
	// tasks gives both queues work. Two workers (homes 0 and 1) then drain
	// concurrently; whichever empties its home queue first takes the
	// remaining tasks through the steal path.
	const tasks = 20
	var wg sync.WaitGroup
	wg.Add(tasks)
	for i := 0; i < tasks; i++ {
		s.Schedule(func() { wg.Done() })
	}

	w0 := s.NewWorker()
	w1 := s.NewWorker()

	done := make(chan struct{})
	drain := func(w *SchedulerWorker) {
		for {
			select {
			case <-done:
				return
			default:
			}
			task, ok := w.Scheduled()
			if !ok {
				return
			}
			task()
		}
	}
	go drain(w0)
	go drain(w1)

	waitCh := make(chan struct{})
	go func() { wg.Wait(); close(waitCh) }()

	select {
	case <-waitCh:
	case <-time.After(2 * time.Second):
		t.Fatalf("tasks were not all drained, possible stealing deadlock")
	}
	close(done)
	s.Clear()
}

func TestSchedulerRecordsQueueWaitHistogram(t *testing.T) {
	provider := metrics.NewBasicProvider()
	s := NewRRScheduler(1, WithSchedulerMetrics(provider))
	w := s.NewWorker()

	s.Schedule(func() {})
	task, ok := w.Scheduled()
	require.True(t, ok)
	task()

	hist := provider.Histogram("scheduler.queue_wait_seconds")
	snap := hist.(*metrics.BasicHistogram).Snapshot()
	require.Equal(t, int64(1), snap.Count)
	require.GreaterOrEqual(t, snap.Sum, 0.0)
}

func TestSchedulerClearUnblocksWorkers(t *testing.T) {
	s := NewRRScheduler(1)
	w := s.NewWorker()

	done := make(chan bool, 1)
	go func() {
		_, ok := w.Scheduled()
		done <- ok
	}()

	time.Sleep(20 * time.Millisecond)
	s.Clear()

	select {
	case ok := <-done:
		require.False(t, ok)
	case <-time.After(time.Second):
		t.Fatalf("Scheduled did not return after Clear")
	}
}
