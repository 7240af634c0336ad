package asyncexec

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestChannelPushPopFIFO(t *testing.T) {
	c := NewChannel[int]()
	c.Push(1)
	c.Push(2)
	c.Push(3)

	for _, want := range []int{1, 2, 3} {
		got, ok := c.Pop()
		require.True(t, ok)
		require.Equal(t, want, got)
	}
}

func TestChannelPopBlocksUntilPush(t *testing.T) {
	c := NewChannel[string]()
	got := make(chan string, 1)
	go func() {
		v, ok := c.Pop()
		require.True(t, ok)
		got <- v
	}()

	select {
	case <-got:
		t.Fatalf("Pop returned before any Push")
	case <-time.After(50 * time.Millisecond):
	}

	c.Push("hello")

	select {
	case v := <-got:
		require.Equal(t, "hello", v)
	case <-time.After(time.Second):
		t.Fatalf("Pop did not unblock after Push")
	}
}

func TestChannelClearWakesWaiters(t *testing.T) {
	c := NewChannel[int]()
	done := make(chan bool, 1)
	go func() {
		_, ok := c.Pop()
		done <- ok
	}()

	time.Sleep(20 * time.Millisecond)
	c.Clear()

	select {
	case ok := <-done:
		require.False(t, ok)
	case <-time.After(time.Second):
		t.Fatalf("Pop did not return after Clear")
	}
}

func TestChannelPushAfterClearIsNoOp(t *testing.T) {
	c := NewChannel[int]()
	c.Clear()
	c.Push(42)
	require.Equal(t, 0, c.Len())

	v, ok := c.Pop()
	require.False(t, ok)
	require.Equal(t, 0, v)
}

func TestChannelTryPushTryPop(t *testing.T) {
	c := NewChannel[int]()
	require.True(t, c.TryPush(1))

	v, ok := c.TryPop()
	require.True(t, ok)
	require.Equal(t, 1, v)

	_, ok = c.TryPop()
	require.False(t, ok)
}

func TestChannelConcurrentProducersConsumers(t *testing.T) {
	c := NewChannel[int]()
	const n = 100

	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(v int) {
			defer wg.Done()
			c.Push(v)
		}(i)
	}

	seen := make(map[int]bool)
	var mu sync.Mutex
	var consumers sync.WaitGroup
	consumers.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer consumers.Done()
			v, ok := c.Pop()
			require.True(t, ok)
			mu.Lock()
			seen[v] = true
			mu.Unlock()
		}()
	}

	wg.Wait()
	consumers.Wait()
	require.Len(t, seen, n)
}
