package jobs

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueProcessesJobs(t *testing.T) {
	var handled atomic.Int32
	q := NewQueue("reports", func(_ context.Context, _ Job) error {
		handled.Add(1)
		return nil
	}, QueueConfig{Workers: 2})
	q.Start(context.Background())
	defer q.Stop()

	for i := 0; i < 5; i++ {
		require.NoError(t, q.Enqueue(Job{ID: "job"}))
	}
	assert.Eventually(t, func() bool { return q.Stats().Processed == 5 }, time.Second, 5*time.Millisecond)
	assert.EqualValues(t, 5, handled.Load())
}

func TestQueueRetriesThenReportsExhaustion(t *testing.T) {
	var (
		mu       sync.Mutex
		attempts []int
		final    error
	)
	done := make(chan struct{})
	boom := errors.New("render failed")

	q := NewQueue("reports", func(_ context.Context, j Job) error {
		mu.Lock()
		attempts = append(attempts, j.Attempt)
		mu.Unlock()
		return boom
	}, QueueConfig{
		MaxRetries: 2,
		RetryDelay: time.Millisecond,
		OnExhausted: func(_ context.Context, _ Job, err error) {
			final = err
			close(done)
		},
	})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "r-1"}))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("job was never exhausted")
	}
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{0, 1, 2}, attempts)
	assert.ErrorIs(t, final, boom)
	assert.EqualValues(t, 1, q.Stats().Exhausted)
	assert.EqualValues(t, 3, q.Stats().Failed)
}

func TestQueueEnqueueRequiresStart(t *testing.T) {
	q := NewQueue("reports", func(context.Context, Job) error { return nil }, QueueConfig{})
	assert.Error(t, q.Enqueue(Job{ID: "x"}))
}

func TestQueueEnqueueFullBuffer(t *testing.T) {
	block := make(chan struct{})
	q := NewQueue("reports", func(context.Context, Job) error {
		<-block
		return nil
	}, QueueConfig{Workers: 1, BufferSize: 1})
	q.Start(context.Background())
	defer func() {
		close(block)
		q.Stop()
	}()

	require.NoError(t, q.Enqueue(Job{ID: "1"}))
	require.Eventually(t, func() bool { return q.Stats().Pending == 0 }, time.Second, time.Millisecond)
	require.NoError(t, q.Enqueue(Job{ID: "2"}))
	assert.ErrorIs(t, q.Enqueue(Job{ID: "3"}), ErrQueueFull)
}
