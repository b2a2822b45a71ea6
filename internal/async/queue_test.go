package async

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestQueue_RunsSubmittedTasks(t *testing.T) {
	q := NewQueue(2, 8, zap.NewNop())

	var mu sync.Mutex
	ran := 0
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		require.NoError(t, q.Submit(func(_ context.Context) {
			defer wg.Done()
			mu.Lock()
			ran++
			mu.Unlock()
		}))
	}
	wg.Wait()

	assert.Equal(t, 5, ran)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	q.Shutdown(ctx)
}

func TestQueue_TaskGetsBackgroundContext(t *testing.T) {
	q := NewQueue(1, 1, zap.NewNop())

	done := make(chan error, 1)
	require.NoError(t, q.Submit(func(ctx context.Context) {
		done <- ctx.Err()
	}))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("task never ran")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	q.Shutdown(ctx)
}

func TestQueue_FullQueueRejectsWithoutBlocking(t *testing.T) {
	q := NewQueue(1, 1, zap.NewNop())

	block := make(chan struct{})
	started := make(chan struct{})
	require.NoError(t, q.Submit(func(_ context.Context) {
		close(started)
		<-block
	}))
	<-started

	// Worker is busy; the single buffer slot takes one more task.
	require.NoError(t, q.Submit(func(_ context.Context) {}))
	assert.ErrorIs(t, q.Submit(func(_ context.Context) {}), ErrQueueFull)

	close(block)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	q.Shutdown(ctx)
}

func TestQueue_RecoverFromPanic(t *testing.T) {
	q := NewQueue(1, 2, zap.NewNop())

	require.NoError(t, q.Submit(func(_ context.Context) {
		panic("task exploded")
	}))

	// The worker must survive the panic and run the next task.
	done := make(chan struct{})
	require.NoError(t, q.Submit(func(_ context.Context) {
		close(done)
	}))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not survive the panic")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	q.Shutdown(ctx)
}

func TestQueue_ShutdownWaitsForInFlight(t *testing.T) {
	q := NewQueue(1, 1, zap.NewNop())

	finished := false
	started := make(chan struct{})
	require.NoError(t, q.Submit(func(_ context.Context) {
		close(started)
		time.Sleep(50 * time.Millisecond)
		finished = true
	}))
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	q.Shutdown(ctx)

	assert.True(t, finished)
}
