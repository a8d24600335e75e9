package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_RunsImmediatelyAndOnInterval(t *testing.T) {
	s := NewScheduler(nil)
	var calls atomic.Int32
	s.AddJob("tick", 10*time.Millisecond, func(ctx context.Context) error {
		calls.Add(1)
		return nil
	})

	s.Start(context.Background())
	require.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	s.Stop()

	stopped := calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, calls.Load())
}

func TestScheduler_StopsWithParentContext(t *testing.T) {
	s := NewScheduler(nil)
	done := make(chan struct{})
	s.AddJob("wait", time.Hour, func(ctx context.Context) error {
		<-ctx.Done()
		close(done)
		return ctx.Err()
	})

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("job did not observe cancellation")
	}
	s.Stop()
}

func TestScheduler_RunOnceKeepsGoingAfterFailure(t *testing.T) {
	s := NewScheduler(nil)
	var order []string
	s.AddJob("first", time.Hour, func(ctx context.Context) error {
		order = append(order, "first")
		return errors.New("boom")
	})
	s.AddJob("second", time.Hour, func(ctx context.Context) error {
		order = append(order, "second")
		return nil
	})

	s.RunOnce(context.Background())
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestScheduler_StopWithoutStart(t *testing.T) {
	s := NewScheduler(nil)
	assert.NotPanics(t, s.Stop)
}
