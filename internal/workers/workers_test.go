package workers

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStartReminderWorker_RunsUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var calls atomic.Int32
	done := make(chan struct{})
	go func() {
		StartReminderWorker(ctx, 10*time.Millisecond, func(context.Context) (int, error) {
			if calls.Add(1) == 2 {
				return 0, errors.New("transient")
			}
			return 1, nil
		})
		close(done)
	}()

	assert.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancel")
	}
}

func TestStartReminderWorker_FirstRunIsImmediate(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ran := make(chan struct{}, 1)
	go StartReminderWorker(ctx, time.Hour, func(context.Context) (int, error) {
		select {
		case ran <- struct{}{}:
		default:
		}
		return 0, nil
	})

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("first run did not happen before the first tick")
	}
}

func TestStartReminderWorker_NonPositiveIntervalReturns(t *testing.T) {
	for _, interval := range []time.Duration{0, -time.Second} {
		var calls atomic.Int32
		done := make(chan struct{})
		go func() {
			defer close(done)
			StartReminderWorker(context.Background(), interval, func(context.Context) (int, error) {
				calls.Add(1)
				return 0, nil
			})
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatalf("worker with interval %s did not return", interval)
		}
		assert.Zero(t, calls.Load())
	}
}
