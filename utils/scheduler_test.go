package utils

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSchedulerRunAfterFires(t *testing.T) {
	s := NewScheduler()
	var fired int32
	s.RunAfter(time.Millisecond, func() { atomic.AddInt32(&fired, 1) })
	s.Wait()
	require.Equal(t, int32(1), atomic.LoadInt32(&fired))
}

func TestSchedulerNegativeDelayFiresImmediately(t *testing.T) {
	s := NewScheduler()
	done := make(chan struct{})
	s.RunAfter(-time.Hour, func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("action did not fire for a negative delay")
	}
	s.Wait()
}

func TestSchedulerCancelStopsPendingAction(t *testing.T) {
	s := NewScheduler()
	var fired int32
	handle := s.RunAfter(time.Hour, func() { atomic.AddInt32(&fired, 1) })
	handle.Cancel()

	// Wait must not block on a cancelled action.
	s.Wait()
	require.Equal(t, int32(0), atomic.LoadInt32(&fired))
}

func TestSchedulerCancelAfterFireIsNoop(t *testing.T) {
	s := NewScheduler()
	handle := s.RunAfter(0, func() {})
	s.Wait()
	handle.Cancel()
	handle.Cancel()
}
