package utils

import (
	"sync"
	"time"
)

// Scheduler fires actions after a wall-clock delay without blocking the
// caller. Scheduled actions are process-local: nothing survives a restart.
type Scheduler struct {
	wg sync.WaitGroup
}

// NewScheduler creates a Scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// TimerHandle cancels a pending action. Cancelling after the action has
// started is a no-op.
type TimerHandle struct {
	timer *time.Timer
	done  func()
	once  sync.Once
}

// Cancel stops the pending action if it has not fired yet.
func (h *TimerHandle) Cancel() {
	if h.timer.Stop() {
		h.once.Do(h.done)
	}
}

// RunAfter schedules action to run once after delay. A zero or negative
// delay still runs the action on its own goroutine so the caller never
// blocks. The returned handle cancels the action if it has not fired.
func (s *Scheduler) RunAfter(delay time.Duration, action func()) *TimerHandle {
	s.wg.Add(1)
	handle := &TimerHandle{done: s.wg.Done}
	if delay < 0 {
		delay = 0
	}
	handle.timer = time.AfterFunc(delay, func() {
		defer handle.once.Do(handle.done)
		action()
	})
	return handle
}

// Wait blocks until every scheduled action has either run or been
// cancelled. Used by tests and graceful shutdown.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}
