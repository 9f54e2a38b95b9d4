package audio

import (
	"sync/atomic"
	"testing"
	"time"
)

// TestSchedulerFires verifies a scheduled task runs after its delay
func TestSchedulerFires(t *testing.T) {
	s := newTimerScheduler()

	done := make(chan struct{})
	s.Schedule(time.Millisecond, "fire", func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Scheduled task never fired")
	}
}

// TestSchedulerReplaceSameID verifies rescheduling cancels the stale task
func TestSchedulerReplaceSameID(t *testing.T) {
	s := newTimerScheduler()

	var stale atomic.Bool
	done := make(chan struct{})

	s.Schedule(5*time.Millisecond, "task", func() { stale.Store(true) })
	s.Schedule(10*time.Millisecond, "task", func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Replacement task never fired")
	}

	if stale.Load() {
		t.Error("Expected stale task to be cancelled by replacement")
	}
}

// TestSchedulerCancel verifies Cancel stops a pending task
func TestSchedulerCancel(t *testing.T) {
	s := newTimerScheduler()

	var fired atomic.Bool
	s.Schedule(10*time.Millisecond, "task", func() { fired.Store(true) })

	if !s.Cancel("task") {
		t.Error("Expected Cancel to report a pending task")
	}
	if s.Cancel("task") {
		t.Error("Expected second Cancel to report no pending task")
	}
	if s.Cancel("never-scheduled") {
		t.Error("Expected Cancel of unknown id to report false")
	}

	time.Sleep(30 * time.Millisecond)
	if fired.Load() {
		t.Error("Expected cancelled task not to fire")
	}
}

// TestSchedulerCancelAll verifies CancelAll stops every pending task
func TestSchedulerCancelAll(t *testing.T) {
	s := newTimerScheduler()

	var fired atomic.Int32
	for _, id := range []string{"a", "b", "c"} {
		s.Schedule(10*time.Millisecond, id, func() { fired.Add(1) })
	}
	s.CancelAll()

	time.Sleep(30 * time.Millisecond)
	if n := fired.Load(); n != 0 {
		t.Errorf("Expected no tasks to fire after CancelAll, got %d", n)
	}
}

// TestSchedulerZeroDelay verifies immediate scheduling works
func TestSchedulerZeroDelay(t *testing.T) {
	s := newTimerScheduler()

	done := make(chan struct{})
	s.Schedule(0, "now", func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Zero-delay task never fired")
	}
}
