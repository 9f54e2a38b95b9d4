package audio

import (
	"sync"
	"time"
)

// Scheduler runs deferred control-thread tasks. Scheduling a task with
// an id that is already pending cancels the stale task first, so every
// "cancel stale timer before rescheduling" site goes through one path.
type Scheduler interface {
	// Schedule runs fn after d. A pending task with the same id is
	// cancelled and replaced.
	Schedule(d time.Duration, id string, fn func())

	// Cancel stops a pending task, reporting whether one was pending
	Cancel(id string) bool

	// CancelAll stops every pending task
	CancelAll()
}

// timerScheduler is the production Scheduler backed by time.AfterFunc
type timerScheduler struct {
	mu    sync.Mutex
	tasks map[string]*scheduledTask
}

type scheduledTask struct {
	timer *time.Timer
}

func newTimerScheduler() *timerScheduler {
	return &timerScheduler{
		tasks: make(map[string]*scheduledTask),
	}
}

func (s *timerScheduler) Schedule(d time.Duration, id string, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.tasks[id]; ok {
		prev.timer.Stop()
	}

	tk := &scheduledTask{}
	tk.timer = time.AfterFunc(d, func() {
		// Fire only if tk is still the registered task for this id; a
		// replace or cancel racing with expiry wins
		s.mu.Lock()
		current := s.tasks[id] == tk
		if current {
			delete(s.tasks, id)
		}
		s.mu.Unlock()
		if current {
			fn()
		}
	})
	s.tasks[id] = tk
}

func (s *timerScheduler) Cancel(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	tk, ok := s.tasks[id]
	if !ok {
		return false
	}
	tk.timer.Stop()
	delete(s.tasks, id)
	return true
}

func (s *timerScheduler) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, tk := range s.tasks {
		tk.timer.Stop()
		delete(s.tasks, id)
	}
}
