package audio

import (
	"time"

	"github.com/gopxl/beep"

	"github.com/lixenwraith/echomaze/param"
)

// recordedTask is one captured Schedule call
type recordedTask struct {
	delay time.Duration
	fn    func()
}

// recordingScheduler captures scheduled tasks instead of arming timers,
// so tests replay deferred work deterministically. Replace-on-same-id
// semantics mirror the production scheduler.
type recordingScheduler struct {
	tasks map[string]recordedTask
	order []string
}

func newRecordingScheduler() *recordingScheduler {
	return &recordingScheduler{tasks: make(map[string]recordedTask)}
}

func (s *recordingScheduler) Schedule(d time.Duration, id string, fn func()) {
	if _, ok := s.tasks[id]; !ok {
		s.order = append(s.order, id)
	}
	s.tasks[id] = recordedTask{delay: d, fn: fn}
}

func (s *recordingScheduler) Cancel(id string) bool {
	if _, ok := s.tasks[id]; !ok {
		return false
	}
	delete(s.tasks, id)
	return true
}

func (s *recordingScheduler) CancelAll() {
	s.tasks = make(map[string]recordedTask)
	s.order = nil
}

// pending returns the captured task for id
func (s *recordingScheduler) pending(id string) (recordedTask, bool) {
	tk, ok := s.tasks[id]
	return tk, ok
}

// run executes and removes a pending task
func (s *recordingScheduler) run(id string) bool {
	tk, ok := s.tasks[id]
	if !ok {
		return false
	}
	delete(s.tasks, id)
	tk.fn()
	return true
}

// newTestSession builds a session around a test scheduler without
// touching the speaker
func newTestSession(sched Scheduler) *Session {
	rate := beep.SampleRate(param.AudioSampleRate)
	return &Session{
		rate:   rate,
		master: &beep.Mixer{},
		volume: NewRamp(rate, 1.0),
		sched:  sched,
	}
}
