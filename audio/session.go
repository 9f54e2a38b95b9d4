package audio

import (
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/echomaze/param"
)

// Session owns the shared real-time audio graph for one play session:
// the speaker output, the master mixer every bus feeds, and the
// deferred-task scheduler all components schedule fades and cleanups
// through. Components receive the session at construction; there is no
// global graph.
type Session struct {
	rate   beep.SampleRate
	master *beep.Mixer
	volume *Ramp
	sched  Scheduler

	running atomic.Bool
}

// NewSession creates a session without opening the speaker
func NewSession(cfg *Config) *Session {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	rate := beep.SampleRate(cfg.SampleRate)
	return &Session{
		rate:   rate,
		master: &beep.Mixer{},
		volume: NewRamp(rate, cfg.MasterVolume),
		sched:  newTimerScheduler(),
	}
}

// SampleRate returns the session sample rate
func (s *Session) SampleRate() beep.SampleRate {
	return s.rate
}

// Running reports whether the speaker is streaming
func (s *Session) Running() bool {
	return s.running.Load()
}

// Start opens the speaker and begins streaming the master mix
func (s *Session) Start() error {
	if s.running.Load() {
		return ErrAlreadyRunning
	}

	if err := speaker.Init(s.rate, s.rate.N(param.AudioBufferDuration)); err != nil {
		return err
	}

	speaker.Play(NewGain(s.master, s.volume))
	s.running.Store(true)
	return nil
}

// Stop cancels all pending tasks and silences the speaker
func (s *Session) Stop() {
	if !s.running.CompareAndSwap(true, false) {
		return
	}

	s.sched.CancelAll()
	speaker.Clear()
	speaker.Close()
}

// Add connects a streamer to the master mix. Safe against the render
// goroutine: mixer mutation happens under the speaker lock while
// streaming.
func (s *Session) Add(st beep.Streamer) {
	if s.running.Load() {
		speaker.Lock()
		s.master.Add(st)
		speaker.Unlock()
		return
	}
	s.master.Add(st)
}

// SetMasterVolume ramps the master gain, clamped to [0,1]
func (s *Session) SetMasterVolume(v float64) {
	s.volume.RampTo(clamp01(v), param.MasterFadeDuration)
}

// MasterVolume returns the ramp target for the master gain
func (s *Session) MasterVolume() float64 {
	return s.volume.Target()
}

// speakerSafe runs fn under the speaker lock so the render goroutine
// never observes a partial graph or state change
func speakerSafe(fn func()) {
	speaker.Lock()
	fn()
	speaker.Unlock()
}

// speakerSafeAdd mutates a live mixer under the speaker lock
func speakerSafeAdd(m *beep.Mixer, st beep.Streamer) {
	speakerSafe(func() { m.Add(st) })
}

// Schedule runs fn after d, replacing any pending task with the same id
func (s *Session) Schedule(d time.Duration, id string, fn func()) {
	s.sched.Schedule(d, id, fn)
}

// CancelScheduled stops a pending task
func (s *Session) CancelScheduled(id string) bool {
	return s.sched.Cancel(id)
}
