package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
)

// Ramp is a linearly interpolated streamer parameter. The render
// goroutine advances it one sample at a time via Tick; the control
// thread retargets it with Set or RampTo. Retargeting always snapshots
// the current value and discards the old ramp, so overlapping
// automation never stacks.
type Ramp struct {
	mu        sync.Mutex
	rate      beep.SampleRate
	current   float64
	step      float64
	remaining int
	target    float64
}

// NewRamp creates a ramp holding v
func NewRamp(rate beep.SampleRate, v float64) *Ramp {
	return &Ramp{
		rate:    rate,
		current: v,
		target:  v,
	}
}

// Value returns the instantaneous value without advancing
func (r *Ramp) Value() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Target returns the ramp destination (== Value when idle)
func (r *Ramp) Target() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.target
}

// Set jumps to v immediately, cancelling any ramp in flight
func (r *Ramp) Set(v float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = v
	r.target = v
	r.remaining = 0
	r.step = 0
}

// RampTo moves to v over d, starting from the current value
func (r *Ramp) RampTo(v float64, d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := r.rate.N(d)
	if n <= 0 {
		r.current = v
		r.target = v
		r.remaining = 0
		r.step = 0
		return
	}

	r.target = v
	r.remaining = n
	r.step = (v - r.current) / float64(n)
}

// Tick advances one sample and returns the new value
func (r *Ramp) Tick() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.remaining > 0 {
		r.current += r.step
		r.remaining--
		if r.remaining == 0 {
			r.current = r.target
		}
	}
	return r.current
}

// Ramping reports whether a ramp is in flight
func (r *Ramp) Ramping() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.remaining > 0
}
