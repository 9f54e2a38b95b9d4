package audio

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"

	"github.com/lixenwraith/echomaze/param"
)

// ReverbCharacter names a parametric room character
type ReverbCharacter string

const (
	CharacterNatural  ReverbCharacter = "natural"
	CharacterMetallic ReverbCharacter = "metallic"
	CharacterStone    ReverbCharacter = "stone"
	CharacterEthereal ReverbCharacter = "ethereal"
)

// ReverbProfile is the full parameter set for one character
type ReverbProfile struct {
	CombDelays [4]float64 // Seconds
	Decay      float64    // Seconds to -60dB
	Wet        float64    // 0-1
	PreDelay   float64    // Seconds
	LowCut     float64    // Room low-cut (highpass) Hz
	HighCut    float64    // Room high-cut (lowpass) Hz
}

// Comb delay tunings follow the classic Schroeder ratios; metallic
// squeezes them together for ringing resonances, ethereal stretches
// them apart.
var reverbProfiles = map[ReverbCharacter]ReverbProfile{
	CharacterNatural: {
		CombDelays: [4]float64{0.0297, 0.0371, 0.0411, 0.0437},
		Decay:      1.5,
		Wet:        0.3,
		PreDelay:   0.02,
		LowCut:     120,
		HighCut:    8000,
	},
	CharacterMetallic: {
		CombDelays: [4]float64{0.0101, 0.0113, 0.0127, 0.0131},
		Decay:      2.2,
		Wet:        0.45,
		PreDelay:   0.005,
		LowCut:     300,
		HighCut:    12000,
	},
	CharacterStone: {
		CombDelays: [4]float64{0.0413, 0.0537, 0.0621, 0.0719},
		Decay:      2.8,
		Wet:        0.5,
		PreDelay:   0.035,
		LowCut:     80,
		HighCut:    5000,
	},
	CharacterEthereal: {
		CombDelays: [4]float64{0.0533, 0.0683, 0.0797, 0.0919},
		Decay:      4.5,
		Wet:        0.65,
		PreDelay:   0.06,
		LowCut:     200,
		HighCut:    6500,
	},
}

// combFeedback derives the feedback coefficient from a comb's delay
// time so the impulse response reaches -60dB at approximately decay
// seconds regardless of which comb delay is used
func combFeedback(delay, decay float64) float64 {
	fb := math.Pow(10, -3*delay/decay)
	if fb > param.ReverbFeedbackMax {
		fb = param.ReverbFeedbackMax
	}
	return fb
}

func clampDecay(decay float64) float64 {
	if decay < param.ReverbDecayMin {
		return param.ReverbDecayMin
	}
	if decay > param.ReverbDecayMax {
		return param.ReverbDecayMax
	}
	return decay
}

// combFilter is a delay line with feedback; the delay time ramps when
// the room character morphs, the feedback coefficient changes
// instantly (it only shapes the tail of future energy). The control
// thread retunes feedback while the render goroutine streams, so it is
// mutex-guarded like a Ramp value.
type combFilter struct {
	line *delayLine

	mu       sync.Mutex
	feedback float64
}

func newCombFilter(rate beep.SampleRate, delay, decay float64) *combFilter {
	return &combFilter{
		line:     newDelayLine(rate, param.ReverbMaxCombDelay, NewRamp(rate, delay)),
		feedback: combFeedback(delay, decay),
	}
}

func (c *combFilter) setFeedback(fb float64) {
	c.mu.Lock()
	c.feedback = fb
	c.mu.Unlock()
}

func (c *combFilter) currentFeedback() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.feedback
}

func (c *combFilter) process(in float64) float64 {
	out := c.line.read()
	c.line.write(in + out*c.currentFeedback())
	return out
}

// allpassFilter diffuses comb periodicity while staying magnitude-flat:
// output = feedforward*input + delayed, delay input = input +
// feedback*delayed, with feedforward = -g and feedback = +g
type allpassFilter struct {
	buf         []float64
	pos         int
	feedforward float64
	feedback    float64
}

func newAllpassFilter(rate beep.SampleRate, delay, g float64) *allpassFilter {
	size := int(delay * float64(rate))
	if size < 1 {
		size = 1
	}
	return &allpassFilter{
		buf:         make([]float64, size),
		feedforward: -g,
		feedback:    g,
	}
}

func (a *allpassFilter) process(in float64) float64 {
	delayed := a.buf[a.pos]
	out := a.feedforward*in + delayed
	a.buf[a.pos] = in + a.feedback*delayed
	a.pos++
	if a.pos >= len(a.buf) {
		a.pos = 0
	}
	return out
}

func (a *allpassFilter) reset() {
	for i := range a.buf {
		a.buf[i] = 0
	}
	a.pos = 0
}

// ReverbNetwork is a parametric Schroeder reverberator with room EQ
// and predelay. Sounds connect to Input(); the network itself is the
// output streamer carrying the dry+wet mix.
//
// Topology: input splits into a dry gain path and a wet path of
// highpass (room low-cut) -> predelay -> 4 parallel combs -> x0.25 ->
// 2 series allpasses -> lowpass (room high-cut) -> wet gain.
type ReverbNetwork struct {
	rate    beep.SampleRate
	session *Session
	input   *beep.Mixer

	combs     [4]*combFilter
	allpasses [2]*allpassFilter
	preDelay  *delayLine

	lowCut  *Ramp // Highpass cutoff
	highCut *Ramp // Lowpass cutoff
	hpState float64
	lpState float64

	wet *Ramp
	dry *Ramp

	mu        sync.Mutex
	decay     float64
	character ReverbCharacter

	scratch [512][2]float64
}

// NewReverbNetwork creates the network with the natural character
func NewReverbNetwork(s *Session) *ReverbNetwork {
	rate := s.SampleRate()
	profile := reverbProfiles[CharacterNatural]

	r := &ReverbNetwork{
		rate:      rate,
		session:   s,
		input:     &beep.Mixer{},
		preDelay:  newDelayLine(rate, param.ReverbMaxPreDelay, NewRamp(rate, profile.PreDelay)),
		lowCut:    NewRamp(rate, profile.LowCut),
		highCut:   NewRamp(rate, profile.HighCut),
		wet:       NewRamp(rate, profile.Wet),
		dry:       NewRamp(rate, 1-profile.Wet),
		decay:     profile.Decay,
		character: CharacterNatural,
	}

	for i := range r.combs {
		r.combs[i] = newCombFilter(rate, profile.CombDelays[i], profile.Decay)
	}
	for i := range r.allpasses {
		r.allpasses[i] = newAllpassFilter(rate, param.AllpassDelays[i], param.AllpassCoefficient)
	}

	return r
}

// Input returns the mixer sounds connect to
func (r *ReverbNetwork) Input() *beep.Mixer {
	return r.input
}

// Connect routes a streamer into the reverb input. While the speaker
// is streaming, the mutation happens under the speaker lock.
func (r *ReverbNetwork) Connect(st beep.Streamer) {
	if r.session.Running() {
		speakerSafeAdd(r.input, st)
		return
	}
	r.input.Add(st)
}

// Character returns the current room character
func (r *ReverbNetwork) Character() ReverbCharacter {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.character
}

// Decay returns the current decay target in seconds
func (r *ReverbNetwork) Decay() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.decay
}

// SetCharacter morphs to a named character over transition. Predelay,
// EQ cutoffs, wet/dry, and comb delay times ramp from their current
// values; decay-derived feedback switches instantly. An unknown
// character falls back to natural. Re-characterizing mid-transition
// restarts every ramp from its present value, never jumping.
func (r *ReverbNetwork) SetCharacter(c ReverbCharacter, transition time.Duration) {
	profile, ok := reverbProfiles[c]
	if !ok {
		c = CharacterNatural
		profile = reverbProfiles[c]
	}

	r.mu.Lock()
	r.character = c
	r.decay = clampDecay(profile.Decay)
	decay := r.decay
	r.mu.Unlock()

	r.preDelay.delay.RampTo(profile.PreDelay, transition)
	r.lowCut.RampTo(profile.LowCut, transition)
	r.highCut.RampTo(profile.HighCut, transition)
	r.wet.RampTo(clamp01(profile.Wet), transition)
	r.dry.RampTo(1-clamp01(profile.Wet), transition)

	for i, comb := range r.combs {
		comb.line.delay.RampTo(profile.CombDelays[i], transition)
		comb.setFeedback(combFeedback(profile.CombDelays[i], decay))
	}
}

// TransitionTo is the fast path for env-to-env morphing during room
// transitions: ramps wet/dry only and recomputes feedback instantly
// for the new decay
func (r *ReverbNetwork) TransitionTo(decay, wet float64, duration time.Duration) {
	decay = clampDecay(decay)
	wet = clamp01(wet)

	r.mu.Lock()
	r.decay = decay
	r.mu.Unlock()

	r.wet.RampTo(wet, duration)
	r.dry.RampTo(1-wet, duration)

	for _, comb := range r.combs {
		comb.setFeedback(combFeedback(comb.line.delay.Target(), decay))
	}
}

// Reset flushes all delay state (used on pause so stale tails do not
// ring back in on resume). While the speaker is streaming, the flush
// happens under the speaker lock.
func (r *ReverbNetwork) Reset() {
	if r.session.Running() {
		speakerSafe(r.flush)
		return
	}
	r.flush()
}

func (r *ReverbNetwork) flush() {
	for _, comb := range r.combs {
		comb.line.reset()
	}
	for _, ap := range r.allpasses {
		ap.reset()
	}
	r.preDelay.reset()
	r.hpState = 0
	r.lpState = 0
}

// Stream renders the dry+wet mix of everything connected to the input
func (r *ReverbNetwork) Stream(samples [][2]float64) (n int, ok bool) {
	out := samples
	for len(out) > 0 {
		chunk := len(out)
		if chunk > len(r.scratch) {
			chunk = len(r.scratch)
		}

		// The input mixer streams silence when empty, so the network
		// always produces a full block
		in := r.scratch[:chunk]
		for i := range in {
			in[i][0] = 0
			in[i][1] = 0
		}
		r.input.Stream(in)

		for i := 0; i < chunk; i++ {
			mono := (in[i][0] + in[i][1]) * 0.5

			// Room low-cut: one-pole highpass
			alpha := onePoleAlpha(r.lowCut.Tick(), r.rate)
			r.hpState += alpha * (mono - r.hpState)
			wetIn := mono - r.hpState

			r.preDelay.write(wetIn)
			delayed := r.preDelay.read()

			var combSum float64
			for _, comb := range r.combs {
				combSum += comb.process(delayed)
			}
			wet := combSum * param.CombMixScale

			for _, ap := range r.allpasses {
				wet = ap.process(wet)
			}

			// Room high-cut: one-pole lowpass
			alpha = onePoleAlpha(r.highCut.Tick(), r.rate)
			r.lpState += alpha * (wet - r.lpState)
			wet = r.lpState

			dryGain := r.dry.Tick()
			wetGain := r.wet.Tick()
			out[i][0] = in[i][0]*dryGain + wet*wetGain
			out[i][1] = in[i][1]*dryGain + wet*wetGain
		}

		out = out[chunk:]
		n += chunk
	}
	return n, true
}

func (r *ReverbNetwork) Err() error { return nil }
