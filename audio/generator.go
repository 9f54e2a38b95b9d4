package audio

import (
	"math"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
)

// Ambient generators are endless procedural sources built from three
// synthesis primitives, parameterized by a data table per sound type:
//
//	filtered-noise drone  - wind, water
//	modulated drone       - hum, rumble, heartbeat body
//	event sequence        - drip, crickets, chimes, heartbeat
//
// Unknown sound types fall back to wind so an unrecognized layer in a
// level config degrades audibly instead of breaking the transition.

type generatorKind int

const (
	kindNoiseDrone generatorKind = iota
	kindDrone
	kindSequence
)

// eventStep is one strike in an event sequence
type eventStep struct {
	freq  float64 // 0 = noise burst instead of tone
	level float64
}

type generatorSpec struct {
	kind generatorKind

	// Noise drone
	cutoff float64

	// Drone
	baseFreq  float64
	harmonics []float64

	// Volume LFO (both drone kinds)
	lfoRate  float64
	lfoDepth float64

	// Sequence
	steps       []eventStep
	strikeDur   float64 // Seconds per strike
	minInterval float64 // Seconds between strikes
	maxInterval float64
	strikeband  float64 // Bandpass-ish center for noise strikes
}

var generatorTable = map[AmbientSoundType]generatorSpec{
	SoundWind: {
		kind:     kindNoiseDrone,
		cutoff:   400,
		lfoRate:  0.13,
		lfoDepth: 0.5,
	},
	SoundWater: {
		kind:     kindNoiseDrone,
		cutoff:   1200,
		lfoRate:  0.7,
		lfoDepth: 0.25,
	},
	SoundHum: {
		kind:      kindDrone,
		baseFreq:  90,
		harmonics: []float64{1.0, 0.4, 0.15},
		lfoRate:   0.25,
		lfoDepth:  0.15,
	},
	SoundRumble: {
		kind:      kindDrone,
		baseFreq:  45,
		harmonics: []float64{1.0, 0.6, 0.3, 0.1},
		lfoRate:   0.08,
		lfoDepth:  0.4,
	},
	SoundDrip: {
		kind:        kindSequence,
		steps:       []eventStep{{freq: 1400, level: 1.0}, {freq: 1750, level: 0.7}},
		strikeDur:   0.06,
		minInterval: 1.2,
		maxInterval: 4.5,
	},
	SoundCrickets: {
		kind:        kindSequence,
		steps:       []eventStep{{freq: 0, level: 0.8}},
		strikeDur:   0.03,
		minInterval: 0.12,
		maxInterval: 0.6,
		strikeband:  4200,
	},
	SoundHeartbeat: {
		kind:        kindSequence,
		steps:       []eventStep{{freq: 55, level: 1.0}, {freq: 50, level: 0.8}},
		strikeDur:   0.12,
		minInterval: 0.75,
		maxInterval: 0.95,
	},
	SoundChimes: {
		kind: kindSequence,
		steps: []eventStep{
			{freq: 1046.50, level: 0.9},
			{freq: 1318.51, level: 0.7},
			{freq: 1567.98, level: 0.8},
			{freq: 2093.00, level: 0.5},
		},
		strikeDur:   0.9,
		minInterval: 2.0,
		maxInterval: 7.0,
	},
}

// Generator is a running procedural source bound to a semantic layer
// id. Stopping flips an atomic flag; the next Stream call returns
// false and the owning mixer drops the node, so no feedback loop or
// oscillator keeps burning CPU after teardown.
type Generator struct {
	id  string
	typ AmbientSoundType

	vol     *Ramp
	stream  beep.Streamer
	stopped atomic.Bool
}

// newGenerator builds a generator for the sound type at the given
// volume. Unknown types substitute wind.
func newGenerator(rate beep.SampleRate, id string, typ AmbientSoundType, volume float64) *Generator {
	spec, ok := generatorTable[typ]
	if !ok {
		typ = SoundWind
		spec = generatorTable[typ]
	}

	g := &Generator{
		id:  id,
		typ: typ,
		vol: NewRamp(rate, clamp01(volume)),
	}

	var src beep.Streamer
	switch spec.kind {
	case kindDrone:
		src = newDroneStreamer(rate, spec)
	case kindSequence:
		src = newSequenceStreamer(rate, spec)
	default:
		src = newNoiseDroneStreamer(rate, spec)
	}

	g.stream = NewGain(src, g.vol)
	return g
}

// ID returns the semantic layer id
func (g *Generator) ID() string { return g.id }

// Type returns the generator's sound type (post-fallback)
func (g *Generator) Type() AmbientSoundType { return g.typ }

// Volume returns the current volume target
func (g *Generator) Volume() float64 { return g.vol.Target() }

// SetVolume ramps the generator volume
func (g *Generator) SetVolume(v float64, fade time.Duration) {
	g.vol.RampTo(clamp01(v), fade)
}

// Stop tears the generator down; idempotent
func (g *Generator) Stop() {
	g.stopped.Store(true)
}

// Stopped reports whether the generator has been torn down
func (g *Generator) Stopped() bool {
	return g.stopped.Load()
}

func (g *Generator) Stream(samples [][2]float64) (n int, ok bool) {
	if g.stopped.Load() {
		return 0, false
	}
	return g.stream.Stream(samples)
}

func (g *Generator) Err() error { return nil }

// noiseDroneStreamer: white noise through a one-pole lowpass with a
// slow volume LFO
type noiseDroneStreamer struct {
	rate     beep.SampleRate
	cutoff   float64
	state    float64
	lfoPhase float64
	lfoRate  float64
	lfoDepth float64
}

func newNoiseDroneStreamer(rate beep.SampleRate, spec generatorSpec) *noiseDroneStreamer {
	return &noiseDroneStreamer{
		rate:     rate,
		cutoff:   spec.cutoff,
		lfoRate:  spec.lfoRate,
		lfoDepth: spec.lfoDepth,
		lfoPhase: rand.Float64(),
	}
}

func (s *noiseDroneStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	alpha := onePoleAlpha(s.cutoff, s.rate)
	for i := range samples {
		noise := rand.Float64()*2 - 1
		s.state += alpha * (noise - s.state)

		lfo := 1.0
		if s.lfoDepth > 0 {
			lfo = 1 - s.lfoDepth*0.5 + s.lfoDepth*0.5*math.Sin(2*math.Pi*s.lfoPhase)
			s.lfoPhase += s.lfoRate / float64(s.rate)
			s.lfoPhase = s.lfoPhase - math.Floor(s.lfoPhase)
		}

		v := s.state * lfo * 2.5 // Make up for lowpass level loss
		samples[i][0] = v
		samples[i][1] = v
	}
	return len(samples), true
}

func (s *noiseDroneStreamer) Err() error { return nil }

// droneStreamer: summed sine harmonics with a slow volume LFO
type droneStreamer struct {
	rate      beep.SampleRate
	baseFreq  float64
	harmonics []float64
	phases    []float64
	lfoPhase  float64
	lfoRate   float64
	lfoDepth  float64
}

func newDroneStreamer(rate beep.SampleRate, spec generatorSpec) *droneStreamer {
	return &droneStreamer{
		rate:      rate,
		baseFreq:  spec.baseFreq,
		harmonics: spec.harmonics,
		phases:    make([]float64, len(spec.harmonics)),
		lfoRate:   spec.lfoRate,
		lfoDepth:  spec.lfoDepth,
		lfoPhase:  rand.Float64(),
	}
}

func (s *droneStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	var norm float64
	for _, h := range s.harmonics {
		norm += h
	}
	if norm <= 0 {
		norm = 1
	}

	for i := range samples {
		var v float64
		for h, level := range s.harmonics {
			v += level * math.Sin(2*math.Pi*s.phases[h])
			s.phases[h] += s.baseFreq * float64(h+1) / float64(s.rate)
			s.phases[h] = s.phases[h] - math.Floor(s.phases[h])
		}
		v /= norm

		lfo := 1.0
		if s.lfoDepth > 0 {
			lfo = 1 - s.lfoDepth*0.5 + s.lfoDepth*0.5*math.Sin(2*math.Pi*s.lfoPhase)
			s.lfoPhase += s.lfoRate / float64(s.rate)
			s.lfoPhase = s.lfoPhase - math.Floor(s.lfoPhase)
		}

		samples[i][0] = v * lfo
		samples[i][1] = v * lfo
	}
	return len(samples), true
}

func (s *droneStreamer) Err() error { return nil }

// sequenceStreamer: strikes from the step table separated by random
// silent gaps; each strike is an exponentially decaying tone or a
// filtered noise burst
type sequenceStreamer struct {
	rate beep.SampleRate
	spec generatorSpec

	stepIdx   int
	strikePos int
	strikeLen int
	gapLeft   int
	phase     float64
	noiseLP   float64
}

func newSequenceStreamer(rate beep.SampleRate, spec generatorSpec) *sequenceStreamer {
	s := &sequenceStreamer{
		rate:      rate,
		spec:      spec,
		strikeLen: int(spec.strikeDur * float64(rate)),
	}
	s.gapLeft = s.randomGap()
	return s
}

func (s *sequenceStreamer) randomGap() int {
	span := s.spec.maxInterval - s.spec.minInterval
	gap := s.spec.minInterval + rand.Float64()*span
	return int(gap * float64(s.rate))
}

func (s *sequenceStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		var v float64

		if s.gapLeft > 0 {
			s.gapLeft--
		} else {
			step := s.spec.steps[s.stepIdx]
			t := float64(s.strikePos) / float64(s.strikeLen)
			env := math.Exp(-6 * t)

			if step.freq > 0 {
				v = env * step.level * math.Sin(2*math.Pi*s.phase)
				s.phase += step.freq / float64(s.rate)
				s.phase = s.phase - math.Floor(s.phase)
			} else {
				noise := rand.Float64()*2 - 1
				alpha := onePoleAlpha(s.spec.strikeband, s.rate)
				s.noiseLP += alpha * (noise - s.noiseLP)
				v = env * step.level * s.noiseLP
			}

			s.strikePos++
			if s.strikePos >= s.strikeLen {
				s.strikePos = 0
				s.phase = 0
				s.stepIdx = (s.stepIdx + 1) % len(s.spec.steps)
				s.gapLeft = s.randomGap()
			}
		}

		samples[i][0] = v
		samples[i][1] = v
	}
	return len(samples), true
}

func (s *sequenceStreamer) Err() error { return nil }
