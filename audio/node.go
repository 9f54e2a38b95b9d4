package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
)

// Node primitives: the beep.Streamer building blocks every component
// wires its graph from. Parameters that may be retargeted mid-flight
// are Ramps.

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// oscillator generates raw audio waves for a fixed duration.
// duration <= 0 streams forever.
type oscillator struct {
	freq     float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
}

// NewOscillator creates an oscillator streamer
func NewOscillator(rate beep.SampleRate, freq float64, duration time.Duration, wave WaveType) beep.Streamer {
	samples := -1
	if duration > 0 {
		samples = rate.N(duration)
	}
	return &oscillator{
		freq:     freq,
		duration: samples,
		wave:     wave,
		rate:     rate,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.duration >= 0 && o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		case WaveSaw:
			val = 2.0 * (o.phase - 0.5)
		case WaveNoise:
			val = rand.Float64()*2 - 1
		}

		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase = o.phase - math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// sweep is an oscillator whose frequency glides linearly from start to
// end over its lifetime
type sweep struct {
	startFreq float64
	endFreq   float64
	phase     float64
	duration  int
	position  int
	rate      beep.SampleRate
}

// NewSweep creates a frequency-sweeping sine streamer
func NewSweep(rate beep.SampleRate, startFreq, endFreq float64, duration time.Duration) beep.Streamer {
	return &sweep{
		startFreq: startFreq,
		endFreq:   endFreq,
		duration:  rate.N(duration),
		rate:      rate,
	}
}

func (s *sweep) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if s.position >= s.duration {
			return i, i > 0
		}

		t := float64(s.position) / float64(s.duration)
		freq := s.startFreq + (s.endFreq-s.startFreq)*t
		val := math.Sin(2 * math.Pi * s.phase)

		samples[i][0] = val
		samples[i][1] = val

		s.phase += freq / float64(s.rate)
		s.phase = s.phase - math.Floor(s.phase)
		s.position++
	}
	return len(samples), true
}

func (s *sweep) Err() error { return nil }

// envelope applies attack/release shaping to a stream
type envelope struct {
	streamer       beep.Streamer
	position       int
	attackSamples  int
	releaseSamples int
	totalSamples   int
}

// NewEnvelope shapes s with a linear attack and release over duration
func NewEnvelope(s beep.Streamer, rate beep.SampleRate, duration, attack, release time.Duration) beep.Streamer {
	return &envelope{
		streamer:       s,
		attackSamples:  rate.N(attack),
		releaseSamples: rate.N(release),
		totalSamples:   rate.N(duration),
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)

	for i := 0; i < n; i++ {
		if e.position >= e.totalSamples {
			return i, i > 0
		}

		vol := 1.0
		if e.position < e.attackSamples && e.attackSamples > 0 {
			vol = float64(e.position) / float64(e.attackSamples)
		}
		releaseStart := e.totalSamples - e.releaseSamples
		if e.position >= releaseStart && e.releaseSamples > 0 {
			vol = float64(e.totalSamples-e.position) / float64(e.releaseSamples)
			if vol < 0 {
				vol = 0
			}
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}

	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// gainNode scales a stream by a ramped volume
type gainNode struct {
	streamer beep.Streamer
	vol      *Ramp
}

// NewGain wraps s with a ramped gain stage
func NewGain(s beep.Streamer, vol *Ramp) beep.Streamer {
	return &gainNode{streamer: s, vol: vol}
}

// NewFixedGain wraps s with a constant gain
func NewFixedGain(s beep.Streamer, rate beep.SampleRate, vol float64) beep.Streamer {
	return &gainNode{streamer: s, vol: NewRamp(rate, vol)}
}

func (g *gainNode) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = g.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		v := g.vol.Tick()
		samples[i][0] *= v
		samples[i][1] *= v
	}
	return n, ok
}

func (g *gainNode) Err() error { return g.streamer.Err() }

// panNode places a stream in the stereo field with equal-power panning.
// pan is -1 (hard left) .. +1 (hard right).
type panNode struct {
	streamer beep.Streamer
	pan      *Ramp
}

// NewPanner wraps s with a ramped stereo panner
func NewPanner(s beep.Streamer, pan *Ramp) beep.Streamer {
	return &panNode{streamer: s, pan: pan}
}

func (p *panNode) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = p.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		pos := (p.pan.Tick() + 1) * math.Pi / 4
		l := math.Cos(pos)
		r := math.Sin(pos)
		mono := (samples[i][0] + samples[i][1]) * 0.5
		samples[i][0] = mono * l
		samples[i][1] = mono * r
	}
	return n, ok
}

func (p *panNode) Err() error { return p.streamer.Err() }

// lowpassNode is a one-pole lowpass with a ramped cutoff
type lowpassNode struct {
	streamer beep.Streamer
	cutoff   *Ramp
	rate     beep.SampleRate
	stateL   float64
	stateR   float64
}

// NewLowpass wraps s with a ramped one-pole lowpass filter
func NewLowpass(s beep.Streamer, rate beep.SampleRate, cutoff *Ramp) beep.Streamer {
	return &lowpassNode{streamer: s, cutoff: cutoff, rate: rate}
}

func (f *lowpassNode) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = f.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		alpha := onePoleAlpha(f.cutoff.Tick(), f.rate)
		f.stateL += alpha * (samples[i][0] - f.stateL)
		f.stateR += alpha * (samples[i][1] - f.stateR)
		samples[i][0] = f.stateL
		samples[i][1] = f.stateR
	}
	return n, ok
}

func (f *lowpassNode) Err() error { return f.streamer.Err() }

// onePoleAlpha maps a cutoff frequency to the one-pole smoothing factor
func onePoleAlpha(cutoff float64, rate beep.SampleRate) float64 {
	if cutoff <= 0 {
		return 0
	}
	alpha := 1 - math.Exp(-2*math.Pi*cutoff/float64(rate))
	if alpha > 1 {
		alpha = 1
	}
	return alpha
}

// delayLine is a mono circular buffer with a ramped delay time and
// linear interpolation on the read head. Used inside the reverb
// network, where delay times morph between room characters.
type delayLine struct {
	buf   []float64
	pos   int
	delay *Ramp // Seconds
	rate  beep.SampleRate
}

func newDelayLine(rate beep.SampleRate, maxDelay float64, delay *Ramp) *delayLine {
	size := int(maxDelay*float64(rate)) + 2
	return &delayLine{
		buf:   make([]float64, size),
		delay: delay,
		rate:  rate,
	}
}

// read returns the sample delay seconds behind the write head
func (d *delayLine) read() float64 {
	offset := d.delay.Tick() * float64(d.rate)
	max := float64(len(d.buf) - 2)
	if offset > max {
		offset = max
	}
	if offset < 1 {
		offset = 1
	}

	idx := float64(d.pos) - offset
	for idx < 0 {
		idx += float64(len(d.buf))
	}
	i0 := int(idx)
	frac := idx - float64(i0)
	i1 := i0 + 1
	if i1 >= len(d.buf) {
		i1 = 0
	}
	return d.buf[i0]*(1-frac) + d.buf[i1]*frac
}

// write stores a sample and advances the write head
func (d *delayLine) write(v float64) {
	d.buf[d.pos] = v
	d.pos++
	if d.pos >= len(d.buf) {
		d.pos = 0
	}
}

func (d *delayLine) reset() {
	for i := range d.buf {
		d.buf[i] = 0
	}
	d.pos = 0
}
