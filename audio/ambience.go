package audio

import (
	"math/rand"
	"sync"
	"time"

	"github.com/lixenwraith/echomaze/param"
)

// Ambience owns the reverb network and the registry of running
// generators, and performs atomic transitions between ambience
// configurations. At most one generator runs per semantic layer id.
type Ambience struct {
	session *Session
	reverb  *ReverbNetwork

	mu         sync.Mutex
	generators map[string]*Generator
	pending    map[string]struct{} // Layer ids with a scheduled stop
	eqType     string
}

const ambientEventTaskID = "ambience.event"

func stopTaskID(layerID string) string {
	return "ambience.stop." + layerID
}

// NewAmbience creates the orchestrator and routes the reverb output
// into the ambience bus
func NewAmbience(s *Session, mixer *BusMixer) *Ambience {
	a := &Ambience{
		session:    s,
		reverb:     NewReverbNetwork(s),
		generators: make(map[string]*Generator),
		pending:    make(map[string]struct{}),
	}
	mixer.Connect(BusAmbience, a.reverb)
	return a
}

// Reverb exposes the owned network for env-to-env morphing
func (a *Ambience) Reverb() *ReverbNetwork {
	return a.reverb
}

// ActiveLayers returns the ids of running generators
func (a *Ambience) ActiveLayers() []string {
	a.mu.Lock()
	defer a.mu.Unlock()

	ids := make([]string, 0, len(a.generators))
	for id := range a.generators {
		ids = append(ids, id)
	}
	return ids
}

// CurrentEQType returns the room EQ type of the active config
func (a *Ambience) CurrentEQType() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.eqType
}

// SetAmbience is the hard cut: stop and discard every generator, apply
// reverb parameters instantly, start the new layer set
func (a *Ambience) SetAmbience(cfg AmbienceConfig) {
	a.mu.Lock()
	for id, gen := range a.generators {
		a.cancelPendingStopLocked(id)
		gen.Stop()
		delete(a.generators, id)
	}
	a.eqType = cfg.EQType
	a.mu.Unlock()

	a.reverb.SetCharacter(cfg.Character, 0)
	a.reverb.TransitionTo(cfg.ReverbDecay, cfg.ReverbWet, 0)

	// Reverb jumps, generators still ease in to avoid start clicks
	for _, snd := range cfg.Sounds {
		a.startGenerator(snd.ID, snd.Type, snd.Volume, param.GeneratorFadeIn)
	}

	a.scheduleAmbientEvent(len(cfg.Sounds) > 0)
}

// TransitionTo is the soft cut: reverb parameters ramp over duration
// and the generator set crossfades. Layers leaving the config fade out
// and are stopped only after the ramp has provably completed; layers
// present in both configs retarget volume without restarting, keeping
// phase continuity; new layers fade in from silence.
func (a *Ambience) TransitionTo(cfg AmbienceConfig, duration time.Duration) {
	a.reverb.TransitionTo(cfg.ReverbDecay, cfg.ReverbWet, duration)

	if cfg.Character != "" && cfg.Character != a.reverb.Character() {
		a.reverb.SetCharacter(cfg.Character, duration)
		// Character profile overrides decay/wet; reassert the config's
		// values so the two ramp paths do not fight
		a.reverb.TransitionTo(cfg.ReverbDecay, cfg.ReverbWet, duration)
	}

	a.mu.Lock()
	a.eqType = cfg.EQType

	// Snapshot the registry before any mutation: fade-out targets are
	// computed against the previous state only
	previous := make(map[string]*Generator, len(a.generators))
	for id, gen := range a.generators {
		previous[id] = gen
	}

	incoming := make(map[string]AmbienceSound, len(cfg.Sounds))
	for _, snd := range cfg.Sounds {
		incoming[snd.ID] = snd
	}

	for id, gen := range previous {
		if _, keep := incoming[id]; keep {
			continue
		}
		gen.SetVolume(0, duration)
		a.schedulePendingStopLocked(id, gen, duration+param.GeneratorStopMargin)
	}

	var fresh []AmbienceSound
	for _, snd := range cfg.Sounds {
		if gen, ok := previous[snd.ID]; ok {
			// Re-entering within the fade window: cancel the stale
			// stop so the surviving generator is not torn down
			a.cancelPendingStopLocked(snd.ID)
			gen.SetVolume(snd.Volume, duration)
			continue
		}
		fresh = append(fresh, snd)
	}
	a.mu.Unlock()

	for _, snd := range fresh {
		a.startGenerator(snd.ID, snd.Type, snd.Volume, duration)
	}

	a.scheduleAmbientEvent(len(cfg.Sounds) > 0)
}

// StopAll cancels every pending stop timer and tears down every
// generator immediately. Used on pause and teardown.
func (a *Ambience) StopAll() {
	a.session.CancelScheduled(ambientEventTaskID)

	a.mu.Lock()
	defer a.mu.Unlock()

	for id := range a.pending {
		a.session.CancelScheduled(stopTaskID(id))
		delete(a.pending, id)
	}
	for id, gen := range a.generators {
		gen.Stop()
		delete(a.generators, id)
	}
}

// startGenerator creates, registers, and connects a generator, fading
// in from silence when fade > 0. An existing generator under the same
// id is torn down first.
func (a *Ambience) startGenerator(id string, typ AmbientSoundType, volume float64, fade time.Duration) {
	gen := newGenerator(a.session.SampleRate(), id, typ, volume)

	a.mu.Lock()
	if old, ok := a.generators[id]; ok {
		a.cancelPendingStopLocked(id)
		old.Stop()
	}
	a.generators[id] = gen
	a.mu.Unlock()

	if fade > 0 {
		gen.vol.Set(0)
		gen.vol.RampTo(clamp01(volume), fade)
	}
	a.reverb.Connect(gen)
}

// schedulePendingStopLocked arms the deferred teardown for a fading
// layer. Scheduling under the same task id replaces any stale timer.
// Caller holds a.mu.
func (a *Ambience) schedulePendingStopLocked(id string, gen *Generator, after time.Duration) {
	a.pending[id] = struct{}{}
	a.session.Schedule(after, stopTaskID(id), func() {
		a.mu.Lock()
		defer a.mu.Unlock()

		delete(a.pending, id)
		// Identity re-check: the registry may have moved on while the
		// timer was in flight
		if current, ok := a.generators[id]; ok && current == gen {
			current.Stop()
			delete(a.generators, id)
		}
	})
}

func (a *Ambience) cancelPendingStopLocked(id string) {
	if _, ok := a.pending[id]; ok {
		a.session.CancelScheduled(stopTaskID(id))
		delete(a.pending, id)
	}
}

// scheduleAmbientEvent arms (or disarms) the sparse one-shot ambient
// event timer: an occasional distant strike fed through the reverb
func (a *Ambience) scheduleAmbientEvent(enabled bool) {
	if !enabled {
		a.session.CancelScheduled(ambientEventTaskID)
		return
	}

	span := param.AmbientEventMaxInterval - param.AmbientEventMinInterval
	wait := param.AmbientEventMinInterval + time.Duration(rand.Int63n(int64(span)))
	a.session.Schedule(wait, ambientEventTaskID, func() {
		a.playAmbientEvent()
		a.scheduleAmbientEvent(true)
	})
}

func (a *Ambience) playAmbientEvent() {
	rate := a.session.SampleRate()
	freq := 900 + rand.Float64()*800
	dur := 250 * time.Millisecond

	osc := NewOscillator(rate, freq, dur, WaveSine)
	shaped := NewEnvelope(osc, rate, dur, 5*time.Millisecond, 200*time.Millisecond)
	a.reverb.Connect(NewFixedGain(shaped, rate, param.AmbientEventVolume))
}
