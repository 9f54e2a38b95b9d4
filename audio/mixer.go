package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"

	"github.com/lixenwraith/echomaze/param"
)

// DuckConfig is a bus's ducking envelope
type DuckConfig struct {
	Level   float64 // Ducked volume as fraction of base
	Attack  float64 // Seconds to reach ducked level
	Release float64 // Seconds to recover
}

// Bus is one named mixing lane. Every playable sound routes through
// exactly one bus.
type Bus struct {
	id         BusID
	priority   int
	baseVolume float64
	vol        *Ramp
	duck       DuckConfig
	mixer      *beep.Mixer
}

// ID returns the bus name
func (b *Bus) ID() BusID { return b.id }

// Priority returns the bus priority rank (lower ducks later)
func (b *Bus) Priority() int { return b.priority }

// BaseVolume returns the unducked volume
func (b *Bus) BaseVolume() float64 { return b.baseVolume }

// CurrentVolume returns the live (possibly ducked) volume target
func (b *Bus) CurrentVolume() float64 { return b.vol.Target() }

// BusMixer owns the fixed bus set feeding the master output
type BusMixer struct {
	session *Session

	mu      sync.Mutex
	buses   map[BusID]*Bus
	ducking bool
}

const unduckTaskID = "mixer.unduck"

// NewBusMixer creates the four standard buses and connects them to the
// session master. Speech carries a unity duck config: it is never
// ducked.
func NewBusMixer(s *Session, cfg *Config) *BusMixer {
	m := &BusMixer{
		session: s,
		buses:   make(map[BusID]*Bus),
	}

	defaultDuck := DuckConfig{
		Level:   param.DuckLevel,
		Attack:  param.DuckAttack,
		Release: param.DuckRelease,
	}

	m.addBus(BusSpeech, param.SpeechBusPriority, param.SpeechBusVolume, DuckConfig{Level: 1.0})
	m.addBus(BusEffects, param.EffectsBusPriority, param.EffectsBusVolume, defaultDuck)
	m.addBus(BusAmbience, param.AmbienceBusPriority, param.AmbienceBusVolume, defaultDuck)
	m.addBus(BusMusic, param.MusicBusPriority, param.MusicBusVolume, defaultDuck)

	if cfg != nil {
		for id, v := range cfg.BusVolumes {
			if b, ok := m.buses[id]; ok {
				b.baseVolume = clamp01(v)
				b.vol.Set(b.baseVolume)
			}
		}
	}

	return m
}

func (m *BusMixer) addBus(id BusID, priority int, volume float64, duck DuckConfig) {
	b := &Bus{
		id:         id,
		priority:   priority,
		baseVolume: volume,
		vol:        NewRamp(m.session.SampleRate(), volume),
		duck:       duck,
		mixer:      &beep.Mixer{},
	}
	m.buses[id] = b
	m.session.Add(NewGain(b.mixer, b.vol))
}

// Bus returns a bus by id
func (m *BusMixer) Bus(id BusID) (*Bus, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.buses[id]
	return b, ok
}

// Connect routes a streamer into a bus. An unknown bus id is a no-op.
func (m *BusMixer) Connect(id BusID, st beep.Streamer) {
	m.mu.Lock()
	b, ok := m.buses[id]
	m.mu.Unlock()
	if !ok {
		return
	}

	if m.session.Running() {
		speakerSafeAdd(b.mixer, st)
		return
	}
	b.mixer.Add(st)
}

// IsDucking reports whether a duck is active
func (m *BusMixer) IsDucking() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ducking
}

// Duck lowers the targeted buses to their ducked level. Re-entrant
// ducking while already ducked is a no-op; duck state never stacks.
// A nil override uses each bus's own envelope. Speech is unaffected
// regardless of targeting.
func (m *BusMixer) Duck(targets []BusID, override *DuckConfig) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ducking {
		return
	}
	m.ducking = true

	for _, id := range targets {
		b, ok := m.buses[id]
		if !ok || b.id == BusSpeech {
			continue
		}

		duck := b.duck
		if override != nil {
			duck = *override
		}
		b.vol.RampTo(clamp01(b.baseVolume*duck.Level), secs(duck.Attack))
	}
}

// Unduck restores the targeted buses to base volume. A no-op when not
// currently ducked.
func (m *BusMixer) Unduck(targets []BusID, override *DuckConfig) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.ducking {
		return
	}
	m.ducking = false

	for _, id := range targets {
		b, ok := m.buses[id]
		if !ok || b.id == BusSpeech {
			continue
		}

		duck := b.duck
		if override != nil {
			duck = *override
		}
		b.vol.RampTo(b.baseVolume, secs(duck.Release))
	}
}

// DuckForDuration ducks now and schedules the release after the
// estimate plus a safety buffer. Only one auto-unduck is pending at a
// time; re-triggering replaces the previous timer.
func (m *BusMixer) DuckForDuration(estimated time.Duration, targets []BusID) {
	m.Duck(targets, nil)
	m.session.Schedule(estimated+param.DuckReleaseBuffer, unduckTaskID, func() {
		m.Unduck(targets, nil)
	})
}

// SetBusVolume updates a bus's base volume. While ducked, the new base
// takes effect only once unducked; otherwise the live volume ramps to
// it. Unknown bus ids are a no-op.
func (m *BusMixer) SetBusVolume(id BusID, v float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.buses[id]
	if !ok {
		return
	}

	b.baseVolume = clamp01(v)
	if !m.ducking {
		b.vol.RampTo(b.baseVolume, param.BusVolumeRampDuration)
	}
}

func secs(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
