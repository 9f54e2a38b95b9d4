package audio

import (
	"sync"
	"time"

	"github.com/lixenwraith/echomaze/param"
)

// SonarState tracks the echolocation sequence
type SonarState int

const (
	SonarIdle SonarState = iota
	SonarCompassEmitted
	SonarPingEmitted
	SonarEchoEmitted
)

// Sonar emits the three-stage echolocation sequence: a compass tone
// for the current facing, an outgoing ping, and an echo whose delay
// encodes wall versus passage. The two echo delays are fixed
// constants; the navigation mechanic depends on them staying apart.
type Sonar struct {
	session *Session
	mixer   *BusMixer

	mu      sync.Mutex
	state   SonarState
	facing  Direction
	passage bool
}

const (
	sonarCompassTaskID = "sonar.compass"
	sonarPingTaskID    = "sonar.ping"
	sonarEchoTaskID    = "sonar.echo"
)

// NewSonar creates the sequencer routed into the effects bus
func NewSonar(s *Session, mixer *BusMixer) *Sonar {
	return &Sonar{
		session: s,
		mixer:   mixer,
	}
}

// State returns the sequence position
func (sn *Sonar) State() SonarState {
	sn.mu.Lock()
	defer sn.mu.Unlock()
	return sn.state
}

// Activate starts a fresh sequence. Re-triggering mid-sequence
// replaces the pending emissions; the stale sequence never fires.
func (sn *Sonar) Activate(facing Direction, hasPassageAhead bool) {
	sn.mu.Lock()
	sn.state = SonarIdle
	sn.facing = facing
	sn.passage = hasPassageAhead
	sn.mu.Unlock()

	echoDelay := param.SonarWallDelay
	if hasPassageAhead {
		echoDelay = param.SonarPassageDelay
	}

	sn.session.Schedule(0, sonarCompassTaskID, sn.emitCompass)
	sn.session.Schedule(param.SonarPingDelay, sonarPingTaskID, sn.emitPing)
	sn.session.Schedule(param.SonarPingDelay+echoDelay, sonarEchoTaskID, sn.emitEcho)
}

func (sn *Sonar) emitCompass() {
	sn.mu.Lock()
	facing := sn.facing
	sn.state = SonarCompassEmitted
	sn.mu.Unlock()

	rate := sn.session.SampleRate()
	freq := param.CompassFrequencies[int(facing)%len(param.CompassFrequencies)]

	osc := NewOscillator(rate, freq, param.CompassToneDuration, WaveSine)
	shaped := NewEnvelope(osc, rate, param.CompassToneDuration, param.CompassToneAttack, param.CompassToneRelease)
	sn.mixer.Connect(BusEffects, NewFixedGain(shaped, rate, param.CompassToneVolume))
}

func (sn *Sonar) emitPing() {
	sn.mu.Lock()
	sn.state = SonarPingEmitted
	sn.mu.Unlock()

	rate := sn.session.SampleRate()
	swp := NewSweep(rate, param.SonarPingStartFreq, param.SonarPingEndFreq, param.SonarPingDuration)
	shaped := NewEnvelope(swp, rate, param.SonarPingDuration, 2*time.Millisecond, 25*time.Millisecond)
	sn.mixer.Connect(BusEffects, NewFixedGain(shaped, rate, param.SonarPingVolume))
}

// emitEcho plays the return. A passage echo travelled further: darker
// and quieter than a wall echo.
func (sn *Sonar) emitEcho() {
	sn.mu.Lock()
	passage := sn.passage
	sn.state = SonarEchoEmitted
	sn.mu.Unlock()

	rate := sn.session.SampleRate()

	freq := param.SonarEchoWallFreq
	cutoff := param.SonarEchoWallCutoff
	volume := param.SonarEchoWallVolume
	if passage {
		freq = param.SonarEchoPassageFreq
		cutoff = param.SonarEchoPassageCutoff
		volume = param.SonarEchoPassageVolume
	}

	osc := NewOscillator(rate, freq, param.SonarEchoDuration, WaveSine)
	shaped := NewEnvelope(osc, rate, param.SonarEchoDuration, 5*time.Millisecond, 90*time.Millisecond)
	filtered := NewLowpass(shaped, rate, NewRamp(rate, cutoff))
	sn.mixer.Connect(BusEffects, NewFixedGain(filtered, rate, volume))

	sn.mu.Lock()
	sn.state = SonarIdle
	sn.mu.Unlock()
}
