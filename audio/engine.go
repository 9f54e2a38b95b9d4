package audio

import (
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/echomaze/param"
)

// Engine translates game events into the audio core. Every public
// operation degrades to a silent no-op when the session is not
// running: missing audio must never break game logic.
type Engine struct {
	config   *Config
	session  *Session
	mixer    *BusMixer
	ambience *Ambience
	sonar    *Sonar
	speech   *Speech
	world    World

	mu          sync.Mutex
	currentNode string
	facing      Direction
	stepToggle  bool

	running atomic.Bool
	muted   atomic.Bool

	// Stats
	played   atomic.Uint64
	fallback atomic.Uint64 // Unknown identifiers substituted
}

// NewEngine builds the full component graph against a world. The
// speaker is not opened until Start.
func NewEngine(cfg *Config, w World) *Engine {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	session := NewSession(cfg)
	mixer := NewBusMixer(session, cfg)

	backend, _ := DetectSpeechBackend(DefaultVoiceParams())

	e := &Engine{
		config:   cfg,
		session:  session,
		mixer:    mixer,
		ambience: NewAmbience(session, mixer),
		sonar:    NewSonar(session, mixer),
		speech:   NewSpeech(session, mixer, backend),
		world:    w,
	}
	e.muted.Store(!cfg.Enabled)
	return e
}

// Session exposes the owned session (diagnostics, demo wiring)
func (e *Engine) Session() *Session { return e.session }

// Mixer exposes the bus mixer
func (e *Engine) Mixer() *BusMixer { return e.mixer }

// Start opens the speaker and applies the starting room's ambience
func (e *Engine) Start(startNode string) error {
	if e.running.Load() {
		return ErrAlreadyRunning
	}

	e.mu.Lock()
	e.currentNode = startNode
	e.facing = North
	e.mu.Unlock()

	if err := e.session.Start(); err != nil {
		// Silent mode: keep accepting events, produce nothing
		e.running.Store(true)
		return nil
	}
	e.running.Store(true)

	if cfg, ok := e.worldAmbience(startNode); ok {
		e.ambience.SetAmbience(cfg)
	}
	return nil
}

// Stop tears the engine down; idempotent
func (e *Engine) Stop() {
	if !e.running.CompareAndSwap(true, false) {
		return
	}
	e.speech.Stop()
	e.ambience.StopAll()
	e.session.Stop()
}

// ready gates every emission path. The session check covers silent
// mode: with no speaker draining the graph, enqueued streamers would
// only accumulate.
func (e *Engine) ready() bool {
	return e.running.Load() && e.session.Running() && !e.muted.Load()
}

// ToggleMute toggles mute, returning true if audio is now audible
func (e *Engine) ToggleMute() bool {
	newMute := !e.muted.Load()
	e.muted.Store(newMute)
	if newMute {
		e.session.SetMasterVolume(0)
	} else {
		e.session.SetMasterVolume(e.config.MasterVolume)
	}
	return !newMute
}

// IsMuted returns the mute state
func (e *Engine) IsMuted() bool {
	return e.muted.Load()
}

// FaceDirection updates the listener facing
func (e *Engine) FaceDirection(dir Direction) {
	e.mu.Lock()
	e.facing = dir
	e.mu.Unlock()
}

// Facing returns the listener facing
func (e *Engine) Facing() Direction {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.facing
}

// CurrentNode returns the room the listener occupies
func (e *Engine) CurrentNode() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.currentNode
}

// MoveTo plays a footstep and crossfades into the destination room's
// ambience when its config differs
func (e *Engine) MoveTo(node string) {
	e.mu.Lock()
	prev := e.currentNode
	e.currentNode = node
	e.mu.Unlock()

	if !e.ready() {
		return
	}

	e.playFootstep()

	if prev == node {
		return
	}
	if cfg, ok := e.worldAmbience(node); ok {
		e.ambience.TransitionTo(cfg, param.RoomTransitionDuration)
	}
}

// MoveBlocked plays the wall thud for a refused move
func (e *Engine) MoveBlocked() {
	if !e.ready() {
		return
	}

	rate := e.session.SampleRate()
	osc := NewOscillator(rate, param.BlockedThudFreq, param.BlockedThudDuration, WaveSine)
	shaped := NewEnvelope(osc, rate, param.BlockedThudDuration, 2*time.Millisecond, 120*time.Millisecond)
	e.mixer.Connect(BusEffects, NewFixedGain(shaped, rate, param.BlockedThudVolume))
	e.played.Add(1)
}

// ActivateSonar runs the echolocation sequence from the current node
// and facing. A locked connection sounds like a wall.
func (e *Engine) ActivateSonar() {
	if !e.ready() {
		return
	}

	e.mu.Lock()
	node := e.currentNode
	facing := e.facing
	e.mu.Unlock()

	e.sonar.Activate(facing, e.hasPassage(node, facing))
	e.played.Add(3)
}

// hasPassage reports whether the facing connection exists and is not
// lock-blocked
func (e *Engine) hasPassage(node string, dir Direction) bool {
	if e.world == nil {
		return false
	}
	if _, ok := e.world.Connection(node, dir); !ok {
		return false
	}
	if lockID, locked := e.world.Lock(node, dir); locked {
		return e.world.IsUnlocked(lockID)
	}
	return true
}

// Speak narrates text, ducking the other buses for its duration
func (e *Engine) Speak(text string) {
	if !e.ready() {
		return
	}
	e.speech.Speak(text, nil)
}

// IsDucking reports whether speech ducking is active
func (e *Engine) IsDucking() bool {
	return e.mixer.IsDucking()
}

// ActiveLayers returns the running ambience layer ids
func (e *Engine) ActiveLayers() []string {
	return e.ambience.ActiveLayers()
}

// CurrentEQType returns the active room EQ type
func (e *Engine) CurrentEQType() string {
	return e.ambience.CurrentEQType()
}

// Pause silences the world: generators torn down, pending timers
// cancelled, reverb tails flushed
func (e *Engine) Pause() {
	if !e.running.Load() {
		return
	}
	e.ambience.StopAll()
	e.ambience.Reverb().Reset()
}

// Resume re-applies the current room's ambience after a pause
func (e *Engine) Resume() {
	if !e.ready() {
		return
	}

	e.mu.Lock()
	node := e.currentNode
	e.mu.Unlock()

	if cfg, ok := e.worldAmbience(node); ok {
		e.ambience.TransitionTo(cfg, param.AmbienceTransitionDuration)
	}
}

// Stats returns played-emission and fallback-substitution counts
func (e *Engine) Stats() (played, fallbacks uint64) {
	return e.played.Load(), e.fallback.Load()
}

func (e *Engine) worldAmbience(node string) (AmbienceConfig, bool) {
	if e.world == nil {
		return AmbienceConfig{}, false
	}
	return e.world.AmbienceConfig(node)
}

func (e *Engine) playFootstep() {
	rate := e.session.SampleRate()

	// Alternate feet with a slight cutoff wobble
	e.mu.Lock()
	e.stepToggle = !e.stepToggle
	toggle := e.stepToggle
	e.mu.Unlock()

	cutoff := param.FootstepCutoff
	if toggle {
		cutoff *= 1.15
	}

	noise := NewOscillator(rate, 0, param.FootstepDuration, WaveNoise)
	shaped := NewEnvelope(noise, rate, param.FootstepDuration, 3*time.Millisecond, 80*time.Millisecond)
	filtered := NewLowpass(shaped, rate, NewRamp(rate, cutoff))
	e.mixer.Connect(BusEffects, NewFixedGain(filtered, rate, param.FootstepVolume))
	e.played.Add(1)
}

// signatureSpec is one item's audible identity
type signatureSpec struct {
	freqs []float64
	wave  WaveType
}

var itemSignatures = map[string]signatureSpec{
	"key":     {freqs: []float64{1318.51, 1567.98, 2093.00}, wave: WaveSine},
	"lantern": {freqs: []float64{523.25, 659.25}, wave: WaveSine},
	"potion":  {freqs: []float64{880, 932.33, 880}, wave: WaveSine},
	"scroll":  {freqs: []float64{698.46}, wave: WaveSaw},
	"stone":   {freqs: []float64{220, 207.65}, wave: WaveSquare},
}

// PlayItemSignature plays an item's audible identity, spatialized by
// direction and room distance. Unknown signatures substitute a generic
// tone and count as a fallback.
func (e *Engine) PlayItemSignature(sig string, dir Direction, distance int) {
	if !e.ready() || distance < 0 {
		return
	}

	spec, ok := itemSignatures[sig]
	if !ok {
		spec = signatureSpec{freqs: []float64{param.GenericSignatureFreq}, wave: WaveSine}
		e.fallback.Add(1)
	}

	e.mu.Lock()
	facing := e.facing
	e.mu.Unlock()

	sp := Spatialize(dir, facing, float64(distance), e.config.Spatial)
	if sp.Gain <= 0 {
		return
	}

	rate := e.session.SampleRate()
	noteDur := time.Duration(int(param.SignatureDuration) / len(spec.freqs))

	for i, freq := range spec.freqs {
		// Small human jitter between notes
		jitter := time.Duration(rand.Int63n(int64(5 * time.Millisecond)))
		delay := time.Duration(i)*noteDur + jitter

		freq := freq
		e.session.Schedule(delay, "engine.sig."+sig+"."+string(rune('a'+i)), func() {
			osc := NewOscillator(rate, freq, noteDur, spec.wave)
			shaped := NewEnvelope(osc, rate, noteDur, 5*time.Millisecond, noteDur/3)
			filtered := NewLowpass(shaped, rate, NewRamp(rate, sp.FilterCutoff))
			panned := NewPanner(filtered, NewRamp(rate, sp.Pan))
			e.mixer.Connect(BusEffects, NewFixedGain(panned, rate, sp.Gain*param.SignatureVolume))
		})
	}
	e.played.Add(1)
}
