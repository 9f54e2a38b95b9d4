package param

import "time"

// Ambience orchestration timing
const (
	// AmbienceTransitionDuration default crossfade between room configs
	AmbienceTransitionDuration = 2 * time.Second

	// GeneratorStopMargin guarantees a fade-out ramp completed before
	// the generator is stopped and discarded
	GeneratorStopMargin = 100 * time.Millisecond

	// GeneratorFadeIn for freshly created generators
	GeneratorFadeIn = 500 * time.Millisecond

	// Random one-shot ambient events
	AmbientEventMinInterval = 8 * time.Second
	AmbientEventMaxInterval = 25 * time.Second
	AmbientEventVolume      = 0.35
)

// Movement sounds
const (
	FootstepDuration = 120 * time.Millisecond
	FootstepCutoff   = 900.0
	FootstepVolume   = 0.4

	BlockedThudDuration = 180 * time.Millisecond
	BlockedThudFreq     = 70.0
	BlockedThudVolume   = 0.55

	// RoomTransitionDuration for env-to-env reverb morphing on movement
	RoomTransitionDuration = 1200 * time.Millisecond
)

// Item signature defaults
const (
	SignatureDuration = 350 * time.Millisecond
	SignatureVolume   = 0.5

	// GenericSignatureFreq is the fallback tone for unknown signatures
	GenericSignatureFreq = 880.0
)
