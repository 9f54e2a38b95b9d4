package param

import "time"

// Audio Hardware Settings
const (
	AudioSampleRate = 44100
	AudioChannels   = 2
	AudioBitDepth   = 16
)

// Audio Engine Timing
const (
	// AudioBufferDuration determines speaker latency
	AudioBufferDuration = 50 * time.Millisecond

	// MasterFadeDuration for mute/unmute transitions
	MasterFadeDuration = 100 * time.Millisecond
)

// Bus defaults: priority rank and base volume per bus
const (
	SpeechBusPriority   = 0
	EffectsBusPriority  = 1
	AmbienceBusPriority = 3
	MusicBusPriority    = 4

	SpeechBusVolume   = 1.0
	EffectsBusVolume  = 1.0
	AmbienceBusVolume = 0.8
	MusicBusVolume    = 0.6
)

// Ducking envelope defaults
const (
	DuckLevel   = 0.3
	DuckAttack  = 0.15 // Seconds
	DuckRelease = 0.4  // Seconds

	// DuckReleaseBuffer pads estimated durations before auto-unduck
	DuckReleaseBuffer = 200 * time.Millisecond

	// BusVolumeRampDuration for live base-volume changes
	BusVolumeRampDuration = 100 * time.Millisecond
)
