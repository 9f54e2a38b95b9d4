package param

import "time"

// Sonar sequence timing. The wall/passage delays delay-encode distance:
// the navigation mechanic depends on the two being clearly
// distinguishable by ear, so they are fixed constants, never per-level.
const (
	SonarPingDelay    = 350 * time.Millisecond
	SonarWallDelay    = 150 * time.Millisecond
	SonarPassageDelay = 450 * time.Millisecond
)

// Compass tone: one pitch per facing, played at sequence start
const (
	CompassToneDuration = 200 * time.Millisecond
	CompassToneAttack   = 10 * time.Millisecond
	CompassToneRelease  = 80 * time.Millisecond
	CompassToneVolume   = 0.5
)

// Compass pitches (Hz): N/E/S/W
var CompassFrequencies = [4]float64{523.25, 659.25, 392.00, 329.63}

// Outgoing ping: short rising sweep
const (
	SonarPingDuration  = 90 * time.Millisecond
	SonarPingStartFreq = 1200.0
	SonarPingEndFreq   = 2400.0
	SonarPingVolume    = 0.6
)

// Echo shaping: passage echoes travel further, returning darker and
// quieter than wall echoes
const (
	SonarEchoDuration      = 140 * time.Millisecond
	SonarEchoWallCutoff    = 2500.0
	SonarEchoPassageCutoff = 800.0
	SonarEchoWallVolume    = 0.45
	SonarEchoPassageVolume = 0.25
	SonarEchoWallFreq      = 2200.0
	SonarEchoPassageFreq   = 1100.0
)
