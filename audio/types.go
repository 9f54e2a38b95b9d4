package audio

import (
	"errors"
)

// Direction is a cardinal facing, ordered clockwise
type Direction int

const (
	North Direction = iota
	East
	South
	West
	directionCount
)

func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	}
	return "unknown"
}

// Left returns the direction counter-clockwise of d
func (d Direction) Left() Direction {
	return (d + 3) % directionCount
}

// Right returns the direction clockwise of d
func (d Direction) Right() Direction {
	return (d + 1) % directionCount
}

// Opposite returns the reverse direction
func (d Direction) Opposite() Direction {
	return (d + 2) % directionCount
}

// BusID names a mixer bus
type BusID string

const (
	BusSpeech   BusID = "speech"
	BusEffects  BusID = "effects"
	BusAmbience BusID = "ambience"
	BusMusic    BusID = "music"
)

// AmbientSoundType selects a procedural generator variant
type AmbientSoundType string

const (
	SoundWind      AmbientSoundType = "wind"
	SoundWater     AmbientSoundType = "water"
	SoundDrip      AmbientSoundType = "drip"
	SoundHum       AmbientSoundType = "hum"
	SoundRumble    AmbientSoundType = "rumble"
	SoundCrickets  AmbientSoundType = "crickets"
	SoundHeartbeat AmbientSoundType = "heartbeat"
	SoundChimes    AmbientSoundType = "chimes"
)

// AmbienceSound is one layered sound within an ambience config
type AmbienceSound struct {
	ID     string
	Type   AmbientSoundType
	Volume float64
}

// AmbienceConfig describes a room's complete soundscape
type AmbienceConfig struct {
	ReverbDecay float64
	ReverbWet   float64
	Character   ReverbCharacter
	EQType      string
	Sounds      []AmbienceSound
}

// World is the room-graph collaborator consumed by the engine.
// Implementations live outside this package (see the world package).
type World interface {
	// Connection returns the node reachable from node in dir
	Connection(node string, dir Direction) (string, bool)

	// Lock returns the lock id guarding the connection, if any
	Lock(node string, dir Direction) (string, bool)

	// IsUnlocked reports whether a lock has been opened
	IsUnlocked(lockID string) bool

	// AmbienceConfig returns the soundscape for a node
	AmbienceConfig(node string) (AmbienceConfig, bool)
}

// Sentinel errors
var (
	ErrNotRunning      = errors.New("audio session not running")
	ErrAlreadyRunning  = errors.New("audio session already running")
	ErrNoSpeechBackend = errors.New("no speech synthesis backend found")
)
