package audio

import (
	"math"

	"github.com/lixenwraith/echomaze/param"
)

// Spatialization math: pure functions mapping (direction, facing,
// distance) to pan, gain, and filter cutoff. Stereo pan cannot convey
// front/back, so both map to center pan; behind is disambiguated by
// gain attenuation only.

// RolloffModel selects the distance attenuation curve
type RolloffModel int

const (
	RolloffLinear RolloffModel = iota
	RolloffInverse
	RolloffExponential
)

// SpatialConfig tunes the distance model. Distances are in rooms.
type SpatialConfig struct {
	RefDistance float64
	MaxDistance float64
	Rolloff     float64
	Model       RolloffModel
}

// DefaultSpatialConfig returns the standard room-scale model
func DefaultSpatialConfig() SpatialConfig {
	return SpatialConfig{
		RefDistance: param.SpatialRefDistance,
		MaxDistance: param.SpatialMaxDistance,
		Rolloff:     param.SpatialRolloff,
		Model:       RolloffLinear,
	}
}

// SpatialParams is the derived placement tuple; computed on demand,
// never stored
type SpatialParams struct {
	Pan          float64 // -1..1
	Gain         float64 // 0..1
	FilterCutoff float64 // Hz
}

// RelativePan maps a source direction against the listener facing.
// Relative index clockwise: 0=front, 1=right, 2=behind, 3=left.
func RelativePan(source, facing Direction) float64 {
	rel := (int(source) - int(facing) + int(directionCount)) % int(directionCount)
	switch rel {
	case 1:
		return 1
	case 3:
		return -1
	default:
		return 0
	}
}

// IsBehind reports whether the source is directly behind the listener
func IsBehind(source, facing Direction) bool {
	rel := (int(source) - int(facing) + int(directionCount)) % int(directionCount)
	return rel == 2
}

// DistanceGain attenuates by room distance according to the config
func DistanceGain(distance float64, cfg SpatialConfig) float64 {
	if distance <= cfg.RefDistance {
		return 1.0
	}
	if distance >= cfg.MaxDistance {
		return 0.0
	}

	t := (distance - cfg.RefDistance) / (cfg.MaxDistance - cfg.RefDistance)

	var gain float64
	switch cfg.Model {
	case RolloffInverse:
		gain = cfg.RefDistance / (cfg.RefDistance + cfg.Rolloff*(distance-cfg.RefDistance))
	case RolloffExponential:
		gain = math.Pow(1-t, 2*cfg.Rolloff)
	default:
		gain = 1 - t*cfg.Rolloff
	}

	return clamp01(gain)
}

// DirectionalAttenuation scales gain for sources behind the listener
func DirectionalAttenuation(gain float64, isBehind bool, factor float64) float64 {
	if isBehind {
		return gain * factor
	}
	return gain
}

// DistanceFilterCutoff simulates air absorption with a log-interpolated
// lowpass cutoff
func DistanceFilterCutoff(distance, maxDistance float64) float64 {
	if distance <= 0 {
		return param.FilterCutoffBase
	}
	if distance >= maxDistance {
		return param.FilterCutoffMin
	}

	logBase := math.Log(param.FilterCutoffBase)
	logMin := math.Log(param.FilterCutoffMin)
	return math.Exp(logBase + (logMin-logBase)*distance/maxDistance)
}

// Spatialize combines the model into one placement tuple
func Spatialize(source, facing Direction, distance float64, cfg SpatialConfig) SpatialParams {
	gain := DistanceGain(distance, cfg)
	gain = DirectionalAttenuation(gain, IsBehind(source, facing), param.BehindAttenuation)
	return SpatialParams{
		Pan:          RelativePan(source, facing),
		Gain:         gain,
		FilterCutoff: DistanceFilterCutoff(distance, cfg.MaxDistance),
	}
}
