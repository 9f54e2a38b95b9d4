package audio

import (
	"math"
	"testing"

	"github.com/lixenwraith/echomaze/param"
)

// TestRelativePan verifies the direction-to-pan mapping for every
// facing/source combination
func TestRelativePan(t *testing.T) {
	dirs := []Direction{North, East, South, West}

	for _, facing := range dirs {
		if pan := RelativePan(facing, facing); pan != 0 {
			t.Errorf("Expected center pan for source ahead of %v, got %v", facing, pan)
		}
		if pan := RelativePan(facing.Right(), facing); pan != 1 {
			t.Errorf("Expected hard right for source right of %v, got %v", facing, pan)
		}
		if pan := RelativePan(facing.Left(), facing); pan != -1 {
			t.Errorf("Expected hard left for source left of %v, got %v", facing, pan)
		}
		if pan := RelativePan(facing.Opposite(), facing); pan != 0 {
			t.Errorf("Expected center pan for source behind %v, got %v", facing, pan)
		}
	}
}

// TestIsBehind verifies only the opposite direction counts as behind
func TestIsBehind(t *testing.T) {
	for _, facing := range []Direction{North, East, South, West} {
		if IsBehind(facing, facing) {
			t.Errorf("Source ahead of %v flagged behind", facing)
		}
		if IsBehind(facing.Right(), facing) || IsBehind(facing.Left(), facing) {
			t.Errorf("Side source of %v flagged behind", facing)
		}
		if !IsBehind(facing.Opposite(), facing) {
			t.Errorf("Source opposite %v not flagged behind", facing)
		}
	}
}

// TestDistanceGainEndpoints verifies full gain inside the reference
// distance and silence beyond the maximum
func TestDistanceGainEndpoints(t *testing.T) {
	cfg := DefaultSpatialConfig()

	if g := DistanceGain(0, cfg); g != 1.0 {
		t.Errorf("Expected unity gain at distance 0, got %v", g)
	}
	if g := DistanceGain(cfg.RefDistance, cfg); g != 1.0 {
		t.Errorf("Expected unity gain at reference distance, got %v", g)
	}
	if g := DistanceGain(cfg.MaxDistance, cfg); g != 0.0 {
		t.Errorf("Expected zero gain at max distance, got %v", g)
	}
	if g := DistanceGain(cfg.MaxDistance+10, cfg); g != 0.0 {
		t.Errorf("Expected zero gain beyond max distance, got %v", g)
	}
}

// TestDistanceGainMonotonic verifies gain never increases with distance
// for any rolloff model
func TestDistanceGainMonotonic(t *testing.T) {
	for _, model := range []RolloffModel{RolloffLinear, RolloffInverse, RolloffExponential} {
		cfg := DefaultSpatialConfig()
		cfg.Model = model

		prev := math.Inf(1)
		for d := 0.0; d <= cfg.MaxDistance+1; d += 0.25 {
			g := DistanceGain(d, cfg)
			if g < 0 || g > 1 {
				t.Fatalf("Model %d: gain %v out of range at distance %v", model, g, d)
			}
			if g > prev {
				t.Fatalf("Model %d: gain rose from %v to %v at distance %v", model, prev, g, d)
			}
			prev = g
		}
	}
}

// TestDirectionalAttenuation verifies behind sources are attenuated and
// others pass through
func TestDirectionalAttenuation(t *testing.T) {
	if g := DirectionalAttenuation(0.8, true, param.BehindAttenuation); g != 0.8*param.BehindAttenuation {
		t.Errorf("Expected attenuated gain, got %v", g)
	}
	if g := DirectionalAttenuation(0.8, false, param.BehindAttenuation); g != 0.8 {
		t.Errorf("Expected unchanged gain, got %v", g)
	}
}

// TestDistanceFilterCutoff verifies the air absorption curve endpoints
// and monotonic darkening
func TestDistanceFilterCutoff(t *testing.T) {
	maxDist := param.SpatialMaxDistance

	if c := DistanceFilterCutoff(0, maxDist); c != param.FilterCutoffBase {
		t.Errorf("Expected full cutoff at distance 0, got %v", c)
	}
	if c := DistanceFilterCutoff(maxDist, maxDist); c != param.FilterCutoffMin {
		t.Errorf("Expected minimum cutoff at max distance, got %v", c)
	}

	prev := math.Inf(1)
	for d := 0.0; d <= maxDist; d += 0.5 {
		c := DistanceFilterCutoff(d, maxDist)
		if c > prev {
			t.Fatalf("Cutoff rose from %v to %v at distance %v", prev, c, d)
		}
		prev = c
	}
}

// TestSpatialize verifies the combined placement tuple
func TestSpatialize(t *testing.T) {
	cfg := DefaultSpatialConfig()

	// Source directly behind at reference distance: center pan,
	// attenuated gain
	sp := Spatialize(South, North, cfg.RefDistance, cfg)
	if sp.Pan != 0 {
		t.Errorf("Expected center pan for behind source, got %v", sp.Pan)
	}
	if sp.Gain != param.BehindAttenuation {
		t.Errorf("Expected behind attenuation %v, got %v", param.BehindAttenuation, sp.Gain)
	}

	// Source to the right ahead: full gain, hard right
	sp = Spatialize(East, North, cfg.RefDistance, cfg)
	if sp.Pan != 1 {
		t.Errorf("Expected hard right pan, got %v", sp.Pan)
	}
	if sp.Gain != 1.0 {
		t.Errorf("Expected unity gain at reference distance, got %v", sp.Gain)
	}

	// Out of range: silent
	sp = Spatialize(North, North, cfg.MaxDistance+1, cfg)
	if sp.Gain != 0 {
		t.Errorf("Expected silence beyond max distance, got %v", sp.Gain)
	}
}
