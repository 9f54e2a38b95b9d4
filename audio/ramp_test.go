package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"
)

const testRate = beep.SampleRate(44100)

// TestRampSetJumps verifies Set takes effect immediately and cancels
// any ramp in flight
func TestRampSetJumps(t *testing.T) {
	r := NewRamp(testRate, 0.5)
	r.RampTo(1.0, time.Second)
	r.Set(0.2)

	if v := r.Value(); v != 0.2 {
		t.Errorf("Expected value 0.2 after Set, got %v", v)
	}
	if r.Ramping() {
		t.Error("Expected Set to cancel the ramp in flight")
	}
	if v := r.Tick(); v != 0.2 {
		t.Errorf("Expected Tick to hold 0.2, got %v", v)
	}
}

// TestRampReachesTarget verifies the ramp lands exactly on the target
func TestRampReachesTarget(t *testing.T) {
	r := NewRamp(testRate, 0.0)

	d := 10 * time.Millisecond
	n := testRate.N(d)
	r.RampTo(1.0, d)

	for i := 0; i < n; i++ {
		r.Tick()
	}

	if v := r.Value(); v != 1.0 {
		t.Errorf("Expected exact target 1.0 after ramp, got %v", v)
	}
	if r.Ramping() {
		t.Error("Expected ramp to be complete")
	}
}

// TestRampMonotonic verifies intermediate values move steadily toward
// the target
func TestRampMonotonic(t *testing.T) {
	r := NewRamp(testRate, 0.0)
	r.RampTo(1.0, 10*time.Millisecond)

	prev := r.Value()
	for i := 0; i < 100; i++ {
		v := r.Tick()
		if v < prev {
			t.Fatalf("Expected monotonic rise, got %v after %v", v, prev)
		}
		prev = v
	}
}

// TestRampRetargetSnapshotsCurrent verifies retargeting mid-ramp
// restarts from the present value without jumping
func TestRampRetargetSnapshotsCurrent(t *testing.T) {
	r := NewRamp(testRate, 0.0)
	r.RampTo(1.0, 10*time.Millisecond)

	for i := 0; i < 200; i++ {
		r.Tick()
	}
	mid := r.Value()
	if mid <= 0 || mid >= 1 {
		t.Fatalf("Expected mid-ramp value, got %v", mid)
	}

	r.RampTo(0.0, 10*time.Millisecond)
	if v := r.Value(); v != mid {
		t.Errorf("Expected retarget to hold current value %v, got %v", mid, v)
	}

	// First tick after retarget moves toward the new target, not away
	if v := r.Tick(); v > mid {
		t.Errorf("Expected descent after retarget, got %v from %v", v, mid)
	}
}

// TestRampZeroDuration verifies a zero-length ramp is a jump
func TestRampZeroDuration(t *testing.T) {
	r := NewRamp(testRate, 0.3)
	r.RampTo(0.9, 0)

	if v := r.Value(); v != 0.9 {
		t.Errorf("Expected immediate jump to 0.9, got %v", v)
	}
}

// TestRampTarget verifies Target reports the destination during a ramp
func TestRampTarget(t *testing.T) {
	r := NewRamp(testRate, 0.0)
	r.RampTo(0.7, time.Second)

	if tgt := r.Target(); math.Abs(tgt-0.7) > 1e-12 {
		t.Errorf("Expected target 0.7, got %v", tgt)
	}
	if v := r.Value(); v != 0.0 {
		t.Errorf("Expected value still 0.0 before ticking, got %v", v)
	}
}
