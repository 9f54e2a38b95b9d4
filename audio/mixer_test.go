package audio

import (
	"testing"
	"time"

	"github.com/lixenwraith/echomaze/param"
)

func newTestMixer(sched *recordingScheduler) *BusMixer {
	return NewBusMixer(newTestSession(sched), DefaultConfig())
}

var duckTargets = []BusID{BusEffects, BusAmbience, BusMusic}

// TestBusMixerBuses verifies the four standard buses exist with their
// priorities
func TestBusMixerBuses(t *testing.T) {
	m := newTestMixer(newRecordingScheduler())

	cases := []struct {
		id       BusID
		priority int
		volume   float64
	}{
		{BusSpeech, param.SpeechBusPriority, param.SpeechBusVolume},
		{BusEffects, param.EffectsBusPriority, param.EffectsBusVolume},
		{BusAmbience, param.AmbienceBusPriority, param.AmbienceBusVolume},
		{BusMusic, param.MusicBusPriority, param.MusicBusVolume},
	}

	for _, tc := range cases {
		b, ok := m.Bus(tc.id)
		if !ok {
			t.Fatalf("Missing bus %q", tc.id)
		}
		if b.Priority() != tc.priority {
			t.Errorf("Bus %q: expected priority %d, got %d", tc.id, tc.priority, b.Priority())
		}
		if b.BaseVolume() != tc.volume {
			t.Errorf("Bus %q: expected base volume %v, got %v", tc.id, tc.volume, b.BaseVolume())
		}
	}

	if _, ok := m.Bus("subwoofer"); ok {
		t.Error("Expected unknown bus lookup to fail")
	}
}

// TestBusVolumeOverrides verifies config overrides apply at construction
func TestBusVolumeOverrides(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BusVolumes = map[BusID]float64{BusMusic: 0.1, "subwoofer": 0.9}

	m := NewBusMixer(newTestSession(newRecordingScheduler()), cfg)

	b, _ := m.Bus(BusMusic)
	if b.BaseVolume() != 0.1 {
		t.Errorf("Expected overridden base volume 0.1, got %v", b.BaseVolume())
	}
	if b.CurrentVolume() != 0.1 {
		t.Errorf("Expected live volume 0.1, got %v", b.CurrentVolume())
	}
}

// TestDuck verifies ducking lowers targeted buses to their ducked level
func TestDuck(t *testing.T) {
	m := newTestMixer(newRecordingScheduler())
	m.Duck(duckTargets, nil)

	if !m.IsDucking() {
		t.Fatal("Expected ducking state after Duck")
	}

	for _, id := range duckTargets {
		b, _ := m.Bus(id)
		want := b.BaseVolume() * param.DuckLevel
		if got := b.CurrentVolume(); got != want {
			t.Errorf("Bus %q: expected ducked target %v, got %v", id, want, got)
		}
	}
}

// TestDuckIdempotent verifies re-entrant ducking never stacks
func TestDuckIdempotent(t *testing.T) {
	m := newTestMixer(newRecordingScheduler())

	m.Duck(duckTargets, nil)
	b, _ := m.Bus(BusAmbience)
	first := b.CurrentVolume()

	m.Duck(duckTargets, nil)
	m.Duck(duckTargets, nil)

	if got := b.CurrentVolume(); got != first {
		t.Errorf("Expected duck level unchanged after re-duck, got %v want %v", got, first)
	}
}

// TestDuckNeverTouchesSpeech verifies the speech bus is immune even
// when explicitly targeted
func TestDuckNeverTouchesSpeech(t *testing.T) {
	m := newTestMixer(newRecordingScheduler())

	b, _ := m.Bus(BusSpeech)
	before := b.CurrentVolume()

	m.Duck([]BusID{BusSpeech, BusEffects}, nil)
	if got := b.CurrentVolume(); got != before {
		t.Errorf("Expected speech volume untouched, got %v want %v", got, before)
	}
}

// TestUnduckWithoutDuck verifies Unduck is a no-op when not ducked
func TestUnduckWithoutDuck(t *testing.T) {
	m := newTestMixer(newRecordingScheduler())

	b, _ := m.Bus(BusEffects)
	before := b.CurrentVolume()

	m.Unduck(duckTargets, nil)
	if m.IsDucking() {
		t.Error("Expected no ducking state")
	}
	if got := b.CurrentVolume(); got != before {
		t.Errorf("Expected volume unchanged, got %v want %v", got, before)
	}
}

// TestDuckUnduckRestores verifies a full duck cycle returns every bus
// to base volume
func TestDuckUnduckRestores(t *testing.T) {
	m := newTestMixer(newRecordingScheduler())

	m.Duck(duckTargets, nil)
	m.Unduck(duckTargets, nil)

	if m.IsDucking() {
		t.Error("Expected ducking cleared after Unduck")
	}
	for _, id := range duckTargets {
		b, _ := m.Bus(id)
		if got := b.CurrentVolume(); got != b.BaseVolume() {
			t.Errorf("Bus %q: expected restore to base %v, got %v", id, b.BaseVolume(), got)
		}
	}
}

// TestDuckForDuration verifies the auto-unduck is scheduled with the
// release buffer and restores on fire
func TestDuckForDuration(t *testing.T) {
	sched := newRecordingScheduler()
	m := newTestMixer(sched)

	est := 2 * time.Second
	m.DuckForDuration(est, duckTargets)

	if !m.IsDucking() {
		t.Fatal("Expected ducking state")
	}

	tk, ok := sched.pending(unduckTaskID)
	if !ok {
		t.Fatal("Expected pending unduck task")
	}
	if want := est + param.DuckReleaseBuffer; tk.delay != want {
		t.Errorf("Expected unduck delay %v, got %v", want, tk.delay)
	}

	// Re-trigger replaces the pending release
	m.DuckForDuration(4*time.Second, duckTargets)
	tk, _ = sched.pending(unduckTaskID)
	if want := 4*time.Second + param.DuckReleaseBuffer; tk.delay != want {
		t.Errorf("Expected replaced unduck delay %v, got %v", want, tk.delay)
	}

	sched.run(unduckTaskID)
	if m.IsDucking() {
		t.Error("Expected ducking cleared after scheduled release")
	}
}

// TestSetBusVolumeWhileDucked verifies base volume changes defer until
// unducked
func TestSetBusVolumeWhileDucked(t *testing.T) {
	m := newTestMixer(newRecordingScheduler())

	m.Duck(duckTargets, nil)
	b, _ := m.Bus(BusMusic)
	ducked := b.CurrentVolume()

	m.SetBusVolume(BusMusic, 0.9)
	if got := b.CurrentVolume(); got != ducked {
		t.Errorf("Expected live volume held at ducked level %v, got %v", ducked, got)
	}
	if b.BaseVolume() != 0.9 {
		t.Errorf("Expected base volume updated to 0.9, got %v", b.BaseVolume())
	}

	m.Unduck(duckTargets, nil)
	if got := b.CurrentVolume(); got != 0.9 {
		t.Errorf("Expected restore to new base 0.9, got %v", got)
	}
}

// TestSetBusVolumeLive verifies an unducked volume change ramps
// immediately and clamps
func TestSetBusVolumeLive(t *testing.T) {
	m := newTestMixer(newRecordingScheduler())

	m.SetBusVolume(BusEffects, 1.7)
	b, _ := m.Bus(BusEffects)
	if got := b.CurrentVolume(); got != 1.0 {
		t.Errorf("Expected clamped target 1.0, got %v", got)
	}

	// Unknown bus: no panic, no effect
	m.SetBusVolume("subwoofer", 0.5)
}
