package audio

import (
	"encoding/json"
	"os"
	"strconv"

	"github.com/lixenwraith/echomaze/param"
)

// Config holds engine-wide audio settings
type Config struct {
	Enabled      bool
	MasterVolume float64
	SampleRate   int

	// BusVolumes overrides base volumes per bus id
	BusVolumes map[BusID]float64

	// Spatial model tuning
	Spatial SpatialConfig
}

// DefaultConfig returns baseline settings
func DefaultConfig() *Config {
	return &Config{
		Enabled:      true,
		MasterVolume: 1.0,
		SampleRate:   param.AudioSampleRate,
		BusVolumes:   map[BusID]float64{},
		Spatial:      DefaultSpatialConfig(),
	}
}

// LoadConfig loads audio configuration from environment variables
func LoadConfig() *Config {
	cfg := DefaultConfig()

	if enabled := os.Getenv("ECHOMAZE_AUDIO_ENABLED"); enabled != "" {
		if val, err := strconv.ParseBool(enabled); err == nil {
			cfg.Enabled = val
		}
	}

	// Master volume (0-100 converted to 0.0-1.0)
	if volume := os.Getenv("ECHOMAZE_MASTER_VOLUME"); volume != "" {
		if val, err := strconv.Atoi(volume); err == nil {
			cfg.MasterVolume = clamp01(float64(val) / 100.0)
		}
	}

	// Bus volumes from JSON, e.g. {"ambience":0.5,"music":0}
	if busVols := os.Getenv("ECHOMAZE_BUS_VOLUMES"); busVols != "" {
		var volumes map[string]float64
		if err := json.Unmarshal([]byte(busVols), &volumes); err == nil {
			for name, v := range volumes {
				cfg.BusVolumes[BusID(name)] = clamp01(v)
			}
		}
	}

	if sampleRate := os.Getenv("ECHOMAZE_SAMPLE_RATE"); sampleRate != "" {
		if val, err := strconv.Atoi(sampleRate); err == nil && val > 0 {
			cfg.SampleRate = val
		}
	}

	return cfg
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
