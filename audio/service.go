package audio

import (
	"sync/atomic"
)

// AudioService wraps Engine as a Service.
// Handles graceful degradation when no audio output is available.
type AudioService struct {
	engine    *Engine
	world     World
	startNode string
	disabled  atomic.Bool
}

// NewService creates a new audio service bound to a world
func NewService(w World) *AudioService {
	return &AudioService{world: w}
}

// Name implements Service
func (s *AudioService) Name() string {
	return "audio"
}

// Dependencies implements Service
func (s *AudioService) Dependencies() []string {
	return nil
}

// Init implements Service
// args[0]: bool - initial mute state (default unmuted)
// args[1]: string - starting node id
func (s *AudioService) Init(args ...any) error {
	cfg := LoadConfig()

	if len(args) > 0 {
		if muted, ok := args[0].(bool); ok {
			cfg.Enabled = !muted
		}
	}
	if len(args) > 1 {
		if node, ok := args[1].(string); ok {
			s.startNode = node
		}
	}

	s.engine = NewEngine(cfg, s.world)
	return nil
}

// Start implements Service; opening the speaker never errors outward,
// a failed backend just leaves the engine silent
func (s *AudioService) Start() error {
	if s.disabled.Load() || s.engine == nil {
		return nil
	}

	if err := s.engine.Start(s.startNode); err != nil {
		s.disabled.Store(true)
		return nil
	}
	return nil
}

// Stop implements Service
func (s *AudioService) Stop() error {
	if s.engine != nil {
		s.engine.Stop()
	}
	return nil
}

// IsDisabled returns true if audio is unavailable
func (s *AudioService) IsDisabled() bool {
	return s.disabled.Load()
}

// Engine returns the underlying Engine (may be nil if disabled)
func (s *AudioService) Engine() *Engine {
	if s.disabled.Load() {
		return nil
	}
	return s.engine
}
