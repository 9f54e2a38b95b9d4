package audio

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/lixenwraith/echomaze/param"
)

// SpeechBackend describes a CLI text-to-speech tool
type SpeechBackend struct {
	Name string
	Path string
	Args []string // Fixed args; the text is appended last
}

// VoiceParams tune the synthesized voice where the backend supports it
type VoiceParams struct {
	Rate   int // Words per minute
	Pitch  int // 0-99
	Volume int // 0-200
}

// DefaultVoiceParams returns the narrator defaults
func DefaultVoiceParams() VoiceParams {
	return VoiceParams{
		Rate:   param.SpeechDefaultRate,
		Pitch:  param.SpeechDefaultPitch,
		Volume: param.SpeechDefaultVolume,
	}
}

// DetectSpeechBackend searches for an available TTS tool.
// Priority: espeak-ng > espeak > flite > say (macOS).
func DetectSpeechBackend(voice VoiceParams) (*SpeechBackend, error) {
	if path, err := exec.LookPath("espeak-ng"); err == nil {
		return &SpeechBackend{
			Name: "espeak-ng",
			Path: path,
			Args: []string{
				"-s", strconv.Itoa(voice.Rate),
				"-p", strconv.Itoa(voice.Pitch),
				"-a", strconv.Itoa(voice.Volume),
			},
		}, nil
	}

	if path, err := exec.LookPath("espeak"); err == nil {
		return &SpeechBackend{
			Name: "espeak",
			Path: path,
			Args: []string{
				"-s", strconv.Itoa(voice.Rate),
				"-p", strconv.Itoa(voice.Pitch),
				"-a", strconv.Itoa(voice.Volume),
			},
		}, nil
	}

	if path, err := exec.LookPath("flite"); err == nil {
		return &SpeechBackend{
			Name: "flite",
			Path: path,
			Args: []string{"-t"},
		}, nil
	}

	if path, err := exec.LookPath("say"); err == nil {
		return &SpeechBackend{
			Name: "say",
			Path: path,
			Args: []string{"-r", strconv.Itoa(voice.Rate)},
		}, nil
	}

	return nil, ErrNoSpeechBackend
}

// Speech narrates text through an external synthesizer, ducking the
// other buses for the estimated utterance duration. A missing backend
// degrades to silent completion; speech must never break game logic.
type Speech struct {
	session *Session
	mixer   *BusMixer
	backend *SpeechBackend

	mu  sync.Mutex
	cmd *exec.Cmd
}

// NewSpeech creates the narrator. backend may be nil (silent mode).
func NewSpeech(s *Session, mixer *BusMixer, backend *SpeechBackend) *Speech {
	return &Speech{
		session: s,
		mixer:   mixer,
		backend: backend,
	}
}

// Available reports whether a synthesis backend was found
func (sp *Speech) Available() bool {
	return sp.backend != nil
}

// EstimateDuration predicts how long text takes to speak
func EstimateDuration(text string) time.Duration {
	words := len(strings.Fields(text))
	d := time.Duration(float64(words) / param.SpeechWordsPerSecond * float64(time.Second))
	if d < param.SpeechMinDuration {
		d = param.SpeechMinDuration
	}
	return d
}

// Speak synthesizes text, ducking effects/ambience/music until the
// estimated completion. done (optional) fires when the utterance
// finishes, or immediately in silent mode.
func (sp *Speech) Speak(text string, done func()) error {
	if sp.backend == nil {
		if done != nil {
			done()
		}
		return nil
	}

	sp.Stop()

	est := EstimateDuration(text)
	sp.mixer.DuckForDuration(est, []BusID{BusEffects, BusAmbience, BusMusic})

	args := append(append([]string(nil), sp.backend.Args...), text)
	cmd := exec.Command(sp.backend.Path, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("speech backend %s: %w", sp.backend.Name, err)
	}

	sp.mu.Lock()
	sp.cmd = cmd
	sp.mu.Unlock()

	go func() {
		cmd.Wait()

		sp.mu.Lock()
		if sp.cmd == cmd {
			sp.cmd = nil
		}
		sp.mu.Unlock()

		if done != nil {
			done()
		}
	}()

	return nil
}

// Stop interrupts the current utterance, if any
func (sp *Speech) Stop() {
	sp.mu.Lock()
	cmd := sp.cmd
	sp.cmd = nil
	sp.mu.Unlock()

	if cmd != nil && cmd.Process != nil {
		cmd.Process.Kill()
	}
}
