package param

import "time"

// Speech estimation and voice defaults for the exec-backed synthesizer
const (
	// SpeechWordsPerSecond drives duck-duration estimates
	SpeechWordsPerSecond = 2.5

	// SpeechMinDuration floors the estimate for very short prompts
	SpeechMinDuration = 600 * time.Millisecond

	SpeechDefaultRate   = 160 // Words per minute (espeak -s)
	SpeechDefaultPitch  = 50  // 0-99 (espeak -p)
	SpeechDefaultVolume = 100 // 0-200 (espeak -a)
)
