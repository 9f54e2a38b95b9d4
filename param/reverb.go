package param

// Reverb network limits
const (
	// ReverbDecayMin/Max clamp decay time in seconds
	ReverbDecayMin = 0.5
	ReverbDecayMax = 5.0

	// ReverbFeedbackMax keeps comb filters stable
	ReverbFeedbackMax = 0.95

	// AllpassCoefficient is the diffusion coefficient g.
	// Feedforward path uses -g, feedback into the delay uses +g.
	AllpassCoefficient = 0.5

	// CombMixScale averages the four parallel comb outputs
	CombMixScale = 0.25

	// ReverbMaxPreDelay bounds the predelay line allocation (seconds)
	ReverbMaxPreDelay = 0.25

	// ReverbMaxCombDelay bounds comb delay line allocation (seconds)
	ReverbMaxCombDelay = 0.1
)

// Allpass delay times in seconds (series diffusers)
var AllpassDelays = [2]float64{0.0050, 0.0017}
