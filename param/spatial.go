package param

// Distance model defaults (distances are in rooms)
const (
	SpatialRefDistance = 1.0
	SpatialMaxDistance = 6.0
	SpatialRolloff     = 1.0

	// BehindAttenuation scales gain for sources behind the listener;
	// stereo pan cannot convey front/back, so behind is disambiguated
	// by level alone
	BehindAttenuation = 0.5

	// Air absorption simulation: log-interpolated lowpass cutoff
	FilterCutoffBase = 20000.0
	FilterCutoffMin  = 2000.0
)
