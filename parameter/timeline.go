package parameter

import "time"

// Timeline pacing, in timeline seconds. One timeline second is one second of
// autoplay; scroll maps the document onto the whole axis.
const (
	// EntryHold keeps the welcome screen before the camera starts moving
	EntryHold = 2.0

	// MentorTravel is the flight between consecutive mentor stops
	MentorTravel = 4.0

	// ReadPad is added to every typed hold so the last line can be read
	ReadPad = 1.5

	// SunTravel is the flight from the last mentor to the central object
	SunTravel = 6.0

	// BatchReveal, BatchHold and BatchRetract make up one token batch cycle
	BatchReveal  = 1.5
	BatchHold    = 2.5
	BatchRetract = 1.0

	// VoidTravel crosses the empty stretch behind the sun
	VoidTravel = 5.0

	// GalaxyTravel is the approach to each background galaxy
	GalaxyTravel = 4.0

	// FinaleTravel pulls back for the closing shot
	FinaleTravel = 5.0

	// FinaleStagger separates closing lines
	FinaleStagger = 0.8

	// FinaleTail holds the signature before the axis ends
	FinaleTail = 3.0
)

// Wall-clock timing
const (
	// InterstitialDuration is how long the arrival announcement stays up
	InterstitialDuration = 2400 * time.Millisecond

	// TypewriterInterval is the per-character reveal interval
	TypewriterInterval = 28 * time.Millisecond

	// HintUrgentDelay is the idle time before a visible hint escalates
	HintUrgentDelay = 6 * time.Second
)

// Camera rest poses relative to their anchors
var (
	EntryEye  = [3]float64{0, 6, 60}
	EntryLook = [3]float64{0, 0, -60}
	SunEye    = [3]float64{0, 8, 46}
	VoidEye   = [3]float64{0, 14, -70}
	FinaleEye = [3]float64{0, 70, 170}
)
