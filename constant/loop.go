package constant

// Playback rate limits accepted by the loop controller.
const (
	MinSpeed     = 0.25
	MaxSpeed     = 5.0
	DefaultSpeed = 1.0
)

// Scrubber percentage range.
const (
	ScrubberMin = 0.0
	ScrubberMax = 100.0

	// ScrubberStep and ScrubberCoarseStep are the keyboard nudges, in percent.
	ScrubberStep       = 1.0
	ScrubberCoarseStep = 10.0
)

// BoundsTolerance is the overshoot in seconds accepted at either edge of the media duration.
const BoundsTolerance = 0.5
