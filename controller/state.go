package controller

// AppState is where the user is in the load, select, loop flow.
type AppState int

const (
	// NoVideo waits for a source.
	NoVideo AppState = iota
	// NoLoopPoints has a source loaded while the user picks loop points.
	NoLoopPoints
	// FromURL has a fully specified link loaded, waiting for confirmation.
	FromURL
	// Ready is looping the committed segment.
	Ready
)

func (s AppState) String() string {
	switch s {
	case NoVideo:
		return "no-video"
	case NoLoopPoints:
		return "no-loop-points"
	case FromURL:
		return "from-url"
	case Ready:
		return "ready"
	default:
		return "unknown"
	}
}

// Action is a keyboard command available while looping.
type Action int

const (
	SpeedUp Action = iota
	SpeedDown
	Restart
	ResetSpeed
	TogglePlay
)

func (a Action) String() string {
	switch a {
	case SpeedUp:
		return "speed-up"
	case SpeedDown:
		return "speed-down"
	case Restart:
		return "restart"
	case ResetSpeed:
		return "reset-speed"
	case TogglePlay:
		return "toggle-play"
	default:
		return "unknown"
	}
}

// Scrubber is the pre-commit selection as percentages of the duration, Start ≤ End.
type Scrubber struct {
	Start float64
	End   float64
}

// Handle identifies a scrubber handle.
type Handle int

const (
	StartHandle Handle = iota
	EndHandle
)
