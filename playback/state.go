package playback

import (
	"fmt"

	"github.com/samber/mo"
	"github.com/solotube/solotube/constant"
)

// Bounds are committed loop points in seconds.
type Bounds struct {
	Start float64
	End   float64
}

// Length is the loop duration in seconds.
func (b Bounds) Length() float64 {
	return b.End - b.Start
}

// Within reports whether the bounds fit 0 ≤ start < end ≤ duration, allowing a small overshoot
// at the edges.
func (b Bounds) Within(duration float64) bool {
	return b.Start >= -constant.BoundsTolerance &&
		b.Start < b.End &&
		b.End <= duration+constant.BoundsTolerance
}

// Clamp pulls slightly overshooting edges back into [0, duration].
func (b Bounds) Clamp(duration float64) Bounds {
	return Bounds{
		Start: max(b.Start, 0),
		End:   min(b.End, duration),
	}
}

func (b Bounds) String() string {
	return fmt.Sprintf("%.3f-%.3f", b.Start, b.End)
}

// State is the record of what is loaded and how it plays. Playing is never true while
// Ready is false.
type State struct {
	SourceID mo.Option[string]
	Ready    bool
	Playing  bool
	Duration float64

	Title   mo.Option[string]
	Author  mo.Option[string]
	Quality mo.Option[string]
	URL     mo.Option[string]

	LoopBounds mo.Option[Bounds]

	// Err is set when the widget failed to initialize or play.
	Err error

	onReady func()
}

// Loaded reports whether a source is current.
func (s State) Loaded() bool {
	return s.SourceID.IsPresent()
}

// Name is the best display name for the source.
func (s State) Name() string {
	if title, ok := s.Title.Get(); ok {
		return title
	}
	return s.SourceID.OrEmpty()
}
