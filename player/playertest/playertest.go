// Package playertest provides an in-memory widget library for exercising the playback core.
package playertest

import (
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/solotube/solotube/player"
)

// Call is a recorded widget command.
type Call struct {
	Method string
	Value  float64
}

// Library hands out fake widgets.
type Library struct {
	// AvailableAfter is how many Available checks fail before the library loads.
	AvailableAfter int
	// Never keeps the library unavailable forever.
	Never bool
	// CreateErr makes Create fail.
	CreateErr error
	// WithoutDuration creates widgets lacking the duration query.
	WithoutDuration bool

	Checks  int
	Widgets []*Widget
}

func (l *Library) Available() bool {
	l.Checks++
	return !l.Never && l.Checks > l.AvailableAfter
}

func (l *Library) Create(source string, instance uuid.UUID, emit func(player.Event)) (player.Widget, error) {
	if l.CreateErr != nil {
		return nil, l.CreateErr
	}

	w := &Widget{Source: source, Instance: instance, emit: emit}
	l.Widgets = append(l.Widgets, w)

	if l.WithoutDuration {
		return partial{w}, nil
	}
	return w, nil
}

// Last returns the most recently created widget.
func (l *Library) Last() *Widget {
	if len(l.Widgets) == 0 {
		return nil
	}
	return l.Widgets[len(l.Widgets)-1]
}

// Widget records every command and echoes play and pause back as state changes,
// the way a real widget reports them.
type Widget struct {
	Source   string
	Instance uuid.UUID

	Position    float64
	Length      float64
	DurationErr error
	TimeErr     error
	Destroyed   int
	Calls       []Call

	emit func(player.Event)
}

func (w *Widget) record(method string, value float64) {
	w.Calls = append(w.Calls, Call{Method: method, Value: value})
}

func (w *Widget) Seek(seconds float64) error {
	w.record("seek", seconds)
	w.Position = seconds
	return nil
}

func (w *Widget) Play() error {
	w.record("play", 0)
	w.Report(player.WidgetPlaying)
	return nil
}

func (w *Widget) Pause() error {
	w.record("pause", 0)
	w.Report(player.WidgetPaused)
	return nil
}

func (w *Widget) SetRate(rate float64) error {
	w.record("rate", rate)
	return nil
}

func (w *Widget) CurrentTime() (float64, error) {
	if w.TimeErr != nil {
		return 0, w.TimeErr
	}
	return w.Position, nil
}

func (w *Widget) Duration() (float64, error) {
	if w.DurationErr != nil {
		return 0, w.DurationErr
	}
	return w.Length, nil
}

func (w *Widget) Destroy() error {
	w.Destroyed++
	return nil
}

// Ready emits the ready event with the given duration.
func (w *Widget) Ready(duration float64) {
	w.ReadyWith(player.Info{Duration: duration})
}

// ReadyWith emits the ready event carrying info.
func (w *Widget) ReadyWith(info player.Info) {
	w.Length = info.Duration
	w.emit(player.Event{Kind: player.EventReady, Instance: w.Instance, Info: info})
}

// Report emits a play state change.
func (w *Widget) Report(state player.WidgetState) {
	w.emit(player.Event{Kind: player.EventStateChange, Instance: w.Instance, State: state})
}

// Fail emits a widget error.
func (w *Widget) Fail(err error) {
	w.emit(player.Event{Kind: player.EventError, Instance: w.Instance, Err: err})
}

// Seeks lists the targets of every seek command.
func (w *Widget) Seeks() []float64 {
	return lo.FilterMap(w.Calls, func(c Call, _ int) (float64, bool) {
		return c.Value, c.Method == "seek"
	})
}

// Count returns how many times method was called.
func (w *Widget) Count(method string) int {
	return lo.CountBy(w.Calls, func(c Call) bool {
		return c.Method == method
	})
}

// Last returns the last call of method.
func (w *Widget) Last(method string) (Call, bool) {
	for i := len(w.Calls) - 1; i >= 0; i-- {
		if w.Calls[i].Method == method {
			return w.Calls[i], true
		}
	}
	return Call{}, false
}

// partial is a widget that exists but has not finished its own setup.
type partial struct {
	w *Widget
}

func (p partial) Seek(seconds float64) error { return p.w.Seek(seconds) }
func (p partial) Play() error { return p.w.Play() }
func (p partial) Pause() error { return p.w.Pause() }
func (p partial) SetRate(rate float64) error { return p.w.SetRate(rate) }
func (p partial) CurrentTime() (float64, error) { return p.w.CurrentTime() }
func (p partial) Destroy() error { return p.w.Destroy() }
