// Package player wraps a third-party media widget behind a uniform command surface.
//
// The widget itself (mpv, reached over JSON-IPC) signals readiness and play/pause transitions
// asynchronously. Adapter hides that behind guarded commands: anything issued before the widget
// reports ready is a silent no-op, and widget events are routed back onto the scheduler that owns
// the playback core.
package player

import (
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrNotReady is returned by widget implementations queried before their media is loaded.
	ErrNotReady = errors.New("player is not ready")

	// ErrLibraryUnavailable is reported when the widget library never became available.
	ErrLibraryUnavailable = errors.New("player failed to initialize")

	// ErrNoDuration is reported when the media never reports a usable duration, such as a live stream.
	ErrNoDuration = errors.New("video has no duration")
)

// Widget is a single loaded media instance.
type Widget interface {
	Seek(seconds float64) error
	Play() error
	Pause() error
	SetRate(rate float64) error
	CurrentTime() (float64, error)
	Destroy() error
}

// DurationReporter is implemented by widgets that have finished their own internal setup
// and can answer duration queries.
type DurationReporter interface {
	Duration() (float64, error)
}

// Library creates widgets. Emit may be called from any goroutine.
type Library interface {
	Available() bool
	Create(source string, instance uuid.UUID, emit func(Event)) (Widget, error)
}

// EventSink receives the adapter's lifecycle notifications.
type EventSink interface {
	OnLoad(source string, onReady func())
	OnReady(info Info)
	OnStateChange(state WidgetState)
	OnError(err error)
}

// EventKind discriminates widget events.
type EventKind int

const (
	EventReady EventKind = iota
	EventStateChange
	EventError
)

func (k EventKind) String() string {
	switch k {
	case EventReady:
		return "ready"
	case EventStateChange:
		return "state-change"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// WidgetState is the play state reported by the widget.
type WidgetState int

const (
	WidgetUnstarted WidgetState = iota
	WidgetPlaying
	WidgetPaused
	WidgetBuffering
	WidgetEnded
)

func (s WidgetState) String() string {
	switch s {
	case WidgetUnstarted:
		return "unstarted"
	case WidgetPlaying:
		return "playing"
	case WidgetPaused:
		return "paused"
	case WidgetBuffering:
		return "buffering"
	case WidgetEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Info describes the loaded media. Only Duration is guaranteed.
type Info struct {
	Duration float64
	Title    string
	Author   string
	Quality  string
	URL      string
}

// Event is emitted by a widget. Instance identifies the widget that produced it so
// events from a torn down instance can be discarded.
type Event struct {
	Kind     EventKind
	Instance uuid.UUID
	State    WidgetState
	Info     Info
	Err      error
}
