package player

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/solotube/solotube/config"
	"github.com/solotube/solotube/key"
	"github.com/solotube/solotube/log"
	"github.com/solotube/solotube/sched"
	"github.com/spf13/viper"
)

// Status is the adapter's lifecycle state.
type Status int

const (
	StatusUnloaded Status = iota
	StatusLoading
	StatusReady
	StatusPlaying
	StatusPaused
	StatusDestroyed
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusUnloaded:
		return "unloaded"
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusPlaying:
		return "playing"
	case StatusPaused:
		return "paused"
	case StatusDestroyed:
		return "destroyed"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Options tunes the adapter.
type Options struct {
	// PollInterval is the delay between library availability checks.
	PollInterval time.Duration
	// MaxAttempts caps availability checks before the load fails.
	MaxAttempts int
	// PreviewLead is how many seconds before an endpoint a preview starts.
	PreviewLead float64
	// ReadyTimeout is how long a created widget may take to report a duration.
	ReadyTimeout time.Duration
}

// DefaultOptions returns the built-in tuning.
func DefaultOptions() Options {
	return Options{
		PollInterval: 100 * time.Millisecond,
		MaxAttempts:  50,
		PreviewLead:  1,
		ReadyTimeout: 30 * time.Second,
	}
}

// OptionsFromConfig reads the tuning from the configuration, falling back to defaults
// for unset or invalid values.
func OptionsFromConfig() Options {
	options := DefaultOptions()

	if d := config.Millis(key.PlayerLibraryPollInterval); d > 0 {
		options.PollInterval = d
	}
	if n := viper.GetInt(key.PlayerLibraryMaxAttempts); n > 0 {
		options.MaxAttempts = n
	}
	if lead := viper.GetFloat64(key.PreviewLead); lead >= 0 {
		options.PreviewLead = lead
	}
	if seconds := viper.GetInt(key.PlayerReadyTimeout); seconds > 0 {
		options.ReadyTimeout = time.Duration(seconds) * time.Second
	}

	return options
}

// Adapter owns the single widget instance. It must only be used from the scheduler's
// owner goroutine.
type Adapter struct {
	library   Library
	scheduler sched.Scheduler
	sink      EventSink
	options   Options
	logger    *log.Logger

	status   Status
	widget   Widget
	instance uuid.UUID
	source   string
	attempts int
	waiting  sched.Handle
}

// NewAdapter creates an unloaded adapter.
func NewAdapter(library Library, scheduler sched.Scheduler, sink EventSink, options Options) *Adapter {
	if options.PollInterval <= 0 {
		options.PollInterval = DefaultOptions().PollInterval
	}
	if options.MaxAttempts <= 0 {
		options.MaxAttempts = DefaultOptions().MaxAttempts
	}
	if options.ReadyTimeout <= 0 {
		options.ReadyTimeout = DefaultOptions().ReadyTimeout
	}

	return &Adapter{
		library:   library,
		scheduler: scheduler,
		sink:      sink,
		options:   options,
		logger:    log.For("player"),
	}
}

// Status reports the lifecycle state.
func (a *Adapter) Status() Status {
	return a.status
}

// Source returns the id of the loaded source, empty when unloaded.
func (a *Adapter) Source() string {
	return a.source
}

// Load releases any existing widget and starts loading source. onReady fires once, when the
// new widget reports ready with a positive duration.
func (a *Adapter) Load(source string, onReady func()) {
	a.Destroy()

	a.source = source
	a.instance = uuid.New()
	a.status = StatusLoading
	a.attempts = 0
	a.sink.OnLoad(source, onReady)

	if a.library.Available() {
		a.create()
		return
	}

	a.logger.Debugf("library not available yet, waiting for %s", source)
	a.waiting = a.scheduler.After(a.options.PollInterval, a.poll)
}

func (a *Adapter) poll() {
	a.waiting = 0
	a.attempts++

	if a.library.Available() {
		a.create()
		return
	}

	if a.attempts >= a.options.MaxAttempts {
		a.fail(fmt.Errorf("%w: library unavailable after %d attempts", ErrLibraryUnavailable, a.attempts))
		return
	}

	a.waiting = a.scheduler.After(a.options.PollInterval, a.poll)
}

func (a *Adapter) create() {
	widget, err := a.library.Create(a.source, a.instance, a.post)
	if err != nil {
		a.fail(fmt.Errorf("create widget for %s: %w", a.source, err))
		return
	}

	a.widget = widget
	a.logger.Infof("widget %s created for %s", a.instance, a.source)
	a.waiting = a.scheduler.After(a.options.ReadyTimeout, a.expire)
}

// expire fails a widget that never reported a duration.
func (a *Adapter) expire() {
	a.waiting = 0
	if a.status != StatusLoading {
		return
	}
	a.fail(fmt.Errorf("%w: %s was not ready after %s", ErrNoDuration, a.source, a.options.ReadyTimeout))
}

func (a *Adapter) fail(err error) {
	a.status = StatusFailed
	a.logger.Errorf("%v", err)
	a.sink.OnError(err)
}

// post moves a widget event onto the owner goroutine.
func (a *Adapter) post(event Event) {
	a.scheduler.After(0, func() {
		a.Handle(event)
	})
}

// Handle applies a widget event. Events from instances other than the live one are dropped.
func (a *Adapter) Handle(event Event) {
	if a.widget == nil || event.Instance != a.instance {
		a.logger.Debugf("dropping %s event from stale instance %s", event.Kind, event.Instance)
		return
	}

	switch event.Kind {
	case EventReady:
		if a.status != StatusLoading {
			return
		}
		a.scheduler.Cancel(a.waiting)
		a.waiting = 0
		if event.Info.Duration <= 0 {
			a.fail(fmt.Errorf("%w: %s", ErrNoDuration, a.source))
			return
		}
		a.status = StatusReady
		a.sink.OnReady(event.Info)
	case EventStateChange:
		if !a.IsReady() {
			a.logger.Debugf("ignoring %s before ready", event.State)
			return
		}
		switch event.State {
		case WidgetPlaying:
			a.status = StatusPlaying
		case WidgetPaused, WidgetEnded:
			a.status = StatusPaused
		}
		a.sink.OnStateChange(event.State)
	case EventError:
		a.logger.Warnf("widget error: %v", event.Err)
		a.sink.OnError(event.Err)
	}
}

// IsReady reports whether a widget exists, has signalled ready and can answer duration queries.
func (a *Adapter) IsReady() bool {
	if a.widget == nil {
		return false
	}

	switch a.status {
	case StatusReady, StatusPlaying, StatusPaused:
	default:
		return false
	}

	_, ok := a.widget.(DurationReporter)
	return ok
}

// SeekTo jumps to seconds.
func (a *Adapter) SeekTo(seconds float64) {
	if !a.IsReady() {
		a.logger.Debugf("seek to %.3f ignored: not ready", seconds)
		return
	}
	if err := a.widget.Seek(seconds); err != nil {
		a.logger.Warnf("seek to %.3f: %v", seconds, err)
	}
}

// SetPlaybackRate applies rate. Callers clamp it.
func (a *Adapter) SetPlaybackRate(rate float64) {
	if !a.IsReady() {
		a.logger.Debugf("rate %.3f ignored: not ready", rate)
		return
	}
	if err := a.widget.SetRate(rate); err != nil {
		a.logger.Warnf("set rate %.3f: %v", rate, err)
	}
}

// Play resumes playback.
func (a *Adapter) Play() {
	if !a.IsReady() {
		a.logger.Debugf("play ignored: not ready")
		return
	}
	if err := a.widget.Play(); err != nil {
		a.logger.Warnf("play: %v", err)
	}
}

// Pause is attempted whenever a widget exists.
func (a *Adapter) Pause() {
	if a.widget == nil {
		return
	}
	if err := a.widget.Pause(); err != nil {
		a.logger.Debugf("pause: %v", err)
	}
}

// Duration returns the media length in seconds, 0 when unknown.
func (a *Adapter) Duration() float64 {
	if !a.IsReady() {
		return 0
	}

	d, err := a.widget.(DurationReporter).Duration()
	if err != nil {
		a.logger.Warnf("duration query: %v", err)
		return 0
	}

	return d
}

// CurrentTime returns the playback position in seconds, 0 when unknown.
func (a *Adapter) CurrentTime() float64 {
	if !a.IsReady() {
		return 0
	}

	t, err := a.widget.CurrentTime()
	if err != nil {
		a.logger.Warnf("current time query: %v", err)
		return 0
	}

	return t
}

// Destroy tears down the widget. Safe to call repeatedly.
func (a *Adapter) Destroy() {
	a.scheduler.Cancel(a.waiting)
	a.waiting = 0

	if a.widget != nil {
		if err := a.widget.Destroy(); err != nil {
			a.logger.Warnf("destroy widget %s: %v", a.instance, err)
		}
		a.widget = nil
	}

	if a.status != StatusUnloaded {
		a.status = StatusDestroyed
	}
	a.instance = uuid.Nil
	a.source = ""
}

// PreviewPosition seeks to percent of the duration and plays. Endpoints start
// PreviewLead seconds early so the boundary is heard in context.
func (a *Adapter) PreviewPosition(percent float64, isEndpoint bool) {
	if !a.IsReady() {
		a.logger.Debugf("preview at %.2f%% ignored: not ready", percent)
		return
	}

	duration := a.Duration()
	if duration <= 0 {
		return
	}

	target := percent / 100 * duration
	if isEndpoint {
		target -= a.options.PreviewLead
	}
	if target < 0 {
		target = 0
	}

	a.SeekTo(target)
	a.Play()
}
