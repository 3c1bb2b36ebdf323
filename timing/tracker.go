// Package timing samples the playback position every display frame and keeps playback
// inside the committed loop.
package timing

import (
	"sync"
	"time"

	"github.com/samber/mo"
	"github.com/solotube/solotube/log"
	"github.com/solotube/solotube/playback"
	"github.com/solotube/solotube/sched"
)

// Source is queried for the position and receives boundary seeks.
type Source interface {
	CurrentTime() float64
	SeekTo(seconds float64)
}

// Bounder supplies the committed loop points.
type Bounder interface {
	LoopBounds() mo.Option[playback.Bounds]
}

// Tracker is idle until started, then runs one callback per frame until stopped.
// At most one frame callback is scheduled at any time.
type Tracker struct {
	scheduler sched.Scheduler
	source    Source
	bounds    Bounder
	interval  time.Duration
	logger    *log.Logger

	handle   sched.Handle
	tracking bool

	mu        sync.RWMutex
	current   float64
	starts    int
	stops     int
	observers []func(float64)
}

// New creates an idle tracker sampling at fps frames per second.
func New(scheduler sched.Scheduler, source Source, bounds Bounder, fps int) *Tracker {
	return &Tracker{
		scheduler: scheduler,
		source:    source,
		bounds:    bounds,
		interval:  sched.FrameInterval(fps),
		logger:    log.For("timing"),
	}
}

// Observe registers fn to receive every published position.
func (t *Tracker) Observe(fn func(seconds float64)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.observers = append(t.observers, fn)
}

// Start begins tracking, replacing any frame already scheduled. The first frame runs immediately.
func (t *Tracker) Start() {
	t.scheduler.Cancel(t.handle)
	t.handle = 0
	t.tracking = true

	t.mu.Lock()
	t.starts++
	t.mu.Unlock()

	t.logger.Debugf("tracking started")
	t.frame()
}

// Stop cancels the scheduled frame. Safe to call while idle.
func (t *Tracker) Stop() {
	t.scheduler.Cancel(t.handle)
	t.handle = 0

	if !t.tracking {
		return
	}
	t.tracking = false

	t.mu.Lock()
	t.stops++
	t.mu.Unlock()

	t.logger.Debugf("tracking stopped")
}

func (t *Tracker) frame() {
	t.handle = 0
	now := t.source.CurrentTime()

	t.publish(now)

	// an observer may have stopped tracking
	if !t.tracking {
		return
	}
	t.handle = t.scheduler.After(t.interval, t.frame)

	if bounds, ok := t.bounds.LoopBounds().Get(); ok && now >= bounds.End {
		t.logger.Debugf("position %.3f crossed loop end %.3f, seeking to %.3f", now, bounds.End, bounds.Start)
		t.source.SeekTo(bounds.Start)
	}
}

func (t *Tracker) publish(seconds float64) {
	t.mu.Lock()
	t.current = seconds
	observers := append([]func(float64){}, t.observers...)
	t.mu.Unlock()

	for _, fn := range observers {
		fn(seconds)
	}
}

// Current returns the last published position.
func (t *Tracker) Current() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.current
}

// Tracking reports whether the tracker is in the tracking state.
func (t *Tracker) Tracking() bool {
	return t.tracking
}

// Active reports whether a frame callback is scheduled.
func (t *Tracker) Active() bool {
	return t.handle != 0
}

// Counts returns how many times tracking was started and stopped.
func (t *Tracker) Counts() (starts, stops int) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.starts, t.stops
}
