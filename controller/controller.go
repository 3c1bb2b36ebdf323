// Package controller turns user gestures into commands against the player adapter and the
// playback store, and drives the application from "no video" to an active loop.
//
// Everything here runs on the scheduler's owner goroutine.
package controller

import (
	"errors"
	"strings"

	"github.com/samber/mo"
	"github.com/solotube/solotube/constant"
	"github.com/solotube/solotube/history"
	"github.com/solotube/solotube/log"
	"github.com/solotube/solotube/playback"
	"github.com/solotube/solotube/sched"
	"github.com/solotube/solotube/sharelink"
	"github.com/solotube/solotube/throttle"
	"github.com/solotube/solotube/util"
)

var (
	ErrNoDuration = errors.New("video duration is not known yet")
	ErrEmptyLoop  = errors.New("loop end must be after its start")
	ErrNoSource   = errors.New("no source given")
	ErrWrongState = errors.New("not available in the current state")
)

// Player is the command surface of the player adapter.
type Player interface {
	Load(source string, onReady func())
	SeekTo(seconds float64)
	SetPlaybackRate(rate float64)
	Play()
	Pause()
	PreviewPosition(percent float64, isEndpoint bool)
}

type preview struct {
	percent  float64
	endpoint bool
}

// Controller holds the transient interaction state: input, scrubber, speed and a pending link.
type Controller struct {
	player  Player
	store   *playback.Store
	options Options
	logger  *log.Logger

	state    AppState
	input    string
	scrubber Scrubber
	speed    float64
	pending  mo.Option[sharelink.Link]

	speedThrottle   *throttle.Throttle[float64]
	previewThrottle *throttle.Throttle[preview]

	// Record persists committed loops.
	Record func(entry history.Entry) error
}

// New creates a controller in the NoVideo state.
func New(scheduler sched.Scheduler, p Player, store *playback.Store, options Options) *Controller {
	c := &Controller{
		player:   p,
		store:    store,
		options:  options,
		logger:   log.For("controller"),
		scrubber: fullScrubber(),
		speed:    constant.DefaultSpeed,
		Record:   history.Record,
	}

	c.speedThrottle = throttle.New(scheduler, options.SpeedThrottle, throttle.Options{Leading: true}, c.changeSpeed)
	c.previewThrottle = throttle.New(scheduler, options.PreviewThrottle, throttle.Options{Leading: true, Trailing: true}, func(p preview) {
		c.player.PreviewPosition(p.percent, p.endpoint)
	})

	return c
}

func fullScrubber() Scrubber {
	return Scrubber{Start: constant.ScrubberMin, End: constant.ScrubberMax}
}

func (c *Controller) State() AppState {
	return c.state
}

func (c *Controller) Speed() float64 {
	return c.speed
}

func (c *Controller) Scrubber() Scrubber {
	return c.scrubber
}

// Input is the source the user entered.
func (c *Controller) Input() string {
	return c.input
}

// Pending returns the link waiting for confirmation in the FromURL state.
func (c *Controller) Pending() mo.Option[sharelink.Link] {
	return c.pending
}

// Submit interprets user input: a link with loop bounds opens for confirmation, anything
// else naming a video is loaded for loop selection.
func (c *Controller) Submit(input string) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return ErrNoSource
	}

	link, err := sharelink.Parse(input)
	if err != nil {
		// local files and other URLs are left to the player to resolve
		return c.Load(input)
	}

	if link.HasBounds {
		return c.Open(link)
	}
	return c.Load(link.SourceID)
}

// Load starts loading source for loop selection.
func (c *Controller) Load(source string) error {
	if source == "" {
		return ErrNoSource
	}

	c.cancelThrottles()
	c.input = source
	c.scrubber = fullScrubber()
	c.pending = mo.None[sharelink.Link]()
	c.state = NoLoopPoints

	c.logger.Infof("loading %s", source)
	c.player.Load(source, nil)
	return nil
}

// Open loads a fully specified link and waits for Confirm.
func (c *Controller) Open(link sharelink.Link) error {
	if link.SourceID == "" {
		return ErrNoSource
	}

	c.cancelThrottles()
	c.input = link.SourceID
	c.scrubber = fullScrubber()
	c.pending = mo.Some(link)
	c.state = FromURL

	c.logger.Infof("opening link for %s", link.SourceID)
	c.player.Load(link.SourceID, nil)
	return nil
}

// Confirm commits the pending link's loop, falling back to the whole video when its bounds
// do not fit.
func (c *Controller) Confirm() error {
	link, ok := c.pending.Get()
	if c.state != FromURL || !ok {
		return ErrWrongState
	}

	duration := c.store.Duration()
	if !c.store.Ready() || duration <= 0 {
		return ErrNoDuration
	}

	bounds, valid := link.Bounds(duration)
	if !valid {
		c.logger.Warnf("link bounds %.3f-%.3f do not fit %.3fs, looping the whole video", link.Start, link.End, duration)
	}

	c.scrubber = Scrubber{
		Start: bounds.Start / duration * 100,
		End:   bounds.End / duration * 100,
	}
	c.pending = mo.None[sharelink.Link]()
	c.commit(bounds)
	return nil
}

// Scrub moves the selection. The handle that moved is previewed, throttled.
func (c *Controller) Scrub(start, end float64) {
	if c.state != NoLoopPoints {
		return
	}

	start = util.Clamp(start, constant.ScrubberMin, constant.ScrubberMax)
	end = util.Clamp(end, constant.ScrubberMin, constant.ScrubberMax)

	previous := c.scrubber
	movedEnd := end != previous.End && start == previous.Start

	if start > end {
		if movedEnd {
			end = start
		} else {
			start = end
		}
	}

	if start == previous.Start && end == previous.End {
		return
	}

	c.scrubber = Scrubber{Start: start, End: end}

	if movedEnd {
		c.previewThrottle.Call(preview{percent: end, endpoint: true})
	} else {
		c.previewThrottle.Call(preview{percent: start, endpoint: false})
	}
}

// Move shifts one handle by delta percent.
func (c *Controller) Move(handle Handle, delta float64) {
	s := c.scrubber
	switch handle {
	case StartHandle:
		c.Scrub(s.Start+delta, s.End)
	case EndHandle:
		c.Scrub(s.Start, s.End+delta)
	}
}

// Commit converts the scrubber to seconds and starts looping.
func (c *Controller) Commit() error {
	if c.state != NoLoopPoints {
		return ErrWrongState
	}

	duration := c.store.Duration()
	if !c.store.Ready() || duration <= 0 {
		return ErrNoDuration
	}

	bounds := playback.Bounds{
		Start: c.scrubber.Start / 100 * duration,
		End:   c.scrubber.End / 100 * duration,
	}
	if bounds.End <= bounds.Start {
		return ErrEmptyLoop
	}

	c.commit(bounds)
	return nil
}

func (c *Controller) commit(bounds playback.Bounds) {
	c.previewThrottle.Cancel()
	c.store.SetLoopPoints(bounds.Start, bounds.End)
	c.record(bounds)
	c.state = Ready

	c.logger.Infof("looping %s at %.3fx", bounds, c.speed)
	c.player.SeekTo(bounds.Start)
	c.player.SetPlaybackRate(c.speed)
	c.player.Play()
}

func (c *Controller) record(bounds playback.Bounds) {
	if !c.options.SaveHistory || c.Record == nil {
		return
	}

	state := c.store.Snapshot()
	entry := history.Entry{
		Name:     state.Name(),
		SourceID: state.SourceID.OrEmpty(),
		Start:    bounds.Start,
		End:      bounds.End,
	}

	if err := c.Record(entry); err != nil {
		c.logger.Warnf("record history: %v", err)
	}
}

// Handle runs a looping action. Actions are ignored outside the Ready state; the result
// reports whether the action was accepted.
func (c *Controller) Handle(action Action) bool {
	if c.state != Ready {
		return false
	}

	switch action {
	case SpeedUp:
		c.speedThrottle.Call(c.options.SpeedStep)
	case SpeedDown:
		c.speedThrottle.Call(-c.options.SpeedStep)
	case Restart:
		bounds, ok := c.store.LoopBounds().Get()
		if !ok {
			return false
		}
		c.player.SeekTo(bounds.Start)
	case ResetSpeed:
		c.speed = constant.DefaultSpeed
		c.player.SetPlaybackRate(c.speed)
	case TogglePlay:
		if !c.options.SpaceToggle {
			return false
		}
		if c.store.Snapshot().Playing {
			c.player.Pause()
		} else {
			c.player.Play()
		}
	default:
		return false
	}

	return true
}

func (c *Controller) changeSpeed(delta float64) {
	// snap to the step grid so repeated steps do not accumulate float error
	next := util.Round(c.speed+delta, 3)
	next = util.Clamp(next, constant.MinSpeed, constant.MaxSpeed)
	if next == c.speed {
		return
	}

	c.speed = next
	c.player.SetPlaybackRate(c.speed)
}

// Reset stops playback, destroys the widget and clears all transient state.
func (c *Controller) Reset() {
	c.cancelThrottles()
	c.store.Reset()

	c.input = ""
	c.scrubber = fullScrubber()
	c.speed = constant.DefaultSpeed
	c.pending = mo.None[sharelink.Link]()
	c.state = NoVideo
}

func (c *Controller) cancelThrottles() {
	c.speedThrottle.Cancel()
	c.previewThrottle.Cancel()
}

// Link renders the share link of the committed loop.
func (c *Controller) Link() (string, bool) {
	state := c.store.Snapshot()

	source, ok := state.SourceID.Get()
	if !ok {
		return "", false
	}
	bounds, ok := state.LoopBounds.Get()
	if !ok {
		return "", false
	}

	return sharelink.New(source, bounds).String(c.options.LinkBase), true
}
