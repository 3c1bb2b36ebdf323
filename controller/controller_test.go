package controller_test

import (
	"errors"
	"testing"
	"time"

	"github.com/solotube/solotube/controller"
	"github.com/solotube/solotube/history"
	"github.com/solotube/solotube/playback"
	"github.com/solotube/solotube/player"
	"github.com/solotube/solotube/player/playertest"
	"github.com/solotube/solotube/sched"
	"github.com/solotube/solotube/sharelink"
	"github.com/solotube/solotube/timing"
	. "github.com/smartystreets/goconvey/convey"
)

type app struct {
	clock      *sched.Virtual
	library    *playertest.Library
	store      *playback.Store
	adapter    *player.Adapter
	tracker    *timing.Tracker
	controller *controller.Controller
	recorded   []history.Entry
}

func newApp(options controller.Options) *app {
	a := &app{
		clock:   sched.NewVirtual(),
		library: &playertest.Library{},
		store:   playback.NewStore(),
	}
	a.adapter = player.NewAdapter(a.library, a.clock, a.store, player.DefaultOptions())
	a.tracker = timing.New(a.clock, a.adapter, a.store, 60)
	a.store.Bind(a.adapter, a.tracker)

	a.controller = controller.New(a.clock, a.adapter, a.store, options)
	a.controller.Record = func(entry history.Entry) error {
		a.recorded = append(a.recorded, entry)
		return nil
	}
	return a
}

func (a *app) widget() *playertest.Widget {
	return a.library.Last()
}

// loadReady loads source and makes its widget report ready with duration.
func (a *app) loadReady(source string, duration float64) {
	So(a.controller.Load(source), ShouldBeNil)
	a.widget().ReadyWith(player.Info{Duration: duration, Title: "Giant Steps"})
	a.clock.Flush()
}

func (a *app) settle() {
	a.clock.Advance(time.Second)
}

func TestController(t *testing.T) {
	Convey("Given a controller with no video", t, func() {
		a := newApp(controller.DefaultOptions())
		c := a.controller

		So(c.State(), ShouldEqual, controller.NoVideo)
		So(c.Speed(), ShouldEqual, 1.0)
		So(c.Scrubber(), ShouldResemble, controller.Scrubber{Start: 0, End: 100})

		Convey("Looping actions are ignored", func() {
			So(c.Handle(controller.SpeedUp), ShouldBeFalse)
			So(c.Handle(controller.Restart), ShouldBeFalse)
			So(c.Speed(), ShouldEqual, 1.0)
		})

		Convey("Committing is not possible", func() {
			So(errors.Is(c.Commit(), controller.ErrWrongState), ShouldBeTrue)
		})

		Convey("Reset is a safe no-op", func() {
			c.Reset()
			c.Reset()
			So(c.State(), ShouldEqual, controller.NoVideo)
			So(a.store.Snapshot(), ShouldResemble, playback.State{})
		})

		Convey("Loading nothing fails", func() {
			So(errors.Is(c.Load(""), controller.ErrNoSource), ShouldBeTrue)
			So(errors.Is(c.Submit("  "), controller.ErrNoSource), ShouldBeTrue)
		})

		Convey("When abc123 is loaded", func() {
			So(c.Load("abc123"), ShouldBeNil)

			So(c.State(), ShouldEqual, controller.NoLoopPoints)
			So(c.Input(), ShouldEqual, "abc123")

			Convey("Scrubbing and committing before ready make no widget calls", func() {
				c.Scrub(25, 50)
				a.settle()

				So(errors.Is(c.Commit(), controller.ErrNoDuration), ShouldBeTrue)
				So(a.widget().Calls, ShouldBeEmpty)
				So(c.State(), ShouldEqual, controller.NoLoopPoints)
			})

			Convey("And the widget reports 200 seconds", func() {
				a.widget().ReadyWith(player.Info{Duration: 200, Title: "Giant Steps"})
				a.clock.Flush()

				Convey("Committing (25, 50) loops 50-100 seconds and records it", func() {
					c.Scrub(25, 50)
					So(c.Commit(), ShouldBeNil)

					So(a.store.LoopBounds().MustGet(), ShouldResemble, playback.Bounds{Start: 50, End: 100})
					So(a.recorded, ShouldHaveLength, 1)
					So(a.recorded[0].SourceID, ShouldEqual, "abc123")
					So(a.recorded[0].Name, ShouldEqual, "Giant Steps")
					So(a.recorded[0].Start, ShouldEqual, 50)
					So(a.recorded[0].End, ShouldEqual, 100)
					So(c.State(), ShouldEqual, controller.Ready)

					seek, _ := a.widget().Last("seek")
					So(seek.Value, ShouldEqual, 50)
					rate, _ := a.widget().Last("rate")
					So(rate.Value, ShouldEqual, 1.0)
					So(a.widget().Count("play"), ShouldBeGreaterThan, 0)

					link, ok := c.Link()
					So(ok, ShouldBeTrue)
					So(link, ShouldEqual, "https://solotube.app/?v=abc123&start=50&end=100")

					Convey("Then playback loops back at the end", func() {
						a.clock.Flush()
						So(a.tracker.Tracking(), ShouldBeTrue)

						before := len(a.widget().Seeks())
						a.widget().Position = 101
						a.clock.Advance(sched.FrameInterval(60))

						So(a.tracker.Current(), ShouldEqual, 101)
						So(a.widget().Seeks()[before:], ShouldResemble, []float64{50})

						a.clock.Advance(sched.FrameInterval(60))
						So(a.tracker.Current(), ShouldEqual, 50)
					})
				})

				Convey("Any committed range within the duration is stored exactly", func() {
					for _, r := range [][2]float64{{0, 100}, {10, 10.5}, {99, 100}, {33.3, 66.6}} {
						c.Reset()
						a.loadReady("abc123", 200)
						c.Scrub(r[0], r[1])
						So(c.Commit(), ShouldBeNil)

						b := a.store.LoopBounds().MustGet()
						So(b.Start, ShouldEqual, r[0]/100*200)
						So(b.End, ShouldEqual, r[1]/100*200)
						last := a.recorded[len(a.recorded)-1]
						So(last.Start, ShouldEqual, b.Start)
						So(last.End, ShouldEqual, b.End)
					}
				})

				Convey("An empty selection cannot be committed", func() {
					c.Scrub(40, 40)
					So(errors.Is(c.Commit(), controller.ErrEmptyLoop), ShouldBeTrue)
					So(a.store.LoopBounds().IsPresent(), ShouldBeFalse)
				})

				Convey("Scrubbing keeps start before end and clamps to 0-100", func() {
					c.Scrub(-10, 150)
					So(c.Scrubber(), ShouldResemble, controller.Scrubber{Start: 0, End: 100})

					c.Scrub(0, 30)
					c.Scrub(0, 20)
					c.Scrub(60, 20)
					So(c.Scrubber(), ShouldResemble, controller.Scrubber{Start: 20, End: 20})

					c.Move(controller.EndHandle, 5)
					So(c.Scrubber(), ShouldResemble, controller.Scrubber{Start: 20, End: 25})
					c.Move(controller.EndHandle, -10)
					So(c.Scrubber(), ShouldResemble, controller.Scrubber{Start: 20, End: 20})
				})

				Convey("Dragging previews the moved handle, throttled with a trailing call", func() {
					c.Scrub(10, 100)
					c.Scrub(20, 100)
					c.Scrub(30, 100)
					So(a.widget().Seeks(), ShouldResemble, []float64{20})

					a.clock.Advance(100 * time.Millisecond)
					So(a.widget().Seeks(), ShouldResemble, []float64{20, 60})

					a.clock.Advance(time.Second)
					c.Scrub(30, 50)
					So(a.widget().Seeks(), ShouldResemble, []float64{20, 60, 99})
				})
			})
		})
	})

	Convey("Given an active loop", t, func() {
		a := newApp(controller.DefaultOptions())
		c := a.controller
		a.loadReady("abc123", 200)
		c.Scrub(25, 50)
		So(c.Commit(), ShouldBeNil)
		a.clock.Flush()

		Convey("Held speed keys are throttled to one step per window", func() {
			for i := 0; i < 10; i++ {
				So(c.Handle(controller.SpeedUp), ShouldBeTrue)
			}
			So(c.Speed(), ShouldEqual, 1.025)

			a.clock.Advance(50 * time.Millisecond)
			c.Handle(controller.SpeedUp)
			So(c.Speed(), ShouldEqual, 1.05)

			rate, _ := a.widget().Last("rate")
			So(rate.Value, ShouldEqual, 1.05)
		})

		Convey("Speed never exceeds 5x", func() {
			for i := 0; i < 500; i++ {
				c.Handle(controller.SpeedUp)
				a.clock.Advance(50 * time.Millisecond)
			}
			So(c.Speed(), ShouldEqual, 5.0)
			So(a.widget().Calls, ShouldNotContain, playertest.Call{Method: "rate", Value: 5.025})
		})

		Convey("Speed never drops below 0.25x", func() {
			for i := 0; i < 500; i++ {
				c.Handle(controller.SpeedDown)
				a.clock.Advance(50 * time.Millisecond)
			}
			So(c.Speed(), ShouldEqual, 0.25)
		})

		Convey("Reset speed goes back to 1x", func() {
			c.Handle(controller.SpeedDown)
			So(c.Speed(), ShouldEqual, 0.975)

			So(c.Handle(controller.ResetSpeed), ShouldBeTrue)
			So(c.Speed(), ShouldEqual, 1.0)
			rate, _ := a.widget().Last("rate")
			So(rate.Value, ShouldEqual, 1.0)
		})

		Convey("Restart seeks to the loop start", func() {
			a.widget().Position = 80
			So(c.Handle(controller.Restart), ShouldBeTrue)
			seek, _ := a.widget().Last("seek")
			So(seek.Value, ShouldEqual, 50)
			So(a.tracker.Tracking(), ShouldBeTrue)
		})

		Convey("Space does nothing unless enabled", func() {
			So(c.Handle(controller.TogglePlay), ShouldBeFalse)
			So(a.widget().Count("pause"), ShouldEqual, 0)
		})

		Convey("A full reset tears everything down", func() {
			widget := a.widget()
			c.Handle(controller.SpeedUp)
			c.Reset()

			So(c.State(), ShouldEqual, controller.NoVideo)
			So(c.Input(), ShouldEqual, "")
			So(c.Speed(), ShouldEqual, 1.0)
			So(c.Scrubber(), ShouldResemble, controller.Scrubber{Start: 0, End: 100})
			So(widget.Destroyed, ShouldEqual, 1)
			So(a.store.Snapshot(), ShouldResemble, playback.State{})
			So(a.tracker.Tracking(), ShouldBeFalse)
			So(a.clock.Pending(), ShouldEqual, 0)

			_, ok := c.Link()
			So(ok, ShouldBeFalse)
		})
	})

	Convey("Given the whole video is looped", t, func() {
		a := newApp(controller.DefaultOptions())
		c := a.controller
		a.loadReady("abc123", 200)
		So(c.Commit(), ShouldBeNil)
		a.clock.Flush()
		So(a.store.LoopBounds().MustGet(), ShouldResemble, playback.Bounds{Start: 0, End: 200})

		Convey("When the file ends just short of the duration", func() {
			before := len(a.widget().Seeks())
			a.widget().Position = 199.96
			a.clock.Advance(sched.FrameInterval(60))
			So(a.widget().Seeks()[before:], ShouldBeEmpty)

			a.widget().Report(player.WidgetEnded)
			a.clock.Flush()

			Convey("Then playback restarts at the loop start", func() {
				So(a.widget().Seeks()[before:], ShouldResemble, []float64{0})
				So(a.store.Snapshot().Playing, ShouldBeTrue)
				So(a.tracker.Tracking(), ShouldBeTrue)
			})
		})

		Convey("When the file ends while paused", func() {
			a.widget().Report(player.WidgetPaused)
			a.clock.Flush()
			before := len(a.widget().Seeks())

			a.widget().Report(player.WidgetEnded)
			a.clock.Flush()

			Convey("Then it still restarts", func() {
				So(a.widget().Seeks()[before:], ShouldResemble, []float64{0})
				So(a.store.Snapshot().Playing, ShouldBeTrue)
			})
		})
	})

	Convey("Given space toggling is enabled", t, func() {
		options := controller.DefaultOptions()
		options.SpaceToggle = true
		a := newApp(options)
		c := a.controller
		a.loadReady("abc123", 200)
		c.Scrub(0, 50)
		So(c.Commit(), ShouldBeNil)
		a.clock.Flush()
		So(a.store.Snapshot().Playing, ShouldBeTrue)

		Convey("Space pauses and resumes", func() {
			So(c.Handle(controller.TogglePlay), ShouldBeTrue)
			a.clock.Flush()
			So(a.store.Snapshot().Playing, ShouldBeFalse)
			So(a.tracker.Tracking(), ShouldBeFalse)

			So(c.Handle(controller.TogglePlay), ShouldBeTrue)
			a.clock.Flush()
			So(a.store.Snapshot().Playing, ShouldBeTrue)
		})
	})

	Convey("Given history saving is disabled", t, func() {
		options := controller.DefaultOptions()
		options.SaveHistory = false
		a := newApp(options)
		a.loadReady("abc123", 200)
		So(a.controller.Commit(), ShouldBeNil)

		So(a.recorded, ShouldBeEmpty)
		So(a.controller.State(), ShouldEqual, controller.Ready)
	})
}

func TestFromURL(t *testing.T) {
	Convey("Given a shared link", t, func() {
		a := newApp(controller.DefaultOptions())
		c := a.controller

		Convey("When it is submitted", func() {
			So(c.Submit("https://solotube.app/?v=abc123&start=50&end=100"), ShouldBeNil)

			So(c.State(), ShouldEqual, controller.FromURL)
			So(c.Pending().MustGet().SourceID, ShouldEqual, "abc123")

			Convey("Confirming before ready is refused", func() {
				So(errors.Is(c.Confirm(), controller.ErrNoDuration), ShouldBeTrue)
				So(c.State(), ShouldEqual, controller.FromURL)
			})

			Convey("Confirming after ready loops the linked segment", func() {
				a.widget().Ready(200)
				a.clock.Flush()

				So(c.Confirm(), ShouldBeNil)
				So(c.State(), ShouldEqual, controller.Ready)
				So(a.store.LoopBounds().MustGet(), ShouldResemble, playback.Bounds{Start: 50, End: 100})
				So(c.Scrubber(), ShouldResemble, controller.Scrubber{Start: 25, End: 50})
				So(a.recorded, ShouldHaveLength, 1)
				So(c.Pending().IsPresent(), ShouldBeFalse)
			})

			Convey("Scrubbing is not possible while confirming", func() {
				c.Scrub(10, 20)
				So(c.Scrubber(), ShouldResemble, controller.Scrubber{Start: 0, End: 100})
			})
		})

		Convey("When its bounds do not fit the video", func() {
			link, err := sharelink.Parse("https://solotube.app/?v=abc123&start=150&end=900")
			So(err, ShouldBeNil)
			So(c.Open(link), ShouldBeNil)
			a.widget().Ready(200)
			a.clock.Flush()

			Convey("Then the whole video is looped", func() {
				So(c.Confirm(), ShouldBeNil)
				So(a.store.LoopBounds().MustGet(), ShouldResemble, playback.Bounds{Start: 0, End: 200})
			})
		})

		Convey("A plain video URL goes to loop selection", func() {
			So(c.Submit("https://youtu.be/dQw4w9WgXcQ"), ShouldBeNil)
			So(c.State(), ShouldEqual, controller.NoLoopPoints)
			So(c.Input(), ShouldEqual, "dQw4w9WgXcQ")
		})

		Convey("A local file goes to loop selection", func() {
			So(c.Submit("/music/take five.mp4"), ShouldBeNil)
			So(c.State(), ShouldEqual, controller.NoLoopPoints)
			So(a.widget().Source, ShouldEqual, "/music/take five.mp4")
		})

		Convey("Confirm outside the from-url state is refused", func() {
			So(errors.Is(c.Confirm(), controller.ErrWrongState), ShouldBeTrue)
		})
	})
}
