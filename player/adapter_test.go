package player_test

import (
	"errors"
	"testing"
	"time"

	"github.com/solotube/solotube/player"
	"github.com/solotube/solotube/player/playertest"
	"github.com/solotube/solotube/sched"
	. "github.com/smartystreets/goconvey/convey"
)

type sink struct {
	loads   []string
	ready   []player.Info
	states  []player.WidgetState
	errs    []error
	onReady func()
}

func (s *sink) OnLoad(source string, onReady func()) {
	s.loads = append(s.loads, source)
	s.onReady = onReady
}

func (s *sink) OnReady(info player.Info) {
	s.ready = append(s.ready, info)
	if s.onReady != nil {
		cb := s.onReady
		s.onReady = nil
		cb()
	}
}

func (s *sink) OnStateChange(state player.WidgetState) {
	s.states = append(s.states, state)
}

func (s *sink) OnError(err error) {
	s.errs = append(s.errs, err)
}

func TestAdapter(t *testing.T) {
	Convey("Given an adapter over an available library", t, func() {
		clock := sched.NewVirtual()
		library := &playertest.Library{}
		events := &sink{}
		adapter := player.NewAdapter(library, clock, events, player.DefaultOptions())

		So(adapter.Status(), ShouldEqual, player.StatusUnloaded)

		Convey("Commands before any load are no-ops", func() {
			adapter.SeekTo(10)
			adapter.SetPlaybackRate(2)
			adapter.Play()
			adapter.Pause()
			adapter.PreviewPosition(50, true)

			So(adapter.IsReady(), ShouldBeFalse)
			So(adapter.Duration(), ShouldEqual, 0)
			So(adapter.CurrentTime(), ShouldEqual, 0)
			So(library.Widgets, ShouldBeEmpty)
		})

		Convey("Destroy with nothing loaded is safe", func() {
			adapter.Destroy()
			adapter.Destroy()
			So(adapter.Status(), ShouldEqual, player.StatusUnloaded)
		})

		Convey("When a source is loaded", func() {
			var fired int
			adapter.Load("abc123", func() { fired++ })
			widget := library.Last()

			Convey("The widget is created immediately and the sink is told", func() {
				So(widget, ShouldNotBeNil)
				So(widget.Source, ShouldEqual, "abc123")
				So(events.loads, ShouldResemble, []string{"abc123"})
				So(adapter.Status(), ShouldEqual, player.StatusLoading)
				So(adapter.Source(), ShouldEqual, "abc123")
			})

			Convey("Commands racing the ready event make no widget calls", func() {
				adapter.SeekTo(10)
				adapter.SetPlaybackRate(2)
				adapter.Play()
				adapter.PreviewPosition(50, false)

				So(widget.Calls, ShouldBeEmpty)
				So(adapter.IsReady(), ShouldBeFalse)
			})

			Convey("A ready event without a duration fails the load", func() {
				widget.Ready(0)
				clock.Flush()

				So(adapter.IsReady(), ShouldBeFalse)
				So(adapter.Status(), ShouldEqual, player.StatusFailed)
				So(events.ready, ShouldBeEmpty)
				So(events.errs, ShouldHaveLength, 1)
				So(errors.Is(events.errs[0], player.ErrNoDuration), ShouldBeTrue)
				So(fired, ShouldEqual, 0)
				So(clock.Pending(), ShouldEqual, 0)
			})

			Convey("A widget that never reports ready fails after the timeout", func() {
				clock.Advance(29 * time.Second)
				So(adapter.Status(), ShouldEqual, player.StatusLoading)
				So(events.errs, ShouldBeEmpty)

				clock.Advance(time.Second)
				So(adapter.Status(), ShouldEqual, player.StatusFailed)
				So(events.errs, ShouldHaveLength, 1)
				So(errors.Is(events.errs[0], player.ErrNoDuration), ShouldBeTrue)

				Convey("And a late ready event is ignored", func() {
					widget.Ready(200)
					clock.Flush()
					So(adapter.IsReady(), ShouldBeFalse)
					So(fired, ShouldEqual, 0)
				})
			})

			Convey("And the widget reports ready", func() {
				widget.ReadyWith(player.Info{Duration: 200, Title: "Giant Steps"})
				So(adapter.IsReady(), ShouldBeFalse)
				clock.Flush()

				Convey("Then the adapter is ready and the callback fired once", func() {
					So(adapter.IsReady(), ShouldBeTrue)
					So(adapter.Status(), ShouldEqual, player.StatusReady)
					So(adapter.Duration(), ShouldEqual, 200)
					So(events.ready, ShouldHaveLength, 1)
					So(events.ready[0].Title, ShouldEqual, "Giant Steps")
					So(fired, ShouldEqual, 1)

					widget.Ready(200)
					clock.Flush()
					So(fired, ShouldEqual, 1)
				})

				Convey("Then commands reach the widget", func() {
					adapter.SeekTo(12.5)
					adapter.SetPlaybackRate(1.5)
					adapter.Play()
					clock.Flush()

					So(widget.Seeks(), ShouldResemble, []float64{12.5})
					rate, ok := widget.Last("rate")
					So(ok, ShouldBeTrue)
					So(rate.Value, ShouldEqual, 1.5)
					So(adapter.Status(), ShouldEqual, player.StatusPlaying)
					So(events.states, ShouldResemble, []player.WidgetState{player.WidgetPlaying})

					adapter.Pause()
					clock.Flush()
					So(adapter.Status(), ShouldEqual, player.StatusPaused)
				})

				Convey("Then duration failures read as zero", func() {
					widget.DurationErr = errors.New("transient")
					So(adapter.Duration(), ShouldEqual, 0)
				})

				Convey("Then position failures read as zero", func() {
					widget.Position = 42
					So(adapter.CurrentTime(), ShouldEqual, 42)
					widget.TimeErr = errors.New("transient")
					So(adapter.CurrentTime(), ShouldEqual, 0)
				})

				Convey("Then previewing an endpoint starts one second early", func() {
					adapter.PreviewPosition(50, true)
					So(widget.Seeks(), ShouldResemble, []float64{99})
					So(widget.Count("play"), ShouldEqual, 1)
				})

				Convey("Then previewing a start point seeks to the exact position", func() {
					adapter.PreviewPosition(25, false)
					So(widget.Seeks(), ShouldResemble, []float64{50})
				})

				Convey("Then an endpoint preview near zero is clamped", func() {
					adapter.PreviewPosition(0.1, true)
					So(widget.Seeks(), ShouldResemble, []float64{0})
				})

				Convey("Then destroying is idempotent", func() {
					adapter.Destroy()
					adapter.Destroy()

					So(widget.Destroyed, ShouldEqual, 1)
					So(adapter.Status(), ShouldEqual, player.StatusDestroyed)
					So(adapter.IsReady(), ShouldBeFalse)

					adapter.SeekTo(1)
					So(widget.Seeks(), ShouldBeEmpty)
				})
			})

			Convey("And another source is loaded", func() {
				stale := widget
				adapter.Load("def456", nil)
				fresh := library.Last()

				Convey("Then the previous widget is released first", func() {
					So(stale.Destroyed, ShouldEqual, 1)
					So(fresh, ShouldNotEqual, stale)
				})

				Convey("Then events from the previous widget are dropped", func() {
					stale.Ready(100)
					stale.Report(player.WidgetPlaying)
					clock.Flush()

					So(adapter.IsReady(), ShouldBeFalse)
					So(events.ready, ShouldBeEmpty)
					So(events.states, ShouldBeEmpty)
				})
			})

			Convey("Widget errors reach the sink", func() {
				widget.Fail(errors.New("unplayable"))
				clock.Flush()
				So(events.errs, ShouldHaveLength, 1)
			})
		})
	})

	Convey("Given a library that loads late", t, func() {
		clock := sched.NewVirtual()
		library := &playertest.Library{AvailableAfter: 3}
		events := &sink{}
		adapter := player.NewAdapter(library, clock, events, player.DefaultOptions())

		Convey("Load polls every interval until it can create the widget", func() {
			adapter.Load("abc123", nil)
			So(library.Widgets, ShouldBeEmpty)

			clock.Advance(200 * time.Millisecond)
			So(library.Widgets, ShouldBeEmpty)

			clock.Advance(100 * time.Millisecond)
			So(library.Widgets, ShouldHaveLength, 1)
			So(library.Checks, ShouldEqual, 4)
			// only the ready deadline is left
			So(clock.Pending(), ShouldEqual, 1)
		})

		Convey("Destroy stops the polling", func() {
			adapter.Load("abc123", nil)
			adapter.Destroy()
			clock.Advance(time.Second)

			So(library.Widgets, ShouldBeEmpty)
			So(clock.Pending(), ShouldEqual, 0)
		})
	})

	Convey("Given a library that never loads", t, func() {
		clock := sched.NewVirtual()
		library := &playertest.Library{Never: true}
		events := &sink{}
		adapter := player.NewAdapter(library, clock, events, player.DefaultOptions())

		Convey("Load gives up after the attempt cap", func() {
			adapter.Load("abc123", nil)
			clock.Advance(10 * time.Second)

			So(library.Checks, ShouldEqual, 51)
			So(adapter.Status(), ShouldEqual, player.StatusFailed)
			So(events.errs, ShouldHaveLength, 1)
			So(errors.Is(events.errs[0], player.ErrLibraryUnavailable), ShouldBeTrue)
			So(clock.Pending(), ShouldEqual, 0)
		})
	})

	Convey("Given a library whose widget fails to create", t, func() {
		clock := sched.NewVirtual()
		library := &playertest.Library{CreateErr: errors.New("boom")}
		events := &sink{}
		adapter := player.NewAdapter(library, clock, events, player.DefaultOptions())

		adapter.Load("abc123", nil)

		So(adapter.Status(), ShouldEqual, player.StatusFailed)
		So(events.errs, ShouldHaveLength, 1)
	})

	Convey("Given a widget without a duration query", t, func() {
		clock := sched.NewVirtual()
		library := &playertest.Library{WithoutDuration: true}
		adapter := player.NewAdapter(library, clock, &sink{}, player.DefaultOptions())

		adapter.Load("abc123", nil)
		library.Last().Ready(200)
		clock.Flush()

		Convey("It is never considered ready", func() {
			So(adapter.IsReady(), ShouldBeFalse)
			adapter.SeekTo(5)
			So(library.Last().Calls, ShouldBeEmpty)
		})
	})
}
