package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/mo"
	"github.com/solotube/solotube/controller"
	"github.com/solotube/solotube/filesystem"
	"github.com/solotube/solotube/history"
	"github.com/solotube/solotube/key"
	"github.com/solotube/solotube/playback"
	"github.com/solotube/solotube/player"
	"github.com/solotube/solotube/player/playertest"
	"github.com/solotube/solotube/query"
	"github.com/solotube/solotube/sched"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

type harness struct {
	clock   *sched.Virtual
	library *playertest.Library
	bubble  *statefulBubble
}

func newHarness() *harness {
	h := &harness{
		clock:   sched.NewVirtual(),
		library: &playertest.Library{},
	}
	h.bubble = newBubble(newCore(h.library, h.clock), &Options{})
	return h
}

func (h *harness) press(msg tea.KeyMsg) tea.Cmd {
	_, cmd := h.bubble.Update(msg)
	return cmd
}

func (h *harness) runes(s string) tea.Cmd {
	return h.press(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

// tick delivers a scheduler callback the way the program loop does.
func (h *harness) tick() {
	h.clock.Flush()
	h.bubble.Update(scheduledMsg(func() {}))
}

func (h *harness) ready(duration float64) {
	h.clock.Flush()
	h.library.Last().ReadyWith(player.Info{Duration: duration, Title: "Giant Steps", Author: "Coltrane"})
	h.tick()
}

func TestBubbleLoopSelection(t *testing.T) {
	Convey("Given the input view", t, func() {
		h := newHarness()
		b := h.bubble
		So(b.state, ShouldEqual, inputState)

		Convey("When q is typed it goes to the input instead of quitting", func() {
			h.runes("q")
			So(b.inputC.Value(), ShouldEqual, "q")
			So(b.state, ShouldEqual, inputState)
		})

		Convey("When an empty input is submitted", func() {
			cmd := h.press(tea.KeyMsg{Type: tea.KeyEnter})

			Convey("Then it stays and explains", func() {
				So(b.state, ShouldEqual, inputState)
				So(cmd, ShouldNotBeNil)
			})
		})

		Convey("When a video id is submitted", func() {
			b.inputC.SetValue("abc123")
			h.press(tea.KeyMsg{Type: tea.KeyEnter})
			h.clock.Flush()

			Convey("Then loop selection waits for the video", func() {
				So(b.state, ShouldEqual, selectState)
				So(b.core.controller.State(), ShouldEqual, controller.NoLoopPoints)
				So(b.View(), ShouldContainSubstring, "Loading abc123")
			})

			Convey("And enter before the video is ready does not commit", func() {
				cmd := h.press(tea.KeyMsg{Type: tea.KeyEnter})
				So(cmd, ShouldNotBeNil)
				So(b.state, ShouldEqual, selectState)
			})

			Convey("And the video becomes ready", func() {
				h.ready(200)
				So(b.snapshot.Ready, ShouldBeTrue)
				So(b.View(), ShouldContainSubstring, "Giant Steps")

				Convey("Then the handles move by keyboard and the loop commits", func() {
					h.press(tea.KeyMsg{Type: tea.KeyRight})
					So(b.core.controller.Scrubber().Start, ShouldEqual, 1)

					h.press(tea.KeyMsg{Type: tea.KeyTab})
					So(b.activeHandle, ShouldEqual, controller.EndHandle)
					h.press(tea.KeyMsg{Type: tea.KeyShiftLeft})
					So(b.core.controller.Scrubber().End, ShouldEqual, 90)

					h.press(tea.KeyMsg{Type: tea.KeyEnter})
					So(b.state, ShouldEqual, loopState)

					bounds, ok := b.core.store.LoopBounds().Get()
					So(ok, ShouldBeTrue)
					So(bounds.Start, ShouldAlmostEqual, 2)
					So(bounds.End, ShouldAlmostEqual, 180)

					Convey("And looping keys reach the controller", func() {
						h.press(tea.KeyMsg{Type: tea.KeyUp})
						h.clock.Flush()
						So(b.core.controller.Speed(), ShouldAlmostEqual, 1.025)

						h.runes("0")
						So(b.core.controller.Speed(), ShouldEqual, 1)

						So(b.View(), ShouldContainSubstring, "Looping")
					})

					Convey("And esc tears the video down", func() {
						widget := h.library.Last()
						h.press(tea.KeyMsg{Type: tea.KeyEsc})

						So(b.state, ShouldEqual, inputState)
						So(b.core.controller.State(), ShouldEqual, controller.NoVideo)
						So(widget.Destroyed, ShouldEqual, 1)
						So(b.inputC.Value(), ShouldBeEmpty)
					})
				})
			})
		})
	})
}

func TestBubbleOpenOptions(t *testing.T) {
	Convey("Given start and end on the command line", t, func() {
		h := newHarness()
		b := h.bubble

		err := b.open(&Options{Source: "https://youtu.be/abc123", Start: mo.Some(50.0), End: mo.Some(100.0)})
		So(err, ShouldBeNil)
		So(b.state, ShouldEqual, confirmState)

		Convey("When the video is ready and the loop is confirmed", func() {
			h.ready(200)
			So(b.View(), ShouldContainSubstring, "Open Link")
			h.press(tea.KeyMsg{Type: tea.KeyEnter})

			Convey("Then it loops the given span", func() {
				So(b.state, ShouldEqual, loopState)
				bounds, _ := b.core.store.LoopBounds().Get()
				So(bounds, ShouldResemble, playback.Bounds{Start: 50, End: 100})
			})
		})

		Convey("When only a start is given the whole video loops", func() {
			h2 := newHarness()
			So(h2.bubble.open(&Options{Source: "abc123", Start: mo.Some(10.0)}), ShouldBeNil)
			h2.ready(200)
			h2.press(tea.KeyMsg{Type: tea.KeyEnter})

			bounds, _ := h2.bubble.core.store.LoopBounds().Get()
			So(bounds, ShouldResemble, playback.Bounds{Start: 0, End: 200})
		})
	})

	Convey("Given nothing on the command line", t, func() {
		h := newHarness()
		So(h.bubble.open(&Options{}), ShouldBeNil)
		So(h.bubble.state, ShouldEqual, inputState)
	})
}

func TestBubbleHistory(t *testing.T) {
	Convey("Given a practiced loop", t, func() {
		So(history.Clear(), ShouldBeNil)
		So(history.Record(history.Entry{Name: "Giant Steps", SourceID: "abc123", Start: 30, End: 60}), ShouldBeNil)

		h := newHarness()
		b := h.bubble

		Convey("When continuing", func() {
			So(b.open(&Options{Continue: true}), ShouldBeNil)

			Convey("Then the latest loop waits for confirmation", func() {
				So(b.state, ShouldEqual, confirmState)
				link, ok := b.core.controller.Pending().Get()
				So(ok, ShouldBeTrue)
				So(link.Start, ShouldEqual, 30)
				So(link.End, ShouldEqual, 60)
			})
		})

		Convey("When the history is opened from the input", func() {
			h.press(tea.KeyMsg{Type: tea.KeyTab})
			So(b.state, ShouldEqual, historyState)
			So(b.historyC.Items(), ShouldHaveLength, 1)

			Convey("Then esc goes back", func() {
				h.press(tea.KeyMsg{Type: tea.KeyEsc})
				So(b.state, ShouldEqual, inputState)
			})

			Convey("Then enter opens the entry", func() {
				h.press(tea.KeyMsg{Type: tea.KeyEnter})
				So(b.state, ShouldEqual, confirmState)
				So(b.core.controller.Input(), ShouldEqual, "abc123")
			})

			Convey("Then d removes the entry", func() {
				h.runes("d")
				So(b.historyC.Items(), ShouldBeEmpty)

				entries, err := history.List()
				So(err, ShouldBeNil)
				So(entries, ShouldBeEmpty)
			})
		})
	})

	Convey("Given no history", t, func() {
		So(history.Clear(), ShouldBeNil)
		h := newHarness()
		So(errors.Is(h.bubble.open(&Options{Continue: true}), errNoHistory), ShouldBeTrue)
	})
}

func TestBubbleFailures(t *testing.T) {
	Convey("Given a library that cannot create widgets", t, func() {
		h := newHarness()
		h.library.CreateErr = errors.New("no video output")
		b := h.bubble

		b.inputC.SetValue("abc123")
		h.press(tea.KeyMsg{Type: tea.KeyEnter})
		h.tick()

		Convey("Then the error view is raised", func() {
			So(b.state, ShouldEqual, errorState)
			So(b.View(), ShouldContainSubstring, "no video output")
		})

		Convey("Then esc recovers to the input", func() {
			h.press(tea.KeyMsg{Type: tea.KeyEsc})
			So(b.state, ShouldEqual, inputState)
			So(b.snapshot.Err, ShouldBeNil)
		})
	})

	Convey("Given the player process exits", t, func() {
		h := newHarness()
		_, cmd := h.bubble.Update(playerExitedMsg{})

		So(cmd, ShouldNotBeNil)
		So(cmd(), ShouldHaveSameTypeAs, tea.QuitMsg{})
		So(errors.Is(h.bubble.exitErr, errPlayerExited), ShouldBeTrue)
	})
}

func TestScrubberBar(t *testing.T) {
	Convey("Given a scrubber over the whole track", t, func() {
		h := newHarness()
		bar := h.bubble.scrubberBar(controller.Scrubber{Start: 0, End: 100})

		Convey("Then both handles are drawn", func() {
			So(strings.Count(bar, "┃"), ShouldEqual, 2)
		})
	})

	Convey("Cells stay on the track", t, func() {
		So(cell(-1, 20), ShouldEqual, 0)
		So(cell(0.5, 21), ShouldEqual, 10)
		So(cell(2, 20), ShouldEqual, 19)
	})
}

func TestBubbleSuggestions(t *testing.T) {
	Convey("Given suggestions are enabled", t, func() {
		viper.Set(key.TUIShowSuggestions, true)
		defer viper.Set(key.TUIShowSuggestions, false)
		So(query.Forget(), ShouldBeNil)

		h := newHarness()
		b := h.bubble

		Convey("When a source is submitted", func() {
			b.inputC.SetValue("abc123")
			h.press(tea.KeyMsg{Type: tea.KeyEnter})

			Convey("Then it is offered again", func() {
				So(query.Recent(), ShouldResemble, []string{"abc123"})
				So(b.inputC.AvailableSuggestions(), ShouldContain, "abc123")
			})
		})
	})
}
