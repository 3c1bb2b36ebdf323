package sched

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestVirtual(t *testing.T) {
	Convey("Given a virtual scheduler", t, func() {
		v := NewVirtual()
		var ran []string

		Convey("Callbacks run in due order when the clock advances", func() {
			v.After(20*time.Millisecond, func() { ran = append(ran, "b") })
			v.After(10*time.Millisecond, func() { ran = append(ran, "a") })

			v.Advance(5 * time.Millisecond)
			So(ran, ShouldBeEmpty)

			v.Advance(20 * time.Millisecond)
			So(ran, ShouldResemble, []string{"a", "b"})
			So(v.Pending(), ShouldEqual, 0)
		})

		Convey("Cancelled callbacks never run", func() {
			h := v.After(time.Millisecond, func() { ran = append(ran, "x") })
			v.Cancel(h)
			v.Cancel(h)
			v.Cancel(0)
			v.Advance(time.Second)
			So(ran, ShouldBeEmpty)
		})

		Convey("Callbacks scheduled while advancing run when they fall due", func() {
			var tick func()
			tick = func() {
				ran = append(ran, "tick")
				v.After(10*time.Millisecond, tick)
			}
			v.After(0, tick)

			v.Advance(35 * time.Millisecond)
			So(ran, ShouldHaveLength, 4)
			So(v.Pending(), ShouldEqual, 1)
		})

		Convey("Now reflects the advanced time inside callbacks", func() {
			start := v.Now()
			var seen time.Duration
			v.After(15*time.Millisecond, func() { seen = v.Now().Sub(start) })
			v.Advance(time.Second)
			So(seen, ShouldEqual, 15*time.Millisecond)
			So(v.Now().Sub(start), ShouldEqual, time.Second)
		})
	})
}

func TestLoop(t *testing.T) {
	Convey("Given a real loop", t, func() {
		l := NewLoop()

		Convey("Fired callbacks are delivered through C", func() {
			done := make(chan struct{})
			l.After(time.Millisecond, func() { close(done) })

			fn := <-l.C()
			fn()

			select {
			case <-done:
			case <-time.After(time.Second):
				t.Fatal("callback did not run")
			}
			So(l.Pending(), ShouldEqual, 0)
		})

		Convey("A cancelled callback is dropped even if already queued", func() {
			ran := false
			h := l.After(time.Millisecond, func() { ran = true })

			fn := <-l.C()
			l.Cancel(h)
			fn()

			So(ran, ShouldBeFalse)
		})

		Convey("Run stops with the context", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
			defer cancel()

			count := 0
			l.After(time.Millisecond, func() { count++ })
			err := l.Run(ctx)

			So(err, ShouldResemble, context.DeadlineExceeded)
			So(count, ShouldEqual, 1)
		})
	})

	Convey("Given a loop nobody drains", t, func() {
		l := NewLoop()
		for i := 0; i < queueSize+8; i++ {
			l.After(0, func() {})
		}

		deadline := time.Now().Add(time.Second)
		for len(l.C()) < queueSize && time.Now().Before(deadline) {
			time.Sleep(time.Millisecond)
		}
		So(len(l.C()), ShouldEqual, queueSize)

		Convey("Close releases the timers stuck on the full queue", func() {
			closed := make(chan struct{})
			go func() {
				l.Close()
				close(closed)
			}()

			select {
			case <-closed:
			case <-time.After(time.Second):
				t.Fatal("close did not return")
			}

			So(l.Pending(), ShouldEqual, 0)
			So(l.After(time.Millisecond, func() {}), ShouldEqual, Handle(0))

			l.Close()
			So(l.Run(context.Background()), ShouldBeNil)
		})

		Convey("Close stops timers that have not fired", func() {
			ran := false
			l.After(time.Hour, func() { ran = true })
			l.Close()

			So(l.Pending(), ShouldEqual, 0)
			So(ran, ShouldBeFalse)
		})
	})

	Convey("FrameInterval", t, func() {
		So(FrameInterval(60), ShouldEqual, time.Second/60)
		So(FrameInterval(0), ShouldEqual, time.Second/60)
	})
}
