// Package throttle rate-limits handlers driven by user input.
//
// A Throttle invokes its function at most once per window. With Leading set the first call
// of a window runs immediately; with Trailing set the most recent call made during the window
// runs when the window closes. Time comes from a sched.Scheduler, so the behaviour is
// deterministic under sched.Virtual.
package throttle

import (
	"time"

	"github.com/samber/mo"
	"github.com/solotube/solotube/sched"
)

// Options selects which edges of the window invoke the function.
type Options struct {
	Leading  bool
	Trailing bool
}

// Throttle wraps fn so that it runs at most once per window.
type Throttle[T any] struct {
	scheduler sched.Scheduler
	window    time.Duration
	options   Options
	fn        func(T)

	timer   sched.Handle
	pending mo.Option[T]
}

// New creates a throttle. If neither edge is enabled, Leading is assumed.
func New[T any](s sched.Scheduler, window time.Duration, options Options, fn func(T)) *Throttle[T] {
	if !options.Leading && !options.Trailing {
		options.Leading = true
	}
	return &Throttle[T]{
		scheduler: s,
		window:    window,
		options:   options,
		fn:        fn,
	}
}

// Call requests an invocation with v.
func (t *Throttle[T]) Call(v T) {
	if t.window <= 0 {
		t.fn(v)
		return
	}

	if t.timer != 0 {
		if t.options.Trailing {
			t.pending = mo.Some(v)
		}
		return
	}

	if t.options.Leading {
		t.fn(v)
	} else {
		t.pending = mo.Some(v)
	}
	t.open()
}

// Cancel closes the current window and drops any pending trailing call.
func (t *Throttle[T]) Cancel() {
	t.scheduler.Cancel(t.timer)
	t.timer = 0
	t.pending = mo.None[T]()
}

// Active reports whether a window is currently open.
func (t *Throttle[T]) Active() bool {
	return t.timer != 0
}

func (t *Throttle[T]) open() {
	t.timer = t.scheduler.After(t.window, t.expire)
}

func (t *Throttle[T]) expire() {
	t.timer = 0

	v, ok := t.pending.Get()
	if !ok {
		return
	}
	t.pending = mo.None[T]()
	t.fn(v)
	t.open()
}
