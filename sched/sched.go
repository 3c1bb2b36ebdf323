// Package sched provides the cooperative scheduling primitive the playback core runs on.
//
// Every callback scheduled through a Scheduler runs on a single owner goroutine, so the
// core never needs to lock around its own state. Loop is the production implementation;
// Virtual is a deterministic clock for tests.
package sched

import "time"

// Handle identifies a scheduled callback. The zero Handle is never issued.
type Handle uint64

// Scheduler runs callbacks after a delay on its owner goroutine.
type Scheduler interface {
	// Now reports the scheduler's current time.
	Now() time.Time

	// After schedules fn to run once after d. A zero d queues fn behind already due work.
	After(d time.Duration, fn func()) Handle

	// Cancel prevents a pending callback from running. Cancelling an unknown,
	// already fired or zero handle is a no-op.
	Cancel(h Handle)
}

// FrameInterval returns the period of one display frame at the given rate.
func FrameInterval(fps int) time.Duration {
	if fps <= 0 {
		fps = 60
	}
	return time.Second / time.Duration(fps)
}
