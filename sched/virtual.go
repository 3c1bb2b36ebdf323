package sched

import "time"

type virtualTask struct {
	handle Handle
	due    time.Time
	fn     func()
}

// Virtual is a manually advanced Scheduler. Callbacks only run inside Advance or Flush,
// on the caller's goroutine, ordered by due time and then by scheduling order.
type Virtual struct {
	now   time.Time
	next  Handle
	tasks []virtualTask
}

// NewVirtual creates a virtual clock starting at an arbitrary fixed instant.
func NewVirtual() *Virtual {
	return &Virtual{now: time.Unix(1_700_000_000, 0)}
}

func (v *Virtual) Now() time.Time {
	return v.now
}

func (v *Virtual) After(d time.Duration, fn func()) Handle {
	if d < 0 {
		d = 0
	}
	v.next++
	v.tasks = append(v.tasks, virtualTask{handle: v.next, due: v.now.Add(d), fn: fn})
	return v.next
}

func (v *Virtual) Cancel(h Handle) {
	for i, t := range v.tasks {
		if t.handle == h {
			v.tasks = append(v.tasks[:i], v.tasks[i+1:]...)
			return
		}
	}
}

// Pending reports how many callbacks are scheduled and not yet run.
func (v *Virtual) Pending() int {
	return len(v.tasks)
}

// Flush runs everything already due without moving the clock.
func (v *Virtual) Flush() {
	v.Advance(0)
}

// Advance moves the clock forward by d, running every callback that falls due on the way,
// including ones scheduled by callbacks during the advance.
func (v *Virtual) Advance(d time.Duration) {
	target := v.now.Add(d)

	for {
		idx := v.earliest()
		if idx < 0 || v.tasks[idx].due.After(target) {
			break
		}

		task := v.tasks[idx]
		v.tasks = append(v.tasks[:idx], v.tasks[idx+1:]...)
		if task.due.After(v.now) {
			v.now = task.due
		}
		task.fn()
	}

	v.now = target
}

func (v *Virtual) earliest() int {
	idx := -1
	for i, t := range v.tasks {
		if idx < 0 {
			idx = i
			continue
		}
		best := v.tasks[idx]
		if t.due.Before(best.due) || (t.due.Equal(best.due) && t.handle < best.handle) {
			idx = i
		}
	}
	return idx
}
