package sched

import (
	"context"
	"sync"
	"time"
)

const queueSize = 256

// Loop is a Scheduler backed by real timers. Fired callbacks are queued on C and must be
// executed by the goroutine that owns the playback core.
type Loop struct {
	mu     sync.Mutex
	next   Handle
	timers map[Handle]*time.Timer
	queue  chan func()

	done      chan struct{}
	closeOnce sync.Once
	sending   sync.WaitGroup
}

// NewLoop creates an idle loop.
func NewLoop() *Loop {
	return &Loop{
		timers: make(map[Handle]*time.Timer),
		queue:  make(chan func(), queueSize),
		done:   make(chan struct{}),
	}
}

func (l *Loop) Now() time.Time {
	return time.Now()
}

// After schedules fn. Once the loop is closed nothing is scheduled and the zero Handle is returned.
func (l *Loop) After(d time.Duration, fn func()) Handle {
	l.mu.Lock()
	defer l.mu.Unlock()

	select {
	case <-l.done:
		return 0
	default:
	}

	l.next++
	h := l.next

	l.sending.Add(1)
	l.timers[h] = time.AfterFunc(d, func() {
		defer l.sending.Done()

		select {
		case l.queue <- func() {
			if l.take(h) {
				fn()
			}
		}:
		case <-l.done:
		}
	})

	return h
}

func (l *Loop) Cancel(h Handle) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if t, ok := l.timers[h]; ok {
		if t.Stop() {
			l.sending.Done()
		}
		delete(l.timers, h)
	}
}

// take reports whether h is still live and forgets it. A handle cancelled after its timer
// fired but before the owner drained it is not run.
func (l *Loop) take(h Handle) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.timers[h]; !ok {
		return false
	}
	delete(l.timers, h)
	return true
}

// C delivers fired callbacks to the owner goroutine.
func (l *Loop) C() <-chan func() {
	return l.queue
}

// Done is closed by Close.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Pending reports how many callbacks are scheduled and not yet run.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.timers)
}

// Close stops every timer and releases timer goroutines blocked on a full queue.
// Call it once the owner stops draining C. Safe to call more than once.
func (l *Loop) Close() {
	l.closeOnce.Do(func() {
		l.mu.Lock()
		close(l.done)
		for h, t := range l.timers {
			if t.Stop() {
				l.sending.Done()
			}
			delete(l.timers, h)
		}
		l.mu.Unlock()

		l.sending.Wait()
	})
}

// Run drains the loop on the calling goroutine until ctx is done or the loop is closed.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.done:
			return nil
		case fn := <-l.queue:
			fn()
		}
	}
}
