package session

import "time"

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

// Handle is a pending scheduled task.
type Handle interface {
	Stop() bool
}

// Scheduler runs a callback once after a delay.
type Scheduler interface {
	Schedule(d time.Duration, fn func()) Handle
	Cancel(h Handle)
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the wall clock.
func SystemClock() Clock { return systemClock{} }

type timerScheduler struct{}

func (timerScheduler) Schedule(d time.Duration, fn func()) Handle {
	return time.AfterFunc(d, fn)
}

func (timerScheduler) Cancel(h Handle) {
	if h != nil {
		h.Stop()
	}
}

// TimerScheduler returns a Scheduler backed by time.AfterFunc.
func TimerScheduler() Scheduler { return timerScheduler{} }
