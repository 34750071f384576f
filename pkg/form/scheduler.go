package form

import "time"

// Timer is a pending callback.
type Timer interface {
	// Stop cancels the callback. It reports false if it already ran or was stopped.
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// SchedulerFunc adapts a function to Scheduler.
type SchedulerFunc func(d time.Duration, f func()) Timer

func (fn SchedulerFunc) AfterFunc(d time.Duration, f func()) Timer {
	return fn(d, f)
}

// RealScheduler schedules with time.AfterFunc. Callbacks run on their own goroutine.
func RealScheduler() Scheduler {
	return SchedulerFunc(func(d time.Duration, f func()) Timer {
		return time.AfterFunc(d, f)
	})
}
