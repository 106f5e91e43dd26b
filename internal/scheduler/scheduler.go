// Package scheduler provides delayed callbacks behind an interface so that
// timed sequences can be driven by a virtual clock in tests.
package scheduler

import "time"

// Cancel stops a pending callback. It reports whether the call stopped the
// callback before it ran.
type Cancel func() bool

// Scheduler runs fn once after d has elapsed.
type Scheduler interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Cancel
}

// Real schedules callbacks on the wall clock.
type Real struct{}

// Now returns the wall clock time.
func (Real) Now() time.Time { return time.Now() }

// AfterFunc wraps time.AfterFunc.
func (Real) AfterFunc(d time.Duration, fn func()) Cancel {
	t := time.AfterFunc(d, fn)
	return t.Stop
}
