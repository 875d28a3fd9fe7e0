// Package scheduler re-invokes the dock controller on a fixed interval while
// automatic mode is on.
//
// It implements the controller's RequestPeriodic/CancelPeriodic contract.
// Both calls return immediately, so the controller may call them from inside
// a tick without deadlocking. Ticks run one at a time on the scheduler's
// goroutine; a tick that overruns the interval delays the next one rather
// than overlapping it.
package scheduler
