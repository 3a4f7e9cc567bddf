// Package trial implements the demo session countdown.
package trial

import (
	"errors"
	"time"
)

// DefaultBudget is how long a demo session may last.
const DefaultBudget = time.Minute

var ErrTimerInactive = errors.New("trial timer is not running")

// Timer is a two-state machine: inactive, or active since startedAt. It has
// no goroutines of its own; callers pass the time they observed. Timer is
// not safe for concurrent use, its owner serializes access.
type Timer struct {
	budget    time.Duration
	startedAt time.Time
	active    bool
}

// NewTimer creates an inactive timer. A non-positive budget falls back to
// DefaultBudget.
func NewTimer(budget time.Duration) *Timer {
	if budget <= 0 {
		budget = DefaultBudget
	}
	return &Timer{budget: budget}
}

// Start activates the timer at now, restarting it if already active.
func (t *Timer) Start(now time.Time) {
	t.startedAt = now
	t.active = true
}

// Stop returns the timer to inactive.
func (t *Timer) Stop() {
	t.startedAt = time.Time{}
	t.active = false
}

// Active reports whether a countdown is running.
func (t *Timer) Active() bool {
	return t.active
}

// StartedAt returns when the countdown began and whether it is running.
func (t *Timer) StartedAt() (time.Time, bool) {
	return t.startedAt, t.active
}

// Budget returns the configured trial length.
func (t *Timer) Budget() time.Duration {
	return t.budget
}

// Remaining returns whole seconds left, never below zero. Elapsed time is
// truncated to the second, so the value reads the full budget during the
// first second. A budget with a fractional second counts as the next whole
// second, so zero is never shown before Expired turns true.
func (t *Timer) Remaining(now time.Time) (int, error) {
	if !t.active {
		return 0, ErrTimerInactive
	}
	elapsed := int(now.Sub(t.startedAt) / time.Second)
	budget := int((t.budget + time.Second - 1) / time.Second)
	remaining := budget - elapsed
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// Expired reports whether an active countdown has used its budget.
func (t *Timer) Expired(now time.Time) bool {
	return t.active && now.Sub(t.startedAt) >= t.budget
}
