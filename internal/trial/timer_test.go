package trial_test

import (
	"testing"
	"time"

	"github.com/dom/plantally/internal/trial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var t0 = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func TestTimer_Countdown(t *testing.T) {
	timer := trial.NewTimer(time.Minute)
	timer.Start(t0)

	tests := []struct {
		name      string
		at        time.Time
		remaining int
		expired   bool
	}{
		{name: "at start", at: t0, remaining: 60},
		{name: "half a second in", at: t0.Add(500 * time.Millisecond), remaining: 60},
		{name: "one second in", at: t0.Add(time.Second), remaining: 59},
		{name: "just before budget", at: t0.Add(59*time.Second + 999*time.Millisecond), remaining: 1},
		{name: "at budget", at: t0.Add(60 * time.Second), remaining: 0, expired: true},
		{name: "past budget", at: t0.Add(61 * time.Second), remaining: 0, expired: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := timer.Remaining(tt.at)
			require.NoError(t, err)
			assert.Equal(t, tt.remaining, got)
			assert.Equal(t, tt.expired, timer.Expired(tt.at))
		})
	}
}

func TestTimer_Inactive(t *testing.T) {
	timer := trial.NewTimer(time.Minute)

	_, err := timer.Remaining(t0)
	assert.ErrorIs(t, err, trial.ErrTimerInactive)
	assert.False(t, timer.Expired(t0.Add(time.Hour)))
	assert.False(t, timer.Active())

	timer.Start(t0)
	timer.Stop()
	_, err = timer.Remaining(t0)
	assert.ErrorIs(t, err, trial.ErrTimerInactive)
	_, active := timer.StartedAt()
	assert.False(t, active)
}

func TestTimer_RestartResetsClock(t *testing.T) {
	timer := trial.NewTimer(time.Minute)
	timer.Start(t0)
	timer.Start(t0.Add(50 * time.Second))

	started, active := timer.StartedAt()
	require.True(t, active)
	assert.Equal(t, t0.Add(50*time.Second), started)

	got, err := timer.Remaining(t0.Add(70 * time.Second))
	require.NoError(t, err)
	assert.Equal(t, 40, got)
}

func TestTimer_DefaultBudget(t *testing.T) {
	assert.Equal(t, trial.DefaultBudget, trial.NewTimer(0).Budget())
	assert.Equal(t, 5*time.Second, trial.NewTimer(5*time.Second).Budget())
}

func TestTimer_RemainingNeverIncreases(t *testing.T) {
	rapid.Check(t, func(r *rapid.T) {
		budget := time.Duration(rapid.IntRange(1, 600).Draw(r, "budgetSeconds")) * time.Second
		a := time.Duration(rapid.Int64Range(0, int64(20*time.Minute)).Draw(r, "a"))
		b := time.Duration(rapid.Int64Range(0, int64(20*time.Minute)).Draw(r, "b"))
		if a > b {
			a, b = b, a
		}

		timer := trial.NewTimer(budget)
		timer.Start(t0)
		ra, _ := timer.Remaining(t0.Add(a))
		rb, _ := timer.Remaining(t0.Add(b))

		if rb > ra {
			r.Fatalf("remaining went up: %d at %s, %d at %s", ra, a, rb, b)
		}
		if rb < 0 {
			r.Fatalf("remaining negative: %d", rb)
		}
		if timer.Expired(t0.Add(b)) != (b >= budget) {
			r.Fatalf("expired(%s) disagrees with budget %s", b, budget)
		}
	})
}

func TestTimer_FractionalBudget(t *testing.T) {
	timer := trial.NewTimer(1500 * time.Millisecond)
	timer.Start(t0)

	tests := []struct {
		name      string
		at        time.Duration
		remaining int
		expired   bool
	}{
		{name: "at start", at: 0, remaining: 2},
		{name: "one second in", at: time.Second, remaining: 1},
		{name: "just before budget", at: 1499 * time.Millisecond, remaining: 1},
		{name: "at budget", at: 1500 * time.Millisecond, remaining: 1, expired: true},
		{name: "two seconds in", at: 2 * time.Second, remaining: 0, expired: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := timer.Remaining(t0.Add(tt.at))
			require.NoError(t, err)
			assert.Equal(t, tt.remaining, got)
			assert.Equal(t, tt.expired, timer.Expired(t0.Add(tt.at)))
		})
	}
}

func TestTimer_ZeroRemainingMeansExpired(t *testing.T) {
	rapid.Check(t, func(r *rapid.T) {
		budget := time.Duration(rapid.Int64Range(1, int64(10*time.Minute)).Draw(r, "budget"))
		elapsed := time.Duration(rapid.Int64Range(0, int64(20*time.Minute)).Draw(r, "elapsed"))

		timer := trial.NewTimer(budget)
		timer.Start(t0)
		got, err := timer.Remaining(t0.Add(elapsed))
		if err != nil {
			r.Fatalf("remaining: %v", err)
		}
		if got == 0 && !timer.Expired(t0.Add(elapsed)) {
			r.Fatalf("shows 0 at %s but budget %s has not run out", elapsed, budget)
		}
	})
}
