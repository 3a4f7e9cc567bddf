// Package schedule holds the pure watering-schedule arithmetic. Nothing here
// mutates a plant; callers pass the timestamps they care about.
package schedule

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

const day = 24 * time.Hour

// DateLayout is the date-only form accepted by ParseTimestamp.
const DateLayout = "2006-01-02"

var ErrInvalidTimestamp = errors.New("invalid timestamp")

// IsOverdue reports whether now is strictly past the next watering time.
// Being exactly at nextWatering is not overdue yet.
func IsOverdue(nextWatering, now time.Time) bool {
	return now.After(nextWatering)
}

// DaysUntilNext returns ceil((nextWatering - now) / 1 day). Zero and
// negative values both mean the plant is due.
func DaysUntilNext(nextWatering, now time.Time) int {
	return ceilDays(nextWatering.Sub(now))
}

// Due reports whether the plant should be watered today.
func Due(nextWatering, now time.Time) bool {
	return DaysUntilNext(nextWatering, now) <= 0
}

// ComputeNextWatering adds frequencyDays calendar days to wateredAt in
// wateredAt's location, so "every 7 days" keeps the wall-clock time across
// daylight-saving changes.
func ComputeNextWatering(wateredAt time.Time, frequencyDays int) time.Time {
	return wateredAt.AddDate(0, 0, frequencyDays)
}

// DaysLived returns how many days a plant lived, rounded up and never
// negative.
func DaysLived(datePlanted, dateDied time.Time) int {
	days := ceilDays(dateDied.Sub(datePlanted))
	if days < 0 {
		return 0
	}
	return days
}

// ParseTimestamp accepts RFC 3339 timestamps and plain YYYY-MM-DD dates.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrInvalidTimestamp)
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
}

func ceilDays(d time.Duration) int {
	return int(math.Ceil(float64(d) / float64(day)))
}
