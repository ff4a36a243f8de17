package timeutil

import (
	"errors"
	"fmt"
	"time"
)

// Estimated parking durations are whole hours within a single day.
const (
	MinDurationHours = 1
	MaxDurationHours = 24
)

var ErrHoursOutOfRange = errors.New("duration hours out of range")

// EstimatedCheckout returns checkin plus the estimated duration.
func EstimatedCheckout(checkin time.Time, hours int) (time.Time, error) {
	if hours < MinDurationHours || hours > MaxDurationHours {
		return time.Time{}, fmt.Errorf("%w: %d", ErrHoursOutOfRange, hours)
	}
	return checkin.Add(time.Duration(hours) * time.Hour), nil
}

// InfractionStart returns the instant after which an occupant is overstaying.
func InfractionStart(estimatedCheckout time.Time, grace time.Duration) time.Time {
	return estimatedCheckout.Add(grace)
}

// ElapsedMinutes returns whole minutes between from and to, never negative.
func ElapsedMinutes(from, to time.Time) int {
	if !to.After(from) {
		return 0
	}
	return int(to.Sub(from) / time.Minute)
}
