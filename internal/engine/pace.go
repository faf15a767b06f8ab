// Package engine computes maintenance due dates, statuses, urgency ordering
// and service bundles. Every function is pure: it reads an immutable snapshot
// of its inputs and returns a result, with nil standing in for "not enough
// data" rather than an error.
package engine

import (
	"time"

	"github.com/drivewell/maintenance-tracker/internal/models"
)

// EstimatePace derives a vehicle's average miles driven per day from its
// odometer snapshot history, in any order. Returns nil when fewer than two
// snapshots exist or the history spans no elapsed time. The result is clamped
// to >= 0 so odometer corrections never produce a negative pace.
func EstimatePace(snapshots []models.MileageSnapshot) *float64 {
	if len(snapshots) < 2 {
		return nil
	}

	earliest := snapshots[0]
	latest := snapshots[0]
	for _, s := range snapshots[1:] {
		if s.RecordedAt.Before(earliest.RecordedAt) {
			earliest = s
		}
		if s.RecordedAt.After(latest.RecordedAt) {
			latest = s
		}
	}

	days := latest.RecordedAt.Sub(earliest.RecordedAt).Hours() / 24
	if days <= 0 {
		return nil
	}

	pace := float64(latest.Mileage-earliest.Mileage) / days
	if pace < 0 {
		pace = 0
	}
	return &pace
}

// DaysBetween returns whole calendar days from one instant to another,
// comparing start-of-day to start-of-day so a due date later today counts as
// zero days away, not minus one. Callers presenting days remaining should use
// this too, so displayed counts agree with the classification.
func DaysBetween(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, to.Location())
	return int(t.Sub(f).Hours() / 24)
}
