package engine

import (
	"time"

	"github.com/drivewell/maintenance-tracker/internal/models"
)

// EffectiveDueDate resolves a service's triggers into the single calendar date
// at which it becomes due.
//
// A date-only trigger is returned unchanged. A mileage-only trigger is
// converted through the pace estimate; without a usable pace there is no way
// to place it on the calendar and the result is nil. When both triggers are
// set the earlier of the two dates governs, since either one independently
// makes the service due. A service with no triggers has no due date.
//
// The function is total: negative miles remaining simply project into the
// past, and a zero pace is treated the same as no pace.
func EffectiveDueDate(svc models.Service, currentMileage int, pace *float64, now time.Time) *time.Time {
	fromDate := svc.DueDate
	fromMileage := projectMileageDate(svc.DueMileage, currentMileage, pace, now)

	switch {
	case fromDate != nil && fromMileage != nil:
		if fromDate.Before(*fromMileage) {
			return fromDate
		}
		return fromMileage
	case fromDate != nil:
		return fromDate
	default:
		return fromMileage
	}
}

// projectMileageDate converts a mileage threshold into a calendar date using
// the daily pace. Nil when the threshold or a positive pace is missing.
func projectMileageDate(dueMileage *int, currentMileage int, pace *float64, now time.Time) *time.Time {
	if dueMileage == nil || pace == nil || *pace <= 0 {
		return nil
	}
	milesRemaining := float64(*dueMileage - currentMileage)
	daysRemaining := milesRemaining / *pace
	projected := now.Add(time.Duration(daysRemaining * 24 * float64(time.Hour)))
	return &projected
}
