package engine

import (
	"time"

	"github.com/drivewell/maintenance-tracker/internal/models"
)

// StatusThresholds holds the configurable near-term window for the due-soon
// classification. Several surfaces (dashboard, widget, notifications) share
// these, so they are passed in rather than hard-coded.
type StatusThresholds struct {
	DueSoonDays  int
	DueSoonMiles int
}

// DefaultStatusThresholds returns the product default window.
func DefaultStatusThresholds() StatusThresholds {
	return StatusThresholds{
		DueSoonDays:  30,
		DueSoonMiles: 500,
	}
}

// Status classifies a service against its triggers at the given instant.
// Order matters: overdue wins over due-soon wins over good; a service with no
// triggers at all is neutral, which is a normal state and not an error.
func Status(svc models.Service, currentMileage int, pace *float64, now time.Time, th StatusThresholds) models.ServiceStatus {
	if !svc.HasTrigger() {
		return models.StatusNeutral
	}

	var daysRemaining *int
	if due := EffectiveDueDate(svc, currentMileage, pace, now); due != nil {
		d := DaysBetween(now, *due)
		daysRemaining = &d
	}

	var milesRemaining *int
	if svc.DueMileage != nil {
		m := *svc.DueMileage - currentMileage
		milesRemaining = &m
	}

	if (daysRemaining != nil && *daysRemaining < 0) || (milesRemaining != nil && *milesRemaining < 0) {
		return models.StatusOverdue
	}
	if (daysRemaining != nil && *daysRemaining <= th.DueSoonDays) || (milesRemaining != nil && *milesRemaining <= th.DueSoonMiles) {
		return models.StatusDueSoon
	}
	return models.StatusGood
}
