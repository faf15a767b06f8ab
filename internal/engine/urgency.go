package engine

import (
	"sort"
	"time"

	"github.com/drivewell/maintenance-tracker/internal/models"
)

// urgencyBandSize separates the four status bands. Within-band magnitudes are
// clamped below it so no service can ever cross into a neighboring band.
const urgencyBandSize int64 = 1_000_000

// statusBand maps a status to its severity band, 0 being most severe.
func statusBand(status models.ServiceStatus) int64 {
	switch status {
	case models.StatusOverdue:
		return 0
	case models.StatusDueSoon:
		return 1
	case models.StatusGood:
		return 2
	default:
		return 3
	}
}

// UrgencyScore produces a sort key for a service; lower is more urgent. Every
// overdue service scores below every due-soon service, which scores below
// every good service, which scores below every neutral one. Within a band,
// services closer to (or further past) their trigger score lower. The score
// is never displayed; it only orders lists and picks cluster anchors.
func UrgencyScore(svc models.Service, currentMileage int, pace *float64, now time.Time, th StatusThresholds) int64 {
	status := Status(svc, currentMileage, pace, now, th)
	return statusBand(status)*urgencyBandSize + withinBandMagnitude(svc, currentMileage, pace, now)
}

// withinBandMagnitude orders services inside one band by how close they are
// to their trigger. Days remaining from the effective due date is the
// preferred measure; miles remaining is the fallback when no calendar date
// can be resolved. Values are shifted by half a band so overdue amounts
// (negative remaining) stay inside the band, then clamped.
func withinBandMagnitude(svc models.Service, currentMileage int, pace *float64, now time.Time) int64 {
	half := urgencyBandSize / 2

	remaining := half // nothing measurable: park in the middle of the band
	if due := EffectiveDueDate(svc, currentMileage, pace, now); due != nil {
		remaining = half + int64(DaysBetween(now, *due))
	} else if svc.DueMileage != nil {
		remaining = half + int64(*svc.DueMileage-currentMileage)
	}

	if remaining < 0 {
		return 0
	}
	if remaining >= urgencyBandSize {
		return urgencyBandSize - 1
	}
	return remaining
}

// SortByUrgency sorts services in place from most to least urgent. Equal
// scores fall back to the service ID so repeated calls over identical input
// always agree; list rendering and anchor selection rely on that.
func SortByUrgency(services []models.Service, currentMileage int, pace *float64, now time.Time, th StatusThresholds) {
	sort.SliceStable(services, func(i, j int) bool {
		si := UrgencyScore(services[i], currentMileage, pace, now, th)
		sj := UrgencyScore(services[j], currentMileage, pace, now, th)
		if si != sj {
			return si < sj
		}
		return services[i].ID.Hex() < services[j].ID.Hex()
	})
}
