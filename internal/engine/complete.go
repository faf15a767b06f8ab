package engine

import (
	"time"

	"github.com/drivewell/maintenance-tracker/internal/models"
)

// CompleteService rolls a service forward after it has been performed. The
// completion becomes the new anchor and the next triggers are recomputed from
// the interval rules; a trigger with no matching interval is cleared, so a
// one-off service goes neutral once done.
func CompleteService(svc models.Service, performedAt time.Time, mileage int) models.Service {
	svc.LastPerformed = &performedAt
	svc.LastMileage = &mileage

	if svc.IntervalMonths != nil {
		next := performedAt.AddDate(0, *svc.IntervalMonths, 0)
		svc.DueDate = &next
	} else {
		svc.DueDate = nil
	}

	if svc.IntervalMiles != nil {
		next := mileage + *svc.IntervalMiles
		svc.DueMileage = &next
	} else {
		svc.DueMileage = nil
	}

	return svc
}
