package engine

import (
	"time"

	"github.com/drivewell/maintenance-tracker/internal/models"
)

// DetectClusters groups a vehicle's actionable services into bundles whose
// due points fall within the configured mileage or day window of each other.
//
// The algorithm is a single greedy pass: services are sorted by urgency, each
// unassigned service in turn becomes an anchor candidate, and every other
// unassigned service close enough to the anchor joins it. An anchor that
// gathers at least the minimum cluster size emits a cluster and its members
// are taken off the table, so no service ever belongs to two clusters.
// First-anchor-wins is a deliberate simplification over globally optimal
// bundling. Clusters come back in anchor discovery order, most urgent first.
func DetectClusters(services []models.Service, vehicle models.Vehicle, settings models.ClusteringSettings, now time.Time, th StatusThresholds) []models.ServiceCluster {
	if !settings.Enabled || settings.MinimumClusterSize < 2 {
		return nil
	}

	currentMileage := vehicle.EffectiveMileage()
	pace := vehicle.DailyMilesPace

	actionable := make([]models.Service, 0, len(services))
	for _, svc := range services {
		if Status(svc, currentMileage, pace, now, th).IsActionable() {
			actionable = append(actionable, svc)
		}
	}
	if len(actionable) < settings.MinimumClusterSize {
		return nil
	}

	SortByUrgency(actionable, currentMileage, pace, now, th)

	assigned := make([]bool, len(actionable))
	var clusters []models.ServiceCluster
	for i := range actionable {
		if assigned[i] {
			continue
		}
		members := []models.Service{actionable[i]}
		indices := []int{i}
		for j := range actionable {
			if j == i || assigned[j] {
				continue
			}
			if proximate(actionable[i], actionable[j], currentMileage, pace, settings, now) {
				members = append(members, actionable[j])
				indices = append(indices, j)
			}
		}
		if len(members) < settings.MinimumClusterSize {
			continue
		}
		for _, k := range indices {
			assigned[k] = true
		}
		clusters = append(clusters, models.ServiceCluster{
			Services:      members,
			Anchor:        actionable[i],
			VehicleID:     vehicle.ID,
			MileageWindow: settings.MileageWindow,
			DaysWindow:    settings.DaysWindow,
		})
	}
	return clusters
}

// PrimaryCluster returns the most urgent cluster, or nil when there is none.
func PrimaryCluster(clusters []models.ServiceCluster) *models.ServiceCluster {
	if len(clusters) == 0 {
		return nil
	}
	return &clusters[0]
}

// proximate tests whether two services are due close enough together to be
// bundled. Mileage proximity and date proximity each suffice on their own.
// Date comparison prefers effective (pace-aware) due dates and falls back to
// raw due dates when neither service has enough data for a projection.
func proximate(a, b models.Service, currentMileage int, pace *float64, settings models.ClusteringSettings, now time.Time) bool {
	if a.DueMileage != nil && b.DueMileage != nil {
		if absInt(*a.DueMileage-*b.DueMileage) <= settings.MileageWindow {
			return true
		}
	}

	dueA := EffectiveDueDate(a, currentMileage, pace, now)
	dueB := EffectiveDueDate(b, currentMileage, pace, now)
	if dueA != nil && dueB != nil {
		return absInt(DaysBetween(*dueA, *dueB)) <= settings.DaysWindow
	}
	if a.DueDate != nil && b.DueDate != nil {
		return absInt(DaysBetween(*a.DueDate, *b.DueDate)) <= settings.DaysWindow
	}
	return false
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
