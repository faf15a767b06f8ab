package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/drivewell/maintenance-tracker/internal/db"
	"github.com/drivewell/maintenance-tracker/internal/engine"
	"github.com/drivewell/maintenance-tracker/internal/models"
)

// ScheduleHandler serves the computed maintenance schedule: statuses, urgency
// ordering, effective due dates and service bundles for one vehicle. All
// consumers of the engine (dashboard, widgets, reminders) read this one
// surface so they always agree on ordering.
type ScheduleHandler struct {
	vehicles  db.VehicleCollection
	services  db.ServiceCollection
	snapshots db.SnapshotCollection
}

// NewScheduleHandler creates a new schedule handler
func NewScheduleHandler(vehicles db.VehicleCollection, services db.ServiceCollection, snapshots db.SnapshotCollection) *ScheduleHandler {
	return &ScheduleHandler{
		vehicles:  vehicles,
		services:  services,
		snapshots: snapshots,
	}
}

// ScheduleEntry is one service with its computed position.
type ScheduleEntry struct {
	Service          models.Service       `json:"service"`
	Status           models.ServiceStatus `json:"status"`
	UrgencyScore     int64                `json:"urgency_score"`
	EffectiveDueDate *time.Time           `json:"effective_due_date,omitempty"`
	DaysRemaining    *int                 `json:"days_remaining,omitempty"`
	MilesRemaining   *int                 `json:"miles_remaining,omitempty"`
}

// ScheduleResponse is the full computed schedule for a vehicle.
type ScheduleResponse struct {
	Vehicle        models.Vehicle          `json:"vehicle"`
	DailyMilesPace *float64                `json:"daily_miles_pace,omitempty"`
	Services       []ScheduleEntry         `json:"services"`
	Clusters       []models.ServiceCluster `json:"clusters"`
}

// Get computes the schedule for one vehicle. Clustering behavior and due-soon
// thresholds can be overridden per request through query parameters.
func (h *ScheduleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	vehicle, err := h.vehicles.FindVehicleByID(r.Context(), id)
	if err != nil {
		http.Error(w, "Vehicle not found", http.StatusNotFound)
		return
	}

	services, err := h.services.FindServicesByVehicle(r.Context(), id)
	if err != nil {
		http.Error(w, "Failed to load services", http.StatusInternalServerError)
		return
	}

	snapshots, err := h.snapshots.FindSnapshotsByVehicle(r.Context(), id)
	if err != nil {
		http.Error(w, "Failed to load snapshot history", http.StatusInternalServerError)
		return
	}

	now := time.Now()
	pace := engine.EstimatePace(snapshots)
	vehicle.DailyMilesPace = pace
	thresholds := thresholdsFromQuery(r, engine.DefaultStatusThresholds())
	settings := clusteringFromQuery(r, models.DefaultClusteringSettings())
	currentMileage := vehicle.EffectiveMileage()

	engine.SortByUrgency(services, currentMileage, pace, now, thresholds)

	entries := make([]ScheduleEntry, 0, len(services))
	for _, svc := range services {
		entry := ScheduleEntry{
			Service:          svc,
			Status:           engine.Status(svc, currentMileage, pace, now, thresholds),
			UrgencyScore:     engine.UrgencyScore(svc, currentMileage, pace, now, thresholds),
			EffectiveDueDate: engine.EffectiveDueDate(svc, currentMileage, pace, now),
		}
		if entry.EffectiveDueDate != nil {
			days := engine.DaysBetween(now, *entry.EffectiveDueDate)
			entry.DaysRemaining = &days
		}
		if svc.DueMileage != nil {
			miles := *svc.DueMileage - currentMileage
			entry.MilesRemaining = &miles
		}
		entries = append(entries, entry)
	}

	clusters := engine.DetectClusters(services, *vehicle, settings, now, thresholds)
	if clusters == nil {
		clusters = []models.ServiceCluster{}
	}

	response := ScheduleResponse{
		Vehicle:        *vehicle,
		DailyMilesPace: pace,
		Services:       entries,
		Clusters:       clusters,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// thresholdsFromQuery overlays due-soon thresholds from query parameters.
func thresholdsFromQuery(r *http.Request, defaults engine.StatusThresholds) engine.StatusThresholds {
	th := defaults
	if v := r.URL.Query().Get("due_soon_days"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			th.DueSoonDays = n
		}
	}
	if v := r.URL.Query().Get("due_soon_miles"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			th.DueSoonMiles = n
		}
	}
	return th
}

// clusteringFromQuery overlays clustering settings from query parameters.
func clusteringFromQuery(r *http.Request, defaults models.ClusteringSettings) models.ClusteringSettings {
	settings := defaults
	if v := r.URL.Query().Get("clustering"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			settings.Enabled = enabled
		}
	}
	if v := r.URL.Query().Get("min_cluster_size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			settings.MinimumClusterSize = n
		}
	}
	if v := r.URL.Query().Get("mileage_window"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			settings.MileageWindow = n
		}
	}
	if v := r.URL.Query().Get("days_window"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			settings.DaysWindow = n
		}
	}
	return settings
}
