package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/drivewell/maintenance-tracker/internal/db"
	"github.com/drivewell/maintenance-tracker/internal/engine"
	"github.com/drivewell/maintenance-tracker/internal/models"
)

// ServiceHandler handles maintenance service requests
type ServiceHandler struct {
	services  db.ServiceCollection
	vehicles  db.VehicleCollection
	snapshots db.SnapshotCollection
}

// NewServiceHandler creates a new service handler
func NewServiceHandler(services db.ServiceCollection, vehicles db.VehicleCollection, snapshots db.SnapshotCollection) *ServiceHandler {
	return &ServiceHandler{
		services:  services,
		vehicles:  vehicles,
		snapshots: snapshots,
	}
}

// CreateServiceRequest is the payload for scheduling a maintenance item.
type CreateServiceRequest struct {
	VehicleID      string     `json:"vehicle_id"`
	Type           string     `json:"type"`
	Name           string     `json:"name"`
	DueDate        *time.Time `json:"due_date,omitempty"`
	DueMileage     *int       `json:"due_mileage,omitempty"`
	IntervalMonths *int       `json:"interval_months,omitempty"`
	IntervalMiles  *int       `json:"interval_miles,omitempty"`
	Notes          string     `json:"notes"`
}

// CompleteServiceRequest records that a service was performed.
type CompleteServiceRequest struct {
	PerformedAt *time.Time `json:"performed_at,omitempty"`
	Mileage     int        `json:"mileage"`
}

// Create schedules a new service. A service without any trigger is allowed;
// it simply classifies neutral until one is set.
func (h *ServiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var req CreateServiceRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if req.Name == "" {
		http.Error(w, "Service name is required", http.StatusBadRequest)
		return
	}

	vehicle, err := h.vehicles.FindVehicleByID(r.Context(), req.VehicleID)
	if err != nil {
		http.Error(w, "Vehicle not found", http.StatusNotFound)
		return
	}

	now := time.Now()
	service := models.Service{
		ID:             primitive.NewObjectID(),
		VehicleID:      vehicle.ID,
		Type:           req.Type,
		Name:           req.Name,
		DueDate:        req.DueDate,
		DueMileage:     req.DueMileage,
		IntervalMonths: req.IntervalMonths,
		IntervalMiles:  req.IntervalMiles,
		Notes:          req.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := h.services.InsertService(r.Context(), service); err != nil {
		http.Error(w, "Failed to create service", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(service)
}

// ListByVehicle returns every service tracked for a vehicle.
func (h *ServiceHandler) ListByVehicle(w http.ResponseWriter, r *http.Request) {
	services, err := h.services.FindServicesByVehicle(r.Context(), r.PathValue("id"))
	if err != nil {
		http.Error(w, "Failed to list services", http.StatusInternalServerError)
		return
	}
	if services == nil {
		services = []models.Service{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(services)
}

// Update replaces a service's triggers, intervals and descriptive fields.
func (h *ServiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	service, err := h.services.FindServiceByID(r.Context(), id)
	if err != nil {
		http.Error(w, "Service not found", http.StatusNotFound)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var req CreateServiceRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if req.Name != "" {
		service.Name = req.Name
	}
	if req.Type != "" {
		service.Type = req.Type
	}
	service.DueDate = req.DueDate
	service.DueMileage = req.DueMileage
	service.IntervalMonths = req.IntervalMonths
	service.IntervalMiles = req.IntervalMiles
	service.Notes = req.Notes

	if err := h.services.UpdateService(r.Context(), id, *service); err != nil {
		http.Error(w, "Failed to update service", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(service)
}

// Delete removes a service.
func (h *ServiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.services.DeleteService(r.Context(), r.PathValue("id")); err != nil {
		http.Error(w, "Service not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Complete marks a service as performed: the completion becomes the new
// anchor, triggers roll forward from the interval rules, and a
// service-sourced mileage snapshot is appended.
func (h *ServiceHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	service, err := h.services.FindServiceByID(r.Context(), id)
	if err != nil {
		http.Error(w, "Service not found", http.StatusNotFound)
		return
	}

	vehicle, err := h.vehicles.FindVehicleByID(r.Context(), service.VehicleID.Hex())
	if err != nil {
		http.Error(w, "Vehicle not found", http.StatusNotFound)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var req CompleteServiceRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if req.Mileage <= 0 {
		req.Mileage = vehicle.CurrentMileage
	}
	performedAt := time.Now()
	if req.PerformedAt != nil {
		performedAt = *req.PerformedAt
	}

	updated := engine.CompleteService(*service, performedAt, req.Mileage)
	if err := h.services.UpdateService(r.Context(), id, updated); err != nil {
		http.Error(w, "Failed to update service", http.StatusInternalServerError)
		return
	}

	snapshot := models.MileageSnapshot{
		ID:         primitive.NewObjectID(),
		VehicleID:  vehicle.ID,
		Mileage:    req.Mileage,
		RecordedAt: performedAt,
		Source:     models.SnapshotSourceService,
	}
	if err := h.snapshots.InsertSnapshot(r.Context(), snapshot); err != nil {
		log.WithError(err).WithField("service_id", id).Error("Failed to record completion snapshot")
	}

	// A completion can carry a newer odometer reading than the last update.
	if req.Mileage > vehicle.CurrentMileage {
		snapshots, err := h.snapshots.FindSnapshotsByVehicle(r.Context(), vehicle.ID.Hex())
		if err == nil {
			pace := engine.EstimatePace(snapshots)
			if err := h.vehicles.UpdateVehicleMileage(r.Context(), vehicle.ID.Hex(), req.Mileage, pace); err != nil {
				log.WithError(err).WithField("vehicle_id", vehicle.ID.Hex()).Error("Failed to advance vehicle mileage")
			}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}
