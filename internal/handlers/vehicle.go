package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/drivewell/maintenance-tracker/internal/db"
	"github.com/drivewell/maintenance-tracker/internal/engine"
	"github.com/drivewell/maintenance-tracker/internal/models"
)

// VehicleHandler handles vehicle requests
type VehicleHandler struct {
	vehicles  db.VehicleCollection
	services  db.ServiceCollection
	snapshots db.SnapshotCollection
}

// NewVehicleHandler creates a new vehicle handler
func NewVehicleHandler(vehicles db.VehicleCollection, services db.ServiceCollection, snapshots db.SnapshotCollection) *VehicleHandler {
	return &VehicleHandler{
		vehicles:  vehicles,
		services:  services,
		snapshots: snapshots,
	}
}

// CreateVehicleRequest is the payload for registering a vehicle.
type CreateVehicleRequest struct {
	Name           string `json:"name"`
	Make           string `json:"make"`
	Model          string `json:"model"`
	Year           int    `json:"year"`
	CurrentMileage int    `json:"current_mileage"`
}

// MileageUpdateRequest is the payload for an odometer update.
type MileageUpdateRequest struct {
	Mileage    int        `json:"mileage"`
	RecordedAt *time.Time `json:"recorded_at,omitempty"`
}

// Create registers a new vehicle and records its first mileage snapshot.
func (h *VehicleHandler) Create(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var req CreateVehicleRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if req.Name == "" {
		http.Error(w, "Vehicle name is required", http.StatusBadRequest)
		return
	}
	if req.CurrentMileage < 0 {
		http.Error(w, "Mileage cannot be negative", http.StatusBadRequest)
		return
	}

	now := time.Now()
	vehicle := models.Vehicle{
		ID:             primitive.NewObjectID(),
		Name:           req.Name,
		Make:           req.Make,
		Model:          req.Model,
		Year:           req.Year,
		CurrentMileage: req.CurrentMileage,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := h.vehicles.InsertVehicle(r.Context(), vehicle); err != nil {
		http.Error(w, "Failed to create vehicle", http.StatusInternalServerError)
		return
	}

	snapshot := models.MileageSnapshot{
		ID:         primitive.NewObjectID(),
		VehicleID:  vehicle.ID,
		Mileage:    req.CurrentMileage,
		RecordedAt: now,
		Source:     models.SnapshotSourceManual,
	}
	if err := h.snapshots.InsertSnapshot(r.Context(), snapshot); err != nil {
		log.WithError(err).Error("Failed to record initial mileage snapshot")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(vehicle)
}

// List returns all vehicles.
func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request) {
	cursor, err := h.vehicles.FindVehicles(r.Context(), bson.M{})
	if err != nil {
		http.Error(w, "Failed to list vehicles", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(r.Context())

	vehicles := []models.Vehicle{}
	if err := cursor.All(r.Context(), &vehicles); err != nil {
		http.Error(w, "Failed to decode vehicles", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(vehicles)
}

// Get returns one vehicle by ID.
func (h *VehicleHandler) Get(w http.ResponseWriter, r *http.Request) {
	vehicle, err := h.vehicles.FindVehicleByID(r.Context(), r.PathValue("id"))
	if err != nil {
		http.Error(w, "Vehicle not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(vehicle)
}

// Update replaces a vehicle's descriptive fields.
func (h *VehicleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	vehicle, err := h.vehicles.FindVehicleByID(r.Context(), id)
	if err != nil {
		http.Error(w, "Vehicle not found", http.StatusNotFound)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var req CreateVehicleRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if req.Name != "" {
		vehicle.Name = req.Name
	}
	if req.Make != "" {
		vehicle.Make = req.Make
	}
	if req.Model != "" {
		vehicle.Model = req.Model
	}
	if req.Year != 0 {
		vehicle.Year = req.Year
	}

	if err := h.vehicles.UpdateVehicle(r.Context(), id, *vehicle); err != nil {
		http.Error(w, "Failed to update vehicle", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(vehicle)
}

// Delete removes a vehicle and its services.
func (h *VehicleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.vehicles.DeleteVehicle(r.Context(), id); err != nil {
		http.Error(w, "Vehicle not found", http.StatusNotFound)
		return
	}
	if err := h.services.DeleteServicesByVehicle(r.Context(), id); err != nil {
		log.WithError(err).WithField("vehicle_id", id).Error("Failed to delete services for vehicle")
	}

	w.WriteHeader(http.StatusNoContent)
}

// UpdateMileage advances the vehicle's odometer, appends a snapshot and
// refreshes the stored pace estimate. The odometer never moves backwards
// here; corrections go through the snapshot history.
func (h *VehicleHandler) UpdateMileage(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	vehicle, err := h.vehicles.FindVehicleByID(r.Context(), id)
	if err != nil {
		http.Error(w, "Vehicle not found", http.StatusNotFound)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var req MileageUpdateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if req.Mileage < vehicle.CurrentMileage {
		http.Error(w, "Mileage cannot decrease", http.StatusBadRequest)
		return
	}

	recordedAt := time.Now()
	if req.RecordedAt != nil {
		recordedAt = *req.RecordedAt
	}

	snapshot := models.MileageSnapshot{
		ID:         primitive.NewObjectID(),
		VehicleID:  vehicle.ID,
		Mileage:    req.Mileage,
		RecordedAt: recordedAt,
		Source:     models.SnapshotSourceManual,
	}
	if err := h.snapshots.InsertSnapshot(r.Context(), snapshot); err != nil {
		http.Error(w, "Failed to record snapshot", http.StatusInternalServerError)
		return
	}

	snapshots, err := h.snapshots.FindSnapshotsByVehicle(r.Context(), id)
	if err != nil {
		http.Error(w, "Failed to load snapshot history", http.StatusInternalServerError)
		return
	}
	pace := engine.EstimatePace(snapshots)

	if err := h.vehicles.UpdateVehicleMileage(r.Context(), id, req.Mileage, pace); err != nil {
		http.Error(w, "Failed to update mileage", http.StatusInternalServerError)
		return
	}

	vehicle.CurrentMileage = req.Mileage
	vehicle.DailyMilesPace = pace

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(vehicle)
}
