package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/drivewell/maintenance-tracker/internal/models"
)

func newServiceMux(h *ServiceHandler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/services", h.Create)
	mux.HandleFunc("GET /api/vehicles/{id}/services", h.ListByVehicle)
	mux.HandleFunc("PUT /api/services/{id}", h.Update)
	mux.HandleFunc("DELETE /api/services/{id}", h.Delete)
	mux.HandleFunc("POST /api/services/{id}/complete", h.Complete)
	return mux
}

func intP(v int) *int { return &v }

func TestServiceHandler_Create(t *testing.T) {
	vehicle := models.Vehicle{ID: primitive.NewObjectID(), Name: "Daily driver", CurrentMileage: 34500}
	services := newFakeServiceCollection()
	handler := NewServiceHandler(services, newFakeVehicleCollection(vehicle), &fakeSnapshotCollection{})
	mux := newServiceMux(handler)

	body, _ := json.Marshal(CreateServiceRequest{
		VehicleID:     vehicle.ID.Hex(),
		Type:          models.ServiceTypeOilChange,
		Name:          "Oil change",
		DueMileage:    intP(38000),
		IntervalMiles: intP(5000),
	})
	req := httptest.NewRequest(http.MethodPost, "/api/services", bytes.NewBuffer(body))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var service models.Service
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &service))
	assert.Equal(t, vehicle.ID, service.VehicleID)
	assert.NotNil(t, service.DueMileage)
	assert.Equal(t, 38000, *service.DueMileage)
	assert.Len(t, services.services, 1)
}

func TestServiceHandler_Create_UnknownVehicle(t *testing.T) {
	handler := NewServiceHandler(newFakeServiceCollection(), newFakeVehicleCollection(), &fakeSnapshotCollection{})
	mux := newServiceMux(handler)

	body, _ := json.Marshal(CreateServiceRequest{
		VehicleID: primitive.NewObjectID().Hex(),
		Name:      "Oil change",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/services", bytes.NewBuffer(body))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServiceHandler_Complete_RollsForward(t *testing.T) {
	vehicle := models.Vehicle{ID: primitive.NewObjectID(), Name: "Daily driver", CurrentMileage: 34500}
	due := time.Now().AddDate(0, 0, -5)
	service := models.Service{
		ID:             primitive.NewObjectID(),
		VehicleID:      vehicle.ID,
		Type:           models.ServiceTypeOilChange,
		Name:           "Oil change",
		DueDate:        &due,
		DueMileage:     intP(34000),
		IntervalMonths: intP(6),
		IntervalMiles:  intP(5000),
	}
	vehicles := newFakeVehicleCollection(vehicle)
	services := newFakeServiceCollection(service)
	snapshots := &fakeSnapshotCollection{}
	handler := NewServiceHandler(services, vehicles, snapshots)
	mux := newServiceMux(handler)

	body, _ := json.Marshal(CompleteServiceRequest{Mileage: 34650})
	req := httptest.NewRequest(http.MethodPost, "/api/services/"+service.ID.Hex()+"/complete", bytes.NewBuffer(body))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var updated models.Service
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.NotNil(t, updated.LastMileage)
	assert.Equal(t, 34650, *updated.LastMileage)
	assert.NotNil(t, updated.DueMileage)
	assert.Equal(t, 39650, *updated.DueMileage)
	assert.NotNil(t, updated.DueDate)
	assert.True(t, updated.DueDate.After(time.Now()))

	// Completion leaves a service-sourced snapshot and advances the odometer.
	assert.Len(t, snapshots.snapshots, 1)
	assert.Equal(t, models.SnapshotSourceService, snapshots.snapshots[0].Source)
	stored, _ := vehicles.FindVehicleByID(req.Context(), vehicle.ID.Hex())
	assert.Equal(t, 34650, stored.CurrentMileage)
}

func TestServiceHandler_Complete_DefaultsToVehicleMileage(t *testing.T) {
	vehicle := models.Vehicle{ID: primitive.NewObjectID(), Name: "Daily driver", CurrentMileage: 34500}
	service := models.Service{
		ID:            primitive.NewObjectID(),
		VehicleID:     vehicle.ID,
		Name:          "Inspection",
		IntervalMiles: intP(10000),
	}
	handler := NewServiceHandler(newFakeServiceCollection(service), newFakeVehicleCollection(vehicle), &fakeSnapshotCollection{})
	mux := newServiceMux(handler)

	req := httptest.NewRequest(http.MethodPost, "/api/services/"+service.ID.Hex()+"/complete", bytes.NewBufferString("{}"))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var updated models.Service
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.NotNil(t, updated.LastMileage)
	assert.Equal(t, 34500, *updated.LastMileage)
	assert.NotNil(t, updated.DueMileage)
	assert.Equal(t, 44500, *updated.DueMileage)
}

func TestServiceHandler_ListByVehicle_Empty(t *testing.T) {
	handler := NewServiceHandler(newFakeServiceCollection(), newFakeVehicleCollection(), &fakeSnapshotCollection{})
	mux := newServiceMux(handler)

	req := httptest.NewRequest(http.MethodGet, "/api/vehicles/"+primitive.NewObjectID().Hex()+"/services", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestServiceHandler_Delete(t *testing.T) {
	service := models.Service{ID: primitive.NewObjectID(), VehicleID: primitive.NewObjectID(), Name: "Oil change"}
	services := newFakeServiceCollection(service)
	handler := NewServiceHandler(services, newFakeVehicleCollection(), &fakeSnapshotCollection{})
	mux := newServiceMux(handler)

	req := httptest.NewRequest(http.MethodDelete, "/api/services/"+service.ID.Hex(), nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, services.services)
}
