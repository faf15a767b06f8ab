package handlers

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/drivewell/maintenance-tracker/internal/db"
	"github.com/drivewell/maintenance-tracker/internal/models"
)

// In-memory fakes for the collection interfaces, shared across handler tests.

type fakeVehicleCursor struct {
	vehicles []models.Vehicle
}

func (c *fakeVehicleCursor) All(ctx context.Context, out interface{}) error {
	dst, ok := out.(*[]models.Vehicle)
	if !ok {
		return fmt.Errorf("unexpected output type %T", out)
	}
	*dst = append(*dst, c.vehicles...)
	return nil
}

func (c *fakeVehicleCursor) Close(ctx context.Context) error { return nil }

type fakeVehicleCollection struct {
	vehicles map[string]models.Vehicle
}

func newFakeVehicleCollection(vehicles ...models.Vehicle) *fakeVehicleCollection {
	c := &fakeVehicleCollection{vehicles: map[string]models.Vehicle{}}
	for _, v := range vehicles {
		c.vehicles[v.ID.Hex()] = v
	}
	return c
}

func (c *fakeVehicleCollection) InsertVehicle(ctx context.Context, vehicle models.Vehicle) error {
	c.vehicles[vehicle.ID.Hex()] = vehicle
	return nil
}

func (c *fakeVehicleCollection) FindVehicles(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (db.VehicleCursor, error) {
	all := make([]models.Vehicle, 0, len(c.vehicles))
	for _, v := range c.vehicles {
		all = append(all, v)
	}
	return &fakeVehicleCursor{vehicles: all}, nil
}

func (c *fakeVehicleCollection) FindVehicleByID(ctx context.Context, id string) (*models.Vehicle, error) {
	v, ok := c.vehicles[id]
	if !ok {
		return nil, fmt.Errorf("vehicle not found")
	}
	return &v, nil
}

func (c *fakeVehicleCollection) UpdateVehicle(ctx context.Context, id string, vehicle models.Vehicle) error {
	if _, ok := c.vehicles[id]; !ok {
		return fmt.Errorf("vehicle not found")
	}
	c.vehicles[id] = vehicle
	return nil
}

func (c *fakeVehicleCollection) UpdateVehicleMileage(ctx context.Context, id string, mileage int, pace *float64) error {
	v, ok := c.vehicles[id]
	if !ok {
		return fmt.Errorf("vehicle not found")
	}
	v.CurrentMileage = mileage
	v.DailyMilesPace = pace
	c.vehicles[id] = v
	return nil
}

func (c *fakeVehicleCollection) DeleteVehicle(ctx context.Context, id string) error {
	if _, ok := c.vehicles[id]; !ok {
		return fmt.Errorf("vehicle not found")
	}
	delete(c.vehicles, id)
	return nil
}

type fakeServiceCollection struct {
	services map[string]models.Service
}

func newFakeServiceCollection(services ...models.Service) *fakeServiceCollection {
	c := &fakeServiceCollection{services: map[string]models.Service{}}
	for _, s := range services {
		c.services[s.ID.Hex()] = s
	}
	return c
}

func (c *fakeServiceCollection) InsertService(ctx context.Context, service models.Service) error {
	c.services[service.ID.Hex()] = service
	return nil
}

func (c *fakeServiceCollection) FindServicesByVehicle(ctx context.Context, vehicleID string) ([]models.Service, error) {
	var out []models.Service
	for _, s := range c.services {
		if s.VehicleID.Hex() == vehicleID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (c *fakeServiceCollection) FindServiceByID(ctx context.Context, id string) (*models.Service, error) {
	s, ok := c.services[id]
	if !ok {
		return nil, fmt.Errorf("service not found")
	}
	return &s, nil
}

func (c *fakeServiceCollection) UpdateService(ctx context.Context, id string, service models.Service) error {
	if _, ok := c.services[id]; !ok {
		return fmt.Errorf("service not found")
	}
	c.services[id] = service
	return nil
}

func (c *fakeServiceCollection) DeleteService(ctx context.Context, id string) error {
	if _, ok := c.services[id]; !ok {
		return fmt.Errorf("service not found")
	}
	delete(c.services, id)
	return nil
}

func (c *fakeServiceCollection) DeleteServicesByVehicle(ctx context.Context, vehicleID string) error {
	for id, s := range c.services {
		if s.VehicleID.Hex() == vehicleID {
			delete(c.services, id)
		}
	}
	return nil
}

type fakeSnapshotCollection struct {
	snapshots []models.MileageSnapshot
	insertErr error
}

func (c *fakeSnapshotCollection) InsertSnapshot(ctx context.Context, snapshot models.MileageSnapshot) error {
	if c.insertErr != nil {
		return c.insertErr
	}
	c.snapshots = append(c.snapshots, snapshot)
	return nil
}

func (c *fakeSnapshotCollection) FindSnapshotsByVehicle(ctx context.Context, vehicleID string) ([]models.MileageSnapshot, error) {
	var out []models.MileageSnapshot
	for _, s := range c.snapshots {
		if s.VehicleID.Hex() == vehicleID {
			out = append(out, s)
		}
	}
	return out, nil
}
