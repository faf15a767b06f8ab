package db

import (
	"context"

	"github.com/drivewell/maintenance-tracker/internal/models"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// VehicleCollection defines the interface for vehicle data operations.
type VehicleCollection interface {
	InsertVehicle(ctx context.Context, vehicle models.Vehicle) error
	FindVehicles(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (VehicleCursor, error)
	FindVehicleByID(ctx context.Context, id string) (*models.Vehicle, error)
	UpdateVehicle(ctx context.Context, id string, vehicle models.Vehicle) error
	UpdateVehicleMileage(ctx context.Context, id string, mileage int, pace *float64) error
	DeleteVehicle(ctx context.Context, id string) error
}

// VehicleCursor defines the interface for vehicle cursor operations.
type VehicleCursor interface {
	All(ctx context.Context, out interface{}) error
	Close(ctx context.Context) error
}

// ServiceCollection defines the interface for service data operations.
type ServiceCollection interface {
	InsertService(ctx context.Context, service models.Service) error
	FindServicesByVehicle(ctx context.Context, vehicleID string) ([]models.Service, error)
	FindServiceByID(ctx context.Context, id string) (*models.Service, error)
	UpdateService(ctx context.Context, id string, service models.Service) error
	DeleteService(ctx context.Context, id string) error
	DeleteServicesByVehicle(ctx context.Context, vehicleID string) error
}

// SnapshotCollection defines the interface for mileage snapshot operations.
// Snapshots are append-only: inserted and read, never updated.
type SnapshotCollection interface {
	InsertSnapshot(ctx context.Context, snapshot models.MileageSnapshot) error
	FindSnapshotsByVehicle(ctx context.Context, vehicleID string) ([]models.MileageSnapshot, error)
}
