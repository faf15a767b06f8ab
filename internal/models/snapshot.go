package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"time"
)

// SnapshotSource identifies how a mileage snapshot was recorded.
type SnapshotSource string

const (
	SnapshotSourceManual    SnapshotSource = "manual"
	SnapshotSourceService   SnapshotSource = "service"
	SnapshotSourceTelemetry SnapshotSource = "telemetry"
)

// MileageSnapshot is one timestamped odometer reading. Snapshots are
// append-only; the pace estimate is derived from them and nothing else.
type MileageSnapshot struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	VehicleID  primitive.ObjectID `bson:"vehicle_id" json:"vehicle_id"`
	Mileage    int                `bson:"mileage" json:"mileage"`
	RecordedAt time.Time          `bson:"recorded_at" json:"recorded_at"`
	Source     SnapshotSource     `bson:"source" json:"source"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}
