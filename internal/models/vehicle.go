package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"time"
)

// Vehicle represents a tracked vehicle.
type Vehicle struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name           string             `bson:"name" json:"name"`
	Make           string             `bson:"make" json:"make"`
	Model          string             `bson:"model" json:"model"`
	Year           int                `bson:"year" json:"year"`
	CurrentMileage int                `bson:"current_mileage" json:"current_mileage"`
	// DailyMilesPace is derived from the snapshot history and refreshed on
	// every mileage update; the snapshot log is the ground truth.
	DailyMilesPace *float64  `bson:"daily_miles_pace,omitempty" json:"daily_miles_pace,omitempty"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at" json:"updated_at"`
}

// EffectiveMileage returns the mileage used for status and clustering
// decisions. Currently the last known odometer reading.
func (v *Vehicle) EffectiveMileage() int {
	return v.CurrentMileage
}
