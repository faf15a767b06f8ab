package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"time"
)

// Service represents a tracked maintenance item for a vehicle. A service is
// schedulable when at least one of DueDate/DueMileage is set; with neither it
// is classified neutral.
type Service struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	VehicleID      primitive.ObjectID `bson:"vehicle_id" json:"vehicle_id"`
	Type           string             `bson:"type" json:"type"` // "oil_change", "tire_rotation", "brake_service", "battery_service", "inspection", "other"
	Name           string             `bson:"name" json:"name"`
	DueDate        *time.Time         `bson:"due_date,omitempty" json:"due_date,omitempty"`
	DueMileage     *int               `bson:"due_mileage,omitempty" json:"due_mileage,omitempty"`
	LastPerformed  *time.Time         `bson:"last_performed,omitempty" json:"last_performed,omitempty"`
	LastMileage    *int               `bson:"last_mileage,omitempty" json:"last_mileage,omitempty"`
	IntervalMonths *int               `bson:"interval_months,omitempty" json:"interval_months,omitempty"`
	IntervalMiles  *int               `bson:"interval_miles,omitempty" json:"interval_miles,omitempty"`
	Notes          string             `bson:"notes" json:"notes"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
}

// HasTrigger reports whether the service has a date or mileage trigger set.
func (s *Service) HasTrigger() bool {
	return s.DueDate != nil || s.DueMileage != nil
}

// Constants for service types
const (
	ServiceTypeOilChange      = "oil_change"
	ServiceTypeTireRotation   = "tire_rotation"
	ServiceTypeBrakeService   = "brake_service"
	ServiceTypeBatteryService = "battery_service"
	ServiceTypeInspection     = "inspection"
	ServiceTypeOther          = "other"
)
