package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// ClusteringSettings controls how services are grouped into bundles. It is
// supplied by the caller on every computation; the engine never mutates it.
type ClusteringSettings struct {
	Enabled            bool `json:"enabled"`
	MinimumClusterSize int  `json:"minimum_cluster_size"` // >= 2
	MileageWindow      int  `json:"mileage_window"`
	DaysWindow         int  `json:"days_window"`
}

// DefaultClusteringSettings returns the product defaults.
func DefaultClusteringSettings() ClusteringSettings {
	return ClusteringSettings{
		Enabled:            true,
		MinimumClusterSize: 2,
		MileageWindow:      1000,
		DaysWindow:         14,
	}
}

// ServiceCluster is a group of services close enough in time or mileage to be
// serviced together. Clusters are recomputed on demand and never persisted.
type ServiceCluster struct {
	Services      []Service          `json:"services"`
	Anchor        Service            `json:"anchor"` // most urgent member
	VehicleID     primitive.ObjectID `json:"vehicle_id"`
	MileageWindow int                `json:"mileage_window"`
	DaysWindow    int                `json:"days_window"`
}
