// Package ingest feeds odometer readings published over MQTT into the
// snapshot log, so connected hardware (OBD dongles, companion apps) can keep
// the pace estimate fresh without going through the HTTP API.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/drivewell/maintenance-tracker/internal/db"
	"github.com/drivewell/maintenance-tracker/internal/engine"
	"github.com/drivewell/maintenance-tracker/internal/models"
)

// OdometerTopic is the subscription filter; the wildcard segment is the
// vehicle ID.
const OdometerTopic = "vehicles/+/odometer"

// OdometerMessage is the wire format for one odometer reading.
type OdometerMessage struct {
	Mileage    int        `json:"mileage"`
	RecordedAt *time.Time `json:"recorded_at,omitempty"`
}

// Subscriber consumes odometer messages and appends mileage snapshots.
type Subscriber struct {
	client    mqtt.Client
	vehicles  db.VehicleCollection
	snapshots db.SnapshotCollection
}

// NewSubscriber connects to the broker and returns a subscriber ready to
// Start.
func NewSubscriber(brokerURL, clientID string, vehicles db.VehicleCollection, snapshots db.SnapshotCollection) (*Subscriber, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(brokerURL).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectTimeout(10 * time.Second)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect error: %w", token.Error())
	}

	return &Subscriber{
		client:    client,
		vehicles:  vehicles,
		snapshots: snapshots,
	}, nil
}

// Start subscribes to the odometer topic.
func (s *Subscriber) Start() error {
	if token := s.client.Subscribe(OdometerTopic, 1, s.handleMessage); token.Wait() && token.Error() != nil {
		return fmt.Errorf("mqtt subscribe error: %w", token.Error())
	}
	log.WithField("topic", OdometerTopic).Info("Subscribed to odometer updates")
	return nil
}

// Stop disconnects from the broker.
func (s *Subscriber) Stop() {
	s.client.Disconnect(250)
}

func (s *Subscriber) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	vehicleID, err := VehicleIDFromTopic(msg.Topic())
	if err != nil {
		log.WithError(err).WithField("topic", msg.Topic()).Warn("Ignoring odometer message")
		return
	}

	var reading OdometerMessage
	if err := json.Unmarshal(msg.Payload(), &reading); err != nil {
		log.WithError(err).WithField("vehicle_id", vehicleID).Warn("Invalid odometer payload")
		return
	}

	if err := s.Record(context.Background(), vehicleID, reading); err != nil {
		log.WithError(err).WithField("vehicle_id", vehicleID).Error("Failed to record odometer reading")
		return
	}

	log.WithFields(log.Fields{
		"vehicle_id": vehicleID,
		"mileage":    reading.Mileage,
	}).Info("Recorded odometer reading")
}

// Record validates one reading, appends a snapshot and advances the vehicle's
// odometer and pace. Readings below the current odometer are kept in the
// snapshot log but never move the vehicle backwards.
func (s *Subscriber) Record(ctx context.Context, vehicleID string, reading OdometerMessage) error {
	if reading.Mileage < 0 {
		return fmt.Errorf("negative mileage %d", reading.Mileage)
	}

	vehicle, err := s.vehicles.FindVehicleByID(ctx, vehicleID)
	if err != nil {
		return fmt.Errorf("unknown vehicle: %w", err)
	}

	recordedAt := time.Now()
	if reading.RecordedAt != nil {
		recordedAt = *reading.RecordedAt
	}

	objectID, err := primitive.ObjectIDFromHex(vehicleID)
	if err != nil {
		return fmt.Errorf("invalid vehicle ID: %w", err)
	}

	snapshot := models.MileageSnapshot{
		ID:         primitive.NewObjectID(),
		VehicleID:  objectID,
		Mileage:    reading.Mileage,
		RecordedAt: recordedAt,
		Source:     models.SnapshotSourceTelemetry,
	}
	if err := s.snapshots.InsertSnapshot(ctx, snapshot); err != nil {
		return err
	}

	if reading.Mileage <= vehicle.CurrentMileage {
		return nil
	}

	snapshots, err := s.snapshots.FindSnapshotsByVehicle(ctx, vehicleID)
	if err != nil {
		return err
	}
	pace := engine.EstimatePace(snapshots)

	return s.vehicles.UpdateVehicleMileage(ctx, vehicleID, reading.Mileage, pace)
}

// VehicleIDFromTopic extracts the vehicle ID segment from an odometer topic.
func VehicleIDFromTopic(topic string) (string, error) {
	parts := strings.Split(topic, "/")
	if len(parts) != 3 || parts[0] != "vehicles" || parts[2] != "odometer" || parts[1] == "" {
		return "", fmt.Errorf("unexpected topic %q", topic)
	}
	return parts[1], nil
}
