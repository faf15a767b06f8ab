package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
)

// OdometerReading is the payload published for each simulated update.
type OdometerReading struct {
	Mileage    int       `json:"mileage"`
	RecordedAt time.Time `json:"recorded_at"`
}

// VehicleState tracks one simulated vehicle between ticks.
type VehicleState struct {
	VehicleID    string
	Mileage      int
	DailyMiles   float64 // average driving pace this vehicle drifts around
	TickInterval time.Duration
}

// stepMileage advances the odometer by one tick's worth of driving with some
// noise. The odometer never decreases.
func stepMileage(s *VehicleState) int {
	days := s.TickInterval.Hours() / 24
	expected := s.DailyMiles * days
	noise := (rand.Float64()*2 - 1) * expected * 0.3
	delta := int(expected + noise)
	if delta < 0 {
		delta = 0
	}
	s.Mileage += delta
	return s.Mileage
}

func odometerTopic(vehicleID string) string {
	return fmt.Sprintf("vehicles/%s/odometer", vehicleID)
}

func publishReading(client mqtt.Client, s *VehicleState) {
	reading := OdometerReading{
		Mileage:    stepMileage(s),
		RecordedAt: time.Now(),
	}
	data, err := json.Marshal(reading)
	if err != nil {
		log.WithError(err).Error("Failed to marshal odometer reading")
		return
	}

	token := client.Publish(odometerTopic(s.VehicleID), 1, false, data)
	token.Wait()
	if token.Error() != nil {
		log.WithError(token.Error()).WithField("vehicle_id", s.VehicleID).Error("Failed to publish odometer reading")
		return
	}
	log.WithFields(log.Fields{
		"vehicle_id": s.VehicleID,
		"mileage":    reading.Mileage,
	}).Info("Published odometer reading")
}

func simulateVehicle(client mqtt.Client, s *VehicleState) {
	tick := time.NewTicker(s.TickInterval)
	defer tick.Stop()
	for range tick.C {
		publishReading(client, s)
	}
}

func main() {
	broker := os.Getenv("MQTT_BROKER")
	if broker == "" {
		broker = "tcp://localhost:1883"
	}

	vehicleIDs := strings.Split(os.Getenv("VEHICLE_IDS"), ",")
	if len(vehicleIDs) == 1 && vehicleIDs[0] == "" {
		log.Fatal("VEHICLE_IDS must list at least one vehicle ID")
	}

	interval := 30 * time.Second
	if v := os.Getenv("SIM_TICK_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			interval = time.Duration(n) * time.Second
		}
	}

	startMileage := 30000
	if v := os.Getenv("SIM_START_MILEAGE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			startMileage = n
		}
	}

	log.WithFields(log.Fields{
		"broker":   broker,
		"vehicles": len(vehicleIDs),
		"interval": interval,
	}).Info("Starting odometer simulation")

	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID("odometer-simulator").
		SetAutoReconnect(true)
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.WithError(token.Error()).Fatal("Failed to connect to MQTT broker")
	}

	for _, id := range vehicleIDs {
		state := &VehicleState{
			VehicleID:    strings.TrimSpace(id),
			Mileage:      startMileage + rand.Intn(20000),
			DailyMiles:   15 + rand.Float64()*40,
			TickInterval: interval,
		}
		go simulateVehicle(client, state)
	}

	log.Info("Odometer simulation started")
	select {} // Block forever
}
