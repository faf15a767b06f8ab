package main

import (
	"net/http"
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/drivewell/maintenance-tracker/internal/auth"
	"github.com/drivewell/maintenance-tracker/internal/db"
	"github.com/drivewell/maintenance-tracker/internal/handlers"
	"github.com/drivewell/maintenance-tracker/internal/ingest"
	"github.com/drivewell/maintenance-tracker/internal/middleware"
)

// envOr returns the value of an environment variable or a fallback.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	client, err := db.ConnectMongo()
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	database := client.Database(envOr("MONGO_DB", "maintenance_tracker"))

	vehicles := &db.MongoVehicleCollection{Collection: database.Collection("vehicles")}
	services := &db.MongoServiceCollection{Collection: database.Collection("services")}
	snapshots := &db.MongoSnapshotCollection{Collection: database.Collection("mileage_snapshots")}
	users := &db.MongoUserCollection{Collection: database.Collection("users")}

	authService, err := auth.NewService()
	if err != nil {
		log.WithError(err).Fatal("Failed to create auth service")
	}

	authHandler := handlers.NewAuthHandler(authService, users)
	vehicleHandler := handlers.NewVehicleHandler(vehicles, services, snapshots)
	serviceHandler := handlers.NewServiceHandler(services, vehicles, snapshots)
	scheduleHandler := handlers.NewScheduleHandler(vehicles, services, snapshots)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("GET /api/auth/profile", authHandler.GetProfile)

	mux.HandleFunc("POST /api/vehicles", vehicleHandler.Create)
	mux.HandleFunc("GET /api/vehicles", vehicleHandler.List)
	mux.HandleFunc("GET /api/vehicles/{id}", vehicleHandler.Get)
	mux.HandleFunc("PUT /api/vehicles/{id}", vehicleHandler.Update)
	mux.HandleFunc("DELETE /api/vehicles/{id}", vehicleHandler.Delete)
	mux.HandleFunc("POST /api/vehicles/{id}/mileage", vehicleHandler.UpdateMileage)

	mux.HandleFunc("POST /api/services", serviceHandler.Create)
	mux.HandleFunc("GET /api/vehicles/{id}/services", serviceHandler.ListByVehicle)
	mux.HandleFunc("PUT /api/services/{id}", serviceHandler.Update)
	mux.HandleFunc("DELETE /api/services/{id}", serviceHandler.Delete)
	mux.HandleFunc("POST /api/services/{id}/complete", serviceHandler.Complete)

	mux.HandleFunc("GET /api/vehicles/{id}/schedule", scheduleHandler.Get)

	authMiddleware := middleware.NewAuthMiddleware(authService)
	rateLimiter := middleware.NewRateLimitMiddleware()
	handler := rateLimiter.RateLimit(120, 60)(authMiddleware.Authenticate(mux))

	// Optional MQTT odometer ingest.
	if broker := os.Getenv("MQTT_BROKER"); broker != "" {
		subscriber, err := ingest.NewSubscriber(broker, envOr("MQTT_CLIENT_ID", "maintenance-tracker"), vehicles, snapshots)
		if err != nil {
			log.WithError(err).Fatal("Failed to connect to MQTT broker")
		}
		if err := subscriber.Start(); err != nil {
			log.WithError(err).Fatal("Failed to subscribe to odometer topic")
		}
		defer subscriber.Stop()
	}

	port := envOr("PORT", "8080")
	log.WithField("port", port).Info("HTTP server listening")
	log.Fatal(http.ListenAndServe(":"+port, handler))
}
