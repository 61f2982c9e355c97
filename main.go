package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/smartfactory/sensorstats/core/server"
	"github.com/smartfactory/sensorstats/internal/dataset"
)

func main() {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	sourceType := os.Getenv("DATASET_SOURCE") // csv, mongodb
	if sourceType == "" {
		sourceType = "csv"
	}

	options := []server.ConfigOption{
		server.WithPort(getEnv("PORT", "8080")),
	}

	switch sourceType {
	case "csv":
		options = append(options, server.WithCSVDataset(getEnv("DATASET_CSV", "sensor-readings.csv")))
	case "mongodb":
		client, err := dataset.NewMongoConnection(getEnv("MONGO_URI", "mongodb://localhost:27017"))
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		options = append(options, server.WithMongoDataset(
			client,
			getEnv("MONGO_DB", "sensor_db"),
			getEnv("MONGO_COLLECTION", "sensor_readings"),
		))
	default:
		log.Fatalf("Unknown DATASET_SOURCE %q", sourceType)
	}

	if interval := getEnvDuration("RELOAD_INTERVAL", 0); interval > 0 {
		options = append(options, server.WithReloadInterval(interval))
	}
	if os.Getenv("REFRESH_ON_QUERY") == "true" {
		options = append(options, server.WithRefreshOnQuery())
	}

	srv, err := server.NewServer(options...)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("Shutdown signal received...")
		cancel()
	}()

	if err := srv.Start(ctx); err != nil {
		log.Fatalf("Server error: %v", err)
	}

	srv.Close()
	log.Println("Server shutdown complete")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
