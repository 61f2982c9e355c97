package server

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/smartfactory/sensorstats/internal/dataset"
)

type ServerConfig struct {
	Source         dataset.Source
	Port           string
	ReloadInterval time.Duration
	RefreshOnQuery bool
}

type ConfigOption func(*ServerConfig) error

func WithCSVDataset(path string) ConfigOption {
	return func(config *ServerConfig) error {
		config.Source = dataset.NewCSVSource(path)
		return nil
	}
}

func WithMongoDataset(client *mongo.Client, database, collection string) ConfigOption {
	return func(config *ServerConfig) error {
		source, err := dataset.NewMongoSource(client, database, collection)
		if err != nil {
			return err
		}
		config.Source = source
		return nil
	}
}

// WithReloadInterval enables the background freshness watcher.
func WithReloadInterval(interval time.Duration) ConfigOption {
	return func(config *ServerConfig) error {
		config.ReloadInterval = interval
		return nil
	}
}

// WithRefreshOnQuery runs the freshness check on every stats request
// instead of in the background.
func WithRefreshOnQuery() ConfigOption {
	return func(config *ServerConfig) error {
		config.RefreshOnQuery = true
		return nil
	}
}

func WithPort(port string) ConfigOption {
	return func(config *ServerConfig) error {
		config.Port = port
		return nil
	}
}
