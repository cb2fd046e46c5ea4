// Package config holds the service configuration, populated from the
// environment.
package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	BindAddr        string        `envconfig:"BIND_ADDR"        default:"localhost:8093"`
	StoreURL        string        `envconfig:"STORE_URL"        default:"sqlite://pindata.db"`
	BlobStoreURL    string        `envconfig:"BLOB_STORE_URL"   default:"file://./blobs"`
	LogLevel        string        `envconfig:"LOG_LEVEL"        default:"info"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	BodyLimit       int           `envconfig:"BODY_LIMIT_BYTES" default:"268435456"`
	Version         string        `envconfig:"-"`
}

// Get reads the configuration from the environment.
func Get() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process("PINDATA", cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c Config) String() string {
	return "{BindAddr:" + c.BindAddr + " StoreURL:" + c.StoreURL + " BlobStoreURL:" + c.BlobStoreURL + "}"
}
