// Package config loads the server configuration from a YAML file
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Server holds the HTTP server settings
type Server struct {
	Port            int      `yaml:"port" validate:"gt=0,lte=65535"`
	AllowedOrigins  []string `yaml:"allowedOrigins"`
	CacheSize       int      `yaml:"cacheSize" validate:"gte=0"`
	CacheTTLSeconds int      `yaml:"cacheTTLSeconds" validate:"gte=0"`
}

// Dataset holds the record file locations and build policy
type Dataset struct {
	StationsFile          string `yaml:"stationsFile" validate:"required"`
	ConnectionsFile       string `yaml:"connectionsFile" validate:"required"`
	SpeedProfile          string `yaml:"speedProfile" validate:"omitempty,oneof=flat linetype"`
	ReloadIntervalSeconds int    `yaml:"reloadIntervalSeconds" validate:"gte=0"`
}

// Config is the root configuration structure
type Config struct {
	Server  Server  `yaml:"server"`
	Dataset Dataset `yaml:"dataset"`
}

// Default returns the configuration used when no file is given
func Default() Config {
	return Config{
		Server: Server{
			Port:            8080,
			CacheSize:       1024,
			CacheTTLSeconds: 300,
		},
		Dataset: Dataset{
			StationsFile:    "data/stations.json",
			ConnectionsFile: "data/connections.json",
			SpeedProfile:    "flat",
		},
	}
}

// Load reads and validates a configuration file, filling unset fields
// from the defaults
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
	}

	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}
