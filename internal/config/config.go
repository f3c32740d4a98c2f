// Package config holds the application configuration. Configuration is read
// from an optional YAML file and overridden by environment variables, with
// defaults applied in code.
package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the complete application configuration
type Config struct {
	// Server configuration
	Server ServerConfig `yaml:"server" json:"server"`

	// Database configuration
	Database DatabaseConfig `yaml:"database" json:"database"`

	// Admin session configuration
	Session SessionConfig `yaml:"session" json:"session"`

	// Simulation configuration for the mock backend behaviors
	Simulation SimulationConfig `yaml:"simulation" json:"simulation"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Host       string `yaml:"host" json:"host" env:"STREAMVAULT_HOST"`
	Port       int    `yaml:"port" json:"port" env:"STREAMVAULT_PORT"`
	EnableCORS bool   `yaml:"enable_cors" json:"enable_cors" env:"STREAMVAULT_ENABLE_CORS"`
}

// DatabaseConfig selects and parameterizes the entity store backend
type DatabaseConfig struct {
	Type     string `yaml:"type" json:"type" env:"DATABASE_TYPE"`
	Path     string `yaml:"path" json:"path" env:"STREAMVAULT_DATABASE_PATH"`
	Host     string `yaml:"host" json:"host" env:"POSTGRES_HOST"`
	Port     int    `yaml:"port" json:"port" env:"POSTGRES_PORT"`
	Username string `yaml:"username" json:"username" env:"POSTGRES_USER"`
	Password string `yaml:"password" json:"password" env:"POSTGRES_PASSWORD"`
	Database string `yaml:"database" json:"database" env:"POSTGRES_DB"`
}

// SessionConfig controls the admin session lifecycle
type SessionConfig struct {
	// TTL is how long a session lives after login
	TTL time.Duration `yaml:"ttl" json:"ttl" env:"STREAMVAULT_SESSION_TTL"`
	// CheckInterval is how often expiry is evaluated
	CheckInterval time.Duration `yaml:"check_interval" json:"check_interval" env:"STREAMVAULT_SESSION_CHECK_INTERVAL"`
	// StorePath is the badger directory for the persisted session
	// reference. Empty selects the in-memory store.
	StorePath string `yaml:"store_path" json:"store_path" env:"STREAMVAULT_SESSION_STORE_PATH"`
}

// SimulationConfig parameterizes the simulated backend behaviors
type SimulationConfig struct {
	// SeedDemoData seeds the demo catalog and user roster at startup
	SeedDemoData bool `yaml:"seed_demo_data" json:"seed_demo_data" env:"STREAMVAULT_SEED_DEMO_DATA"`
	// UploadTick is the interval between simulated upload progress steps
	UploadTick time.Duration `yaml:"upload_tick" json:"upload_tick" env:"STREAMVAULT_UPLOAD_TICK"`
	// UploadErrorRate is the per-file probability of a simulated failure
	UploadErrorRate float64 `yaml:"upload_error_rate" json:"upload_error_rate" env:"STREAMVAULT_UPLOAD_ERROR_RATE"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level" env:"STREAMVAULT_LOG_LEVEL"`
}

var (
	cfg  *Config
	once sync.Mutex
)

// Default returns a configuration with all default values set
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:       "0.0.0.0",
			Port:       8080,
			EnableCORS: true,
		},
		Database: DatabaseConfig{
			Type: "sqlite",
			// In-memory by default: the catalog is a demo store and is
			// rebuilt from seed data on every start.
			Path:     "file::memory:?cache=shared",
			Host:     "localhost",
			Port:     5432,
			Username: "streamvault",
			Database: "streamvault",
		},
		Session: SessionConfig{
			TTL:           4 * time.Hour,
			CheckInterval: time.Minute,
		},
		Simulation: SimulationConfig{
			SeedDemoData:    true,
			UploadTick:      300 * time.Millisecond,
			UploadErrorRate: 0.1,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from the given YAML file (optional) and applies
// environment overrides. The result is cached for Get.
func Load(path string) error {
	once.Lock()
	defer once.Unlock()

	c := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnv(c)
	cfg = c
	return nil
}

// Get returns the loaded configuration, falling back to defaults when Load
// was never called.
func Get() *Config {
	once.Lock()
	defer once.Unlock()
	if cfg == nil {
		cfg = Default()
		applyEnv(cfg)
	}
	return cfg
}

func applyEnv(c *Config) {
	setString(&c.Server.Host, "STREAMVAULT_HOST")
	setInt(&c.Server.Port, "STREAMVAULT_PORT")
	setBool(&c.Server.EnableCORS, "STREAMVAULT_ENABLE_CORS")

	setString(&c.Database.Type, "DATABASE_TYPE")
	setString(&c.Database.Path, "STREAMVAULT_DATABASE_PATH")
	setString(&c.Database.Host, "POSTGRES_HOST")
	setInt(&c.Database.Port, "POSTGRES_PORT")
	setString(&c.Database.Username, "POSTGRES_USER")
	setString(&c.Database.Password, "POSTGRES_PASSWORD")
	setString(&c.Database.Database, "POSTGRES_DB")

	setDuration(&c.Session.TTL, "STREAMVAULT_SESSION_TTL")
	setDuration(&c.Session.CheckInterval, "STREAMVAULT_SESSION_CHECK_INTERVAL")
	setString(&c.Session.StorePath, "STREAMVAULT_SESSION_STORE_PATH")

	setBool(&c.Simulation.SeedDemoData, "STREAMVAULT_SEED_DEMO_DATA")
	setDuration(&c.Simulation.UploadTick, "STREAMVAULT_UPLOAD_TICK")
	setFloat(&c.Simulation.UploadErrorRate, "STREAMVAULT_UPLOAD_ERROR_RATE")

	setString(&c.Logging.Level, "STREAMVAULT_LOG_LEVEL")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setFloat(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
