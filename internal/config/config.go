// Package config loads and validates the scheduler's runtime configuration.
// Environment variables win over an optional YAML file named by CONFIG_FILE.
package config

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // TIMEZONE must resolve in minimal images

	"github.com/spf13/viper"
)

// Storage drivers accepted by STORAGE_DRIVER.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config holds all configuration values for the API server.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// StorageDriver selects the trip store: "postgres" (default) or "memory".
	StorageDriver string

	// DatabaseURL is the Postgres connection string. Required unless
	// StorageDriver is "memory".
	DatabaseURL string

	// RedisURL, when set, moves the per-date trip id counters into Redis.
	RedisURL string

	// LogLevel controls the minimum log level: debug, info, warn or error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to the Vite dev server.
	CORSOrigins []string

	// TripIDPrefix is the leading segment of allocated trip ids.
	TripIDPrefix string

	// Location is the zone "today" and "this week" are computed in.
	Location *time.Location

	// MigrateOnStart applies pending goose migrations before serving.
	MigrateOnStart bool

	// MaxBodyBytes caps request bodies.
	MaxBodyBytes int64
}

// Load reads configuration and returns a Config. It returns an error listing
// any required keys that are missing, or the first invalid value.
func Load() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("port", "8080")
	v.SetDefault("storage_driver", StoragePostgres)
	v.SetDefault("log_level", "info")
	v.SetDefault("cors_origins", "http://localhost:5173")
	v.SetDefault("trip_id_prefix", "TRIP")
	v.SetDefault("timezone", "UTC")
	v.SetDefault("migrate_on_start", true)
	v.SetDefault("max_body_bytes", 1<<20)

	if path := v.GetString("config_file"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	cfg := Config{
		Port:           v.GetString("port"),
		StorageDriver:  strings.ToLower(v.GetString("storage_driver")),
		DatabaseURL:    v.GetString("database_url"),
		RedisURL:       v.GetString("redis_url"),
		LogLevel:       v.GetString("log_level"),
		CORSOrigins:    splitCSV(v.GetString("cors_origins")),
		TripIDPrefix:   strings.TrimSpace(v.GetString("trip_id_prefix")),
		MigrateOnStart: v.GetBool("migrate_on_start"),
		MaxBodyBytes:   v.GetInt64("max_body_bytes"),
	}

	var missing []string
	if cfg.StorageDriver == StoragePostgres && cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	switch cfg.StorageDriver {
	case StoragePostgres, StorageMemory:
	default:
		return Config{}, fmt.Errorf("STORAGE_DRIVER %q: want %s or %s", cfg.StorageDriver, StoragePostgres, StorageMemory)
	}
	if cfg.TripIDPrefix == "" {
		return Config{}, fmt.Errorf("TRIP_ID_PREFIX must not be blank")
	}
	if cfg.MaxBodyBytes <= 0 {
		return Config{}, fmt.Errorf("MAX_BODY_BYTES must be positive, got %d", cfg.MaxBodyBytes)
	}

	loc, err := time.LoadLocation(v.GetString("timezone"))
	if err != nil {
		return Config{}, fmt.Errorf("TIMEZONE: %w", err)
	}
	cfg.Location = loc

	return cfg, nil
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
