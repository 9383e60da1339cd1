package app

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Storage backend names.
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

// Config holds runtime configuration for the application.
type Config struct {
	AppEnv            string        `envconfig:"APP_ENV" default:"development"`
	AppAddr           string        `envconfig:"APP_ADDR" default:":8080"`
	AppReadTimeout    time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	AppWriteTimeout   time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"15s"`
	AppRequestTimeout time.Duration `envconfig:"APP_REQUEST_TIMEOUT" default:"30s"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	// StorageBackend selects where the snapshot blob lives: file, redis or
	// sqlite.
	StorageBackend string `envconfig:"STORAGE_BACKEND" default:"file"`
	StoragePath    string `envconfig:"STORAGE_PATH" default:"data/paytracker.json"`
	SQLitePath     string `envconfig:"SQLITE_PATH" default:"data/paytracker.db"`
	RedisAddr      string `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	StorageKey     string `envconfig:"STORAGE_KEY" default:"paytracker:db"`

	// RestrictClientDelete refuses client deletion while payments exist
	// instead of cascading.
	RestrictClientDelete bool `envconfig:"RESTRICT_CLIENT_DELETE" default:"false"`
	SeedDemoData         bool `envconfig:"SEED_DEMO_DATA" default:"false"`

	RateLimitPerMinute int `envconfig:"RATE_LIMIT_PER_MINUTE" default:"300"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	switch cfg.StorageBackend {
	case BackendFile, BackendRedis, BackendSQLite:
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
	return &cfg, nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}
