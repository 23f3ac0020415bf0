// Package config reads process configuration from APPSTATE_* environment
// variables and builds an App from it.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Prefix is prepended to every variable name: APPSTATE_LOG_LEVEL etc.
const Prefix = "APPSTATE"

// Config holds all process configuration.
type Config struct {
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"slog"` // slog | zap | logrus

	FileDir       string `envconfig:"FILE_DIR" default:".appstate/files"`
	SecureDir     string `envconfig:"SECURE_DIR" default:".appstate/secure"`
	SecureKeyFile string `envconfig:"SECURE_KEY_FILE" default:".appstate/master.key"`

	// Preferences selects the in-process preference store: memory | bigcache | ristretto.
	Preferences string `envconfig:"PREFERENCES" default:"bigcache"`

	RedisAddr      string `envconfig:"REDIS_ADDR"` // empty => cloud tier is in-memory
	RedisNamespace string `envconfig:"REDIS_NAMESPACE" default:"appstate"`
	RedisMaxKeys   int64  `envconfig:"REDIS_MAX_KEYS" default:"1024"`

	QueueSize      int           `envconfig:"QUEUE_SIZE" default:"1024"`
	DurableTimeout time.Duration `envconfig:"DURABLE_TIMEOUT" default:"5s"`
	Synchronous    bool          `envconfig:"SYNCHRONOUS" default:"false"`
	MetricsEnabled bool          `envconfig:"METRICS" default:"false"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		LogLevel:       "info",
		LogFormat:      "slog",
		FileDir:        ".appstate/files",
		SecureDir:      ".appstate/secure",
		SecureKeyFile:  ".appstate/master.key",
		Preferences:    "bigcache",
		RedisNamespace: "appstate",
		RedisMaxKeys:   1024,
		QueueSize:      1024,
		DurableTimeout: 5 * time.Second,
	}
}
