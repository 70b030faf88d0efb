// Package config loads server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

// Storage backends
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
	StorageSQLite = "sqlite"
)

// Config is the server configuration
type Config struct {
	Host     string     `env:"TAFL_HOST"`
	Port     int        `env:"TAFL_PORT"      envDefault:"8080"`
	LogLevel slog.Level `env:"TAFL_LOG_LEVEL" envDefault:"info"`

	// SecretHash is the bcrypt, pbkdf2-sha256 or sha256-crypt hash of the game secret
	SecretHash string        `env:"TAFL_SECRET_HASH,required,notEmpty"`
	SessionTTL time.Duration `env:"TAFL_SESSION_TTL" envDefault:"24h"`

	Variant     string        `env:"TAFL_VARIANT"      envDefault:"fetlar"`
	HintTimeout time.Duration `env:"TAFL_HINT_TIMEOUT" envDefault:"2s"`
	HintDepth   int           `env:"TAFL_HINT_DEPTH"   envDefault:"1"`

	Storage    string        `env:"TAFL_STORAGE"     envDefault:"memory"`
	RedisURL   string        `env:"TAFL_REDIS_URL"`
	SQLitePath string        `env:"TAFL_SQLITE_PATH" envDefault:"tafl.db"`
	HistoryTTL time.Duration `env:"TAFL_HISTORY_TTL" envDefault:"24h"`

	// CreateRate is game creations allowed per second; zero disables the limit
	CreateRate  float64 `env:"TAFL_CREATE_RATE"  envDefault:"1"`
	CreateBurst int     `env:"TAFL_CREATE_BURST" envDefault:"5"`
}

// Load parses the process environment
func Load() (Config, error) {
	return parse(env.Options{})
}

// LoadFrom parses the given variables instead of the process environment
func LoadFrom(vars map[string]string) (Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](opts)
	if err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values the struct tags cannot express
func (c Config) Validate() error {
	var errs []error
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("TAFL_PORT must be 1-65535, got %d", c.Port))
	}
	if c.SessionTTL < 0 {
		errs = append(errs, errors.New("TAFL_SESSION_TTL must not be negative"))
	}
	if c.HintTimeout <= 0 {
		errs = append(errs, errors.New("TAFL_HINT_TIMEOUT must be positive"))
	}
	if c.HintDepth < 1 || c.HintDepth > 2 {
		errs = append(errs, fmt.Errorf("TAFL_HINT_DEPTH must be 1 or 2, got %d", c.HintDepth))
	}
	switch c.Storage {
	case StorageMemory, StorageSQLite:
	case StorageRedis:
		if c.RedisURL == "" {
			errs = append(errs, errors.New("TAFL_REDIS_URL is required when TAFL_STORAGE=redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("TAFL_STORAGE must be memory, redis or sqlite, got %q", c.Storage))
	}
	if c.CreateRate < 0 {
		errs = append(errs, errors.New("TAFL_CREATE_RATE must not be negative"))
	}
	if c.CreateRate > 0 && c.CreateBurst < 1 {
		errs = append(errs, errors.New("TAFL_CREATE_BURST must be at least 1"))
	}
	return errors.Join(errs...)
}
