package factory

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/mcoot/taflgame/internal/dependencies/clock"
	"github.com/mcoot/taflgame/internal/dependencies/random"
	"github.com/mcoot/taflgame/internal/engine"
	"github.com/mcoot/taflgame/internal/engine/tafl"
	"github.com/mcoot/taflgame/internal/services/credential"
	"github.com/mcoot/taflgame/internal/services/game"
	"github.com/mcoot/taflgame/internal/services/session"
	"github.com/mcoot/taflgame/internal/storage"
	"github.com/mcoot/taflgame/internal/storage/memory"
	redisstorage "github.com/mcoot/taflgame/internal/storage/redis"
	"github.com/mcoot/taflgame/internal/storage/sqlite"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
	StorageTypeSQLite = "sqlite"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	Engine        engine.Engine
	Sessions      *session.Manager
	Coordinator   *game.Coordinator
	CreateLimiter *rate.Limiter
}

// Config holds configuration for the application factory
type Config struct {
	// SecretHash is the stored hash of the game secret (required)
	SecretHash string
	// Variant names the rule set from the embedded catalogue
	// If empty, defaults to fetlar
	Variant string
	// HintDepth is the search depth for hints (1 or 2)
	HintDepth int
	// HintTimeout bounds a single hint search
	HintTimeout time.Duration
	// SessionTTL is how long a token lives; zero never expires
	SessionTTL time.Duration
	// CreateRate and CreateBurst throttle game creation; zero rate disables it
	CreateRate  float64
	CreateBurst int
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis" or "sqlite")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// SQLitePath is the database file (required if StorageType is "sqlite")
	SQLitePath string
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	verifier, err := credential.NewVerifier(cfg.SecretHash)
	if err != nil {
		return nil, fmt.Errorf("secret hash: %w", err)
	}

	variantName := cfg.Variant
	if variantName == "" {
		variantName = game.DefaultConfig().Variant
	}
	variant, err := tafl.LookupVariant(variantName)
	if err != nil {
		return nil, err
	}

	store, err := newStorage(cfg)
	if err != nil {
		return nil, err
	}

	eng := tafl.New(variant, tafl.WithSearchDepth(cfg.HintDepth))

	gameCfg := game.Config{Variant: variant.Name, HintTimeout: cfg.HintTimeout}
	sessionCfg := session.Config{TTL: cfg.SessionTTL}

	app := newWithDependencies(store, eng, clock.New(), random.New(), verifier, sessionCfg, gameCfg, logger)
	if cfg.CreateRate > 0 {
		app.CreateLimiter = rate.NewLimiter(rate.Limit(cfg.CreateRate), cfg.CreateBurst)
	}
	return app, nil
}

func newStorage(cfg Config) (storage.Storage, error) {
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		return memory.New(), nil
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		return redisStore, nil
	case StorageTypeSQLite:
		if cfg.SQLitePath == "" {
			return nil, errors.New("SQLitePath required when StorageType is sqlite")
		}
		sqliteStore, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return sqliteStore, nil
	default:
		return nil, errors.New("invalid StorageType: must be 'memory', 'redis' or 'sqlite'")
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	eng engine.Engine,
	clk clock.Clock,
	rnd random.Random,
	verifier session.Verifier,
	sessionCfg session.Config,
	gameCfg game.Config,
	logger *slog.Logger,
) *App {
	sessions := session.New(verifier, clk, rnd, sessionCfg)
	coordinator := game.NewCoordinator(eng, sessions, store, clk, logger, gameCfg)

	return &App{
		Storage:     store,
		Clock:       clk,
		Random:      rnd,
		Engine:      eng,
		Sessions:    sessions,
		Coordinator: coordinator,
	}
}

// Close releases storage connections
func (a *App) Close() error {
	if closer, ok := a.Storage.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
