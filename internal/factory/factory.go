package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/playtrackhq/playtrack/internal/dependencies/clock"
	"github.com/playtrackhq/playtrack/internal/dispatch"
	"github.com/playtrackhq/playtrack/internal/services/award"
	"github.com/playtrackhq/playtrack/internal/services/identity"
	"github.com/playtrackhq/playtrack/internal/services/progress"
	"github.com/playtrackhq/playtrack/internal/services/session"
	"github.com/playtrackhq/playtrack/internal/services/unlocks"
	"github.com/playtrackhq/playtrack/internal/storage"
	"github.com/playtrackhq/playtrack/internal/storage/memory"
	redisstorage "github.com/playtrackhq/playtrack/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock clock.Clock
	Sink  dispatch.Sink

	// Services
	IdentityService *identity.Service
	ProgressService *progress.Service
	SessionTracker  *session.Tracker
	UnlockService   *unlocks.Service
	AwardService    *award.Service
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	clk := clock.New()
	sink := dispatch.NewLogSink(logger)

	return newWithDependencies(store, clk, sink, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, sink dispatch.Sink, logger *slog.Logger) *App {
	identityService := identity.New(store, clk, logger)
	progressService := progress.New(store, clk, logger)
	sessionTracker := session.NewTracker(store, clk, logger)
	unlockService := unlocks.New(store, logger)
	awardService := award.NewService(store, clk, sink, logger)

	return &App{
		Storage:         store,
		Clock:           clk,
		Sink:            sink,
		IdentityService: identityService,
		ProgressService: progressService,
		SessionTracker:  sessionTracker,
		UnlockService:   unlockService,
		AwardService:    awardService,
	}
}
