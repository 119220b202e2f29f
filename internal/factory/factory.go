package factory

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mcoot/sosgame/internal/config"
	"github.com/mcoot/sosgame/internal/dependencies/clock"
	"github.com/mcoot/sosgame/internal/dependencies/random"
	"github.com/mcoot/sosgame/internal/services/board"
	"github.com/mcoot/sosgame/internal/services/match"
	"github.com/mcoot/sosgame/internal/services/registry"
	"github.com/mcoot/sosgame/internal/services/scoring"
	"github.com/mcoot/sosgame/internal/services/session"
	"github.com/mcoot/sosgame/internal/storage"
	"github.com/mcoot/sosgame/internal/storage/memory"
	redisstorage "github.com/mcoot/sosgame/internal/storage/redis"
	"github.com/mcoot/sosgame/internal/transport/ws"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage     storage.Storage
	StorageType string

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	BoardService   *board.Service
	ScoringService *scoring.Service
	MatchService   *match.Service
	Registry       *registry.Controller
	Coordinator    *session.Coordinator

	// Transport. Hub.Run must be started by the caller.
	Hub      *ws.Hub
	WSServer *ws.Server

	closers []io.Closer
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
	// WSConfig holds WebSocket settings (optional)
	// If nil, ws.DefaultConfig() is used
	WSConfig *ws.Config
}

// FromConfig builds a factory Config from loaded server configuration
func FromConfig(cfg *config.Config, logger *slog.Logger) Config {
	redisCfg := cfg.RedisConfig()
	wsCfg := cfg.WSConfig()
	return Config{
		Logger:      logger,
		StorageType: cfg.Storage.Type,
		RedisConfig: &redisCfg,
		WSConfig:    &wsCfg,
	}
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	storageType := cfg.StorageType
	if storageType == "" {
		storageType = config.StorageTypeMemory
	}

	var store storage.Storage
	var closers []io.Closer
	switch storageType {
	case config.StorageTypeMemory:
		store = memory.New()
	case config.StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
		closers = append(closers, redisStore)
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be 'memory' or 'redis'", storageType)
	}

	wsCfg := ws.DefaultConfig()
	if cfg.WSConfig != nil {
		wsCfg = *cfg.WSConfig
	}

	app := newWithDependencies(store, clock.New(), random.New(), wsCfg, logger)
	app.StorageType = storageType
	app.closers = closers
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, wsCfg ws.Config, logger *slog.Logger) *App {
	boardService := board.New()
	scoringService := scoring.New()
	matchService := match.NewService(boardService, scoringService, clk, logger)
	registryController := registry.NewController(store, matchService, rnd, logger)
	coordinator := session.NewCoordinator(registryController, clk, logger)
	hub := ws.NewHub(coordinator, clk, logger)
	wsServer := ws.NewServer(hub, wsCfg, rnd, clk, logger)

	return &App{
		Storage:        store,
		StorageType:    config.StorageTypeMemory,
		Clock:          clk,
		Random:         rnd,
		BoardService:   boardService,
		ScoringService: scoringService,
		MatchService:   matchService,
		Registry:       registryController,
		Coordinator:    coordinator,
		Hub:            hub,
		WSServer:       wsServer,
	}
}

// Close releases external resources such as the Redis connection
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
