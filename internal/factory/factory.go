package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/mcoot/betsim/internal/dependencies/clock"
	"github.com/mcoot/betsim/internal/dependencies/random"
	"github.com/mcoot/betsim/internal/services/games"
	"github.com/mcoot/betsim/internal/services/history"
	"github.com/mcoot/betsim/internal/services/ledger"
	"github.com/mcoot/betsim/internal/services/queue"
	"github.com/mcoot/betsim/internal/services/report"
	"github.com/mcoot/betsim/internal/storage"
	"github.com/mcoot/betsim/internal/storage/file"
	"github.com/mcoot/betsim/internal/storage/memory"
	redisstorage "github.com/mcoot/betsim/internal/storage/redis"
	"github.com/mcoot/betsim/internal/storage/sqlite"
)

// Storage type constants
const (
	StorageTypeFile   = "file"
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
	StorageTypeSQLite = "sqlite"
)

// StorageTypes lists every supported backend
var StorageTypes = []string{StorageTypeFile, StorageTypeMemory, StorageTypeRedis, StorageTypeSQLite}

// DefaultDataDir is used by the file backend when no directory is configured
const DefaultDataDir = "data"

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	Ledger  *ledger.Service
	History *history.Service
	Queue   *queue.Service
	Slot    *games.Slot
	Guess   *games.Guess
	Reports *report.Service

	closer io.Closer
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend
	// If empty, defaults to "file"
	StorageType string
	// Fs is the filesystem for the file backend and report export (optional)
	// If nil, the OS filesystem is used
	Fs afero.Fs
	// DataDir holds the file backend's documents
	// If empty, defaults to DefaultDataDir
	DataDir string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// SQLitePath is the database file for the sqlite backend
	// If empty, defaults to <DataDir>/betsim.db
	SQLitePath string
	// ReportsDir receives exported reports
	// If empty, defaults to <DataDir>/reports
	ReportsDir string
}

// New creates a new application with all dependencies wired
func New(ctx context.Context, cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	fsys := cfg.Fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = DefaultDataDir
	}
	reportsDir := cfg.ReportsDir
	if reportsDir == "" {
		reportsDir = filepath.Join(dataDir, "reports")
	}

	// Create storage based on type
	var store storage.Storage
	var closer io.Closer
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeFile
	}

	switch storageType {
	case StorageTypeFile:
		store = file.New(fsys, dataDir, logger)
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
		store, closer = redisStore, redisStore
	case StorageTypeSQLite:
		path := cfg.SQLitePath
		if path == "" {
			path = filepath.Join(dataDir, "betsim.db")
		}
		sqliteStore, err := sqlite.Open(ctx, path)
		if err != nil {
			return nil, err
		}
		store, closer = sqliteStore, sqliteStore
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be one of %v", storageType, StorageTypes)
	}

	logger.Debug("storage ready", slog.String("storage", storageType))

	app := newWithDependencies(store, clock.New(), random.New(), fsys, reportsDir, logger)
	app.closer = closer
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	fsys afero.Fs,
	reportsDir string,
	logger *slog.Logger,
) *App {
	// Create services
	ledgerService := ledger.New(store, clk, rnd, logger)
	historyService := history.New(store, logger)
	queueService := queue.New(store, logger)
	slot := games.NewSlot(ledgerService, historyService, rnd, logger)
	guess := games.NewGuess(ledgerService, historyService, rnd, logger)
	reports := report.New(ledgerService, fsys, reportsDir, logger)

	return &App{
		Storage: store,
		Clock:   clk,
		Random:  rnd,
		Ledger:  ledgerService,
		History: historyService,
		Queue:   queueService,
		Slot:    slot,
		Guess:   guess,
		Reports: reports,
	}
}

// Close releases the storage backend's connections, if it holds any
func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}
