// Package app wires configuration into a ready inventory store and
// checkout publisher. Both binaries start through it.
package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/andreasstove999/grocery-service-go/internal/config"
	"github.com/andreasstove999/grocery-service-go/internal/db"
	"github.com/andreasstove999/grocery-service-go/internal/events"
	"github.com/andreasstove999/grocery-service-go/internal/inventory"
)

// DefaultProducts is the starter catalog for an empty inventory.
var DefaultProducts = []inventory.Product{
	{Name: "Rice", Price: decimal.NewFromInt(55), Stock: decimal.NewFromInt(30)},
	{Name: "Sugar", Price: decimal.NewFromInt(42), Stock: decimal.NewFromInt(20)},
	{Name: "Milk", Price: decimal.NewFromInt(30), Stock: decimal.NewFromInt(25)},
	{Name: "Oil", Price: decimal.NewFromInt(125), Stock: decimal.NewFromInt(12)},
}

// OpenRepository opens the configured storage backend. The returned close
// func is never nil.
func OpenRepository(ctx context.Context, cfg config.Config, logger zerolog.Logger) (inventory.Repository, func(), error) {
	noop := func() {}

	switch cfg.StorageBackend {
	case config.BackendMemory:
		return inventory.NewMemoryRepository(), noop, nil

	case config.BackendFile, "":
		return inventory.NewFileRepository(cfg.InventoryFile), noop, nil

	case config.BackendSQLite:
		sqlDB, err := db.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, noop, err
		}
		if cfg.RunMigrations {
			if err := db.RunSQLiteMigrations(sqlDB, logger); err != nil {
				_ = sqlDB.Close()
				return nil, noop, fmt.Errorf("sqlite migrations: %w", err)
			}
		}
		return inventory.NewSQLiteRepository(sqlDB), func() { _ = sqlDB.Close() }, nil

	case config.BackendPostgres:
		if cfg.RunMigrations {
			if err := db.RunMigrations(cfg.DatabaseDSN, logger); err != nil {
				return nil, noop, fmt.Errorf("postgres migrations: %w", err)
			}
		}
		pool, err := db.NewPool(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, noop, fmt.Errorf("connect postgres: %w", err)
		}
		return inventory.NewPostgresRepository(pool), pool.Close, nil

	default:
		return nil, noop, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

// NewInventory opens storage, loads the catalog and seeds it when empty.
func NewInventory(ctx context.Context, cfg config.Config, logger zerolog.Logger) (*inventory.Store, func(), error) {
	repo, closeRepo, err := OpenRepository(ctx, cfg, logger)
	if err != nil {
		return nil, closeRepo, err
	}

	store := inventory.NewStore(repo, logger)
	if err := store.Load(ctx); err != nil {
		closeRepo()
		return nil, func() {}, err
	}

	if cfg.SeedOnStart {
		if err := Seed(ctx, store, logger); err != nil {
			closeRepo()
			return nil, func() {}, err
		}
	}

	logger.Info().
		Str("backend", cfg.StorageBackend).
		Int("products", store.Len()).
		Msg("inventory ready")
	return store, closeRepo, nil
}

// Seed adds DefaultProducts, but only to an empty store.
func Seed(ctx context.Context, store *inventory.Store, logger zerolog.Logger) error {
	if store.Len() > 0 {
		return nil
	}
	for _, p := range DefaultProducts {
		msg, err := store.AddOrUpdate(ctx, p.Name, p.Price, p.Stock)
		if err != nil {
			return fmt.Errorf("seed %s: %w", p.Name, err)
		}
		logger.Debug().Msg(msg)
	}
	logger.Info().Int("products", len(DefaultProducts)).Msg("seeded default inventory")
	return nil
}

// NewPublisher connects to RabbitMQ when a URL is configured and falls back
// to a no-op publisher otherwise.
func NewPublisher(cfg config.Config, logger zerolog.Logger) (events.CheckoutPublisher, func(), error) {
	if cfg.RabbitMQURL == "" {
		logger.Info().Msg("RABBITMQ_URL not set, checkout events disabled")
		return events.NopPublisher{Logger: logger}, func() {}, nil
	}

	conn, err := events.Dial(cfg.RabbitMQURL)
	if err != nil {
		return nil, func() {}, fmt.Errorf("connect rabbitmq: %w", err)
	}
	pub, err := events.NewPublisher(conn, events.PublisherOptions{})
	if err != nil {
		_ = conn.Close()
		return nil, func() {}, err
	}

	closeFn := func() {
		if err := pub.Close(); err != nil {
			logger.Warn().Err(err).Msg("publisher close error")
		}
		if err := conn.Close(); err != nil {
			logger.Warn().Err(err).Msg("rabbitmq close error")
		}
	}
	return pub, closeFn, nil
}
