package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"backoffice/internal/config"
	httpapi "backoffice/internal/http"
	"backoffice/internal/repository"
)

// stores groups the repositories of the selected backend.
type stores struct {
	products  repository.ProductRepository
	inventory repository.InventoryRepository
	orders    repository.OrderRepository
	pinger    httpapi.Pinger
	close     func()
}

func openStore(cfg config.Config) (stores, error) {
	switch cfg.StoreDriver {
	case config.StoreMemory:
		mem := repository.NewMemoryStore()
		log.Info().Msg("Using in-memory store")
		return stores{products: mem, inventory: mem.Inventory(), orders: mem.Orders(), close: func() {}}, nil
	case config.StorePostgres:
		return openSQL(cfg, repository.SQLOptions{Driver: repository.DriverPostgres, DSN: cfg.DatabaseURL})
	case config.StoreSQLite:
		return openSQL(cfg, repository.SQLOptions{Driver: repository.DriverSQLite, DSN: repository.SQLiteDSN(cfg.SQLitePath)})
	default:
		return stores{}, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func openSQL(cfg config.Config, opts repository.SQLOptions) (stores, error) {
	opts.MaxOpenConns = cfg.DBMaxOpenConns
	opts.MaxIdleConns = cfg.DBMaxIdleConns
	opts.ConnMaxLifetime = cfg.DBConnMaxLifetime
	db, err := repository.Connect(opts)
	if err != nil {
		return stores{}, err
	}

	sqlStore := repository.NewSQLStore(db)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := sqlStore.Migrate(ctx); err != nil {
		_ = sqlStore.Close()
		return stores{}, err
	}

	return stores{
		products:  sqlStore.Products(),
		inventory: sqlStore.Inventory(),
		orders:    sqlStore.Orders(),
		pinger:    sqlStore,
		close: func() {
			if err := sqlStore.Close(); err != nil {
				log.Error().Err(err).Msg("Error closing database")
			}
		},
	}, nil
}
