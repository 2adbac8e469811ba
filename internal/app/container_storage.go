package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/dig"

	"service-bidding/internal/config"
	"service-bidding/internal/logx"
	"service-bidding/internal/ports/bidtx"
	"service-bidding/internal/repository"
	"service-bidding/internal/repository/memory"
)

// closeStore releases the storage backend.
type closeStore func()

const (
	dbConnectRetries = 10
	dbConnectDelay   = time.Second
)

func registerStorage(container *dig.Container, dbConnect dbConnectFunc, migrate func(string) error) error {
	provider := func(ctx context.Context, cfg *config.Config, logger logx.Logger) (bidtx.Store, closeStore, error) {
		if cfg.Storage == config.StorageMemory {
			logger.Warn("using in-memory storage, data is lost on restart")
			return memory.NewStore(), func() {}, nil
		}

		dsn := cfg.DB.DSN()
		if cfg.DB.Migrate {
			if err := migrate(dsn); err != nil {
				return nil, nil, fmt.Errorf("migrate: %w", err)
			}
			logger.Info("db schema up to date")
		}
		pool, err := dbConnect(ctx, logger, dsn, dbConnectRetries, dbConnectDelay)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewStore(pool), pool.Close, nil
	}
	return provideAll(container, provider)
}
