package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/wms/internal/domain"
	"github.com/vladislavdragonenkov/wms/internal/health"
	"github.com/vladislavdragonenkov/wms/internal/storage/memory"
	"github.com/vladislavdragonenkov/wms/internal/storage/postgres"
)

// storageSet — собранный набор портов хранилища одного драйвера.
type storageSet struct {
	uow       domain.UnitOfWork
	reader    domain.OrderReader
	catalog   domain.InventoryRepository
	customers domain.CustomerRepository
	pinger    health.Pinger
	close     func() error
}

// initStorage собирает хранилище по выбранному драйверу.
func initStorage(ctx context.Context, cfg Config, logger *log.Entry) (*storageSet, error) {
	switch cfg.StorageDriver {
	case StorageMemory:
		store := memory.NewStore()
		logger.Info("using in-memory storage")
		return &storageSet{
			uow:       store,
			reader:    store,
			catalog:   store.Catalog(),
			customers: store.Customers(),
			close:     func() error { return nil },
		}, nil

	case StoragePostgres:
		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres storage: %w", err)
		}
		if cfg.PostgresAutoMigrate {
			if err := store.EnsureSchema(ctx); err != nil {
				_ = store.Close()
				return nil, fmt.Errorf("apply migrations: %w", err)
			}
			version, count, err := store.MigrationStatus(ctx)
			if err == nil {
				logger.WithFields(log.Fields{
					"version": version,
					"applied": count,
				}).Info("postgres schema is up to date")
			}
		}
		logger.Info("using postgres storage")
		return &storageSet{
			uow:       store,
			reader:    store,
			catalog:   store.Catalog(),
			customers: store.Customers(),
			pinger:    store,
			close:     store.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
