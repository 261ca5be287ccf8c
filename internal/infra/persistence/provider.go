// Package persistence selects the storage backing the repositories.
package persistence

import (
	"context"
	"log/slog"

	"citysim/config"
	"citysim/internal/domain/constants"
	"citysim/internal/domain/lifecycle"
	"citysim/internal/domain/repository"
	"citysim/internal/errors"
	"citysim/internal/infra/persistence/memory"
	"citysim/internal/infra/persistence/postgres"

	"go.uber.org/fx"
)

// Params defines the dependencies of the storage provider
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// Result exposes the transaction manager and a non-transactional factory
// for read-only listings.
type Result struct {
	fx.Out

	TxManager repository.TransactionManager
	Repos     repository.RepositoryFactory
}

// New wires the configured driver.
func New(params Params) (Result, error) {
	switch params.Config.Persistence.Driver {
	case constants.PersistenceDriverMemory:
		params.Logger.Warn("Using in-memory persistence, state is lost on restart")
		store := memory.NewStore()

		return Result{
			TxManager: memory.NewTransactionManager(store),
			Repos:     store.Repositories(),
		}, nil

	case constants.PersistenceDriverPostgres:
		if params.Config.Postgres == nil {
			return Result{}, errors.New("postgres driver selected but postgres is not configured")
		}

		db, err := postgres.New(postgres.Params{
			Lifecycle: params.Lifecycle,
			Config:    params.Config,
			Logger:    params.Logger,
		})
		if err != nil {
			return Result{}, err
		}

		if params.Config.Persistence.AutoMigrate {
			params.Append(fx.Hook{
				OnStart: func(startCtx context.Context) error {
					ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
					defer cancel()

					params.Logger.Info("Migrating game schema")

					return postgres.Migrate(ctx, db)
				},
			})
		}

		return Result{
			TxManager: postgres.NewTransactionManager(db),
			Repos:     postgres.NewRepositoryFactory(db),
		}, nil

	default:
		return Result{}, errors.Errorf("unknown persistence driver: %s", params.Config.Persistence.Driver)
	}
}
