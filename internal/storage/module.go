// Package storage selects the repository driver configured for the application.
package storage

import (
	"context"
	"fmt"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/marketplace/internal/config"
	"github.com/polkiloo/marketplace/internal/domain/repository"
	"github.com/polkiloo/marketplace/internal/storage/memory"
	"github.com/polkiloo/marketplace/internal/storage/postgres"
)

// Module wires the configured storage driver and repository adapters.
var Module = fx.Options(
	fx.Provide(newFactory),
	fx.Provide(
		func(f repository.Factory) repository.UserRepository { return f.Users() },
		func(f repository.Factory) repository.OrderRepository { return f.Orders() },
		func(f repository.Factory) repository.StatusRepository { return f.Statuses() },
	),
	fx.Invoke(registerLifecycle),
)

type factoryParams struct {
	fx.In

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

var openPostgres = func(ctx context.Context, dsn string, p factoryParams) (repository.Factory, error) {
	st, err := postgres.New(ctx, dsn, p.Config.LockTimeout, p.Logger)
	if err != nil {
		return nil, err
	}
	return st, nil
}

func newFactory(p factoryParams) (repository.Factory, error) {
	switch p.Config.StorageDriver {
	case config.DriverMemory:
		p.Logger.Info("using in-memory storage")
		return memory.New(p.Config.LockTimeout, p.Logger), nil
	case config.DriverPostgres, "":
		return openPostgres(p.Ctx, p.Config.DatabaseURI, p)
	}
	return nil, fmt.Errorf("unknown storage driver %q", p.Config.StorageDriver)
}

func registerLifecycle(lc fx.Lifecycle, factory repository.Factory) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			factory.Close()
			return nil
		},
	})
}
