// Package storage opens the repository backend selected in configuration.
package storage

import (
	"context"
	"fmt"

	"github.com/ArowuTest/valera-classroom/internal/config"
	"github.com/ArowuTest/valera-classroom/internal/repositories"
	"github.com/ArowuTest/valera-classroom/internal/repositories/memory"
	mongorepo "github.com/ArowuTest/valera-classroom/internal/repositories/mongodb"
	"github.com/ArowuTest/valera-classroom/internal/repositories/postgres"
	"github.com/ArowuTest/valera-classroom/pkg/mongodb"
	"golang.org/x/exp/slog"
)

// Open connects to the configured backend. The returned store must be
// closed by the caller.
func Open(ctx context.Context, cfg *config.Config) (*repositories.Store, error) {
	switch cfg.Storage.Driver {
	case config.DriverMongo:
		client, err := mongodb.Connect(ctx, cfg.MongoDB.URI, cfg.MongoDB.Database, cfg.MongoDB.Timeout)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		store, err := mongorepo.NewStore(ctx, client.Database(), client.Disconnect)
		if err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		slog.Info("Using MongoDB storage", "database", cfg.MongoDB.Database)
		return store, nil
	case config.DriverPostgres:
		store, err := postgres.Open(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		slog.Info("Using PostgreSQL storage")
		return store, nil
	case config.DriverMemory:
		slog.Warn("Using in-memory storage; data is lost on restart")
		return memory.NewStore(), nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}
