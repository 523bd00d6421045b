package persistence

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/safety-roster/internal/config"
)

// KVStore is the flat key-value store the registry is built on.
type KVStore interface {
	// List returns every key starting with prefix. Zero keys is not an error.
	List(ctx context.Context, prefix string) ([]string, error)
	// Get returns the value for key; found is false when the key is absent.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	// Set writes value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
}

// Backend is a KVStore with connection lifecycle hooks.
type Backend interface {
	KVStore
	Name() string
	Ping(ctx context.Context) error
	Close()
}

// Open connects the backend selected by cfg.Store.Backend.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Backend, error) {
	switch cfg.Store.Backend {
	case config.BackendRedis:
		return NewRedis(cfg.Redis, logger), nil
	case config.BackendPostgres:
		pg, err := NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if cfg.Postgres.RunMigrations {
			if err := RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				pg.Close()
				return nil, err
			}
		}
		return pg, nil
	case config.BackendMemory, "":
		logger.Warn("using in-memory store; records are lost on restart")
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
