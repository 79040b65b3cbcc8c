// Package cli assembles engines, stores and session managers from
// configuration for the command-line entrypoints.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	backend "github.com/redis/go-redis/v9"

	"github.com/aretw0/espalier"
	"github.com/aretw0/espalier/internal/config"
	"github.com/aretw0/espalier/internal/logging"
	"github.com/aretw0/espalier/pkg/adapters/httpapi"
	"github.com/aretw0/espalier/pkg/adapters/memory"
	"github.com/aretw0/espalier/pkg/adapters/redis"
	"github.com/aretw0/espalier/pkg/adapters/sqlite"
	"github.com/aretw0/espalier/pkg/dsl"
	"github.com/aretw0/espalier/pkg/ports"
	"github.com/aretw0/espalier/pkg/resolve"
	"github.com/aretw0/espalier/pkg/session"
)

// NewEngineFactory returns a factory producing engines configured per cfg.
// Each engine carries the conjunction resolver and the configured field map.
func NewEngineFactory(cfg *config.Config, logger *slog.Logger, extra ...espalier.Option) httpapi.EngineFactory {
	var dslOpts []dsl.Option
	if len(cfg.Fields) > 0 {
		dslOpts = append(dslOpts, dsl.WithFieldMap(dsl.FieldMap(cfg.Fields)))
	}

	return func() *espalier.Engine {
		opts := []espalier.Option{
			espalier.WithResolver(resolve.NewConjunction()),
			espalier.WithLogger(logger),
		}
		if cfg.MaxSteps > 0 {
			opts = append(opts, espalier.WithMaxSteps(cfg.MaxSteps))
		}
		opts = append(opts, extra...)
		return espalier.New(dsl.NewRegistry(dslOpts...), opts...)
	}
}

// NewSessionManager builds the snapshot store and session manager for the
// configured backend. The returned closer shuts down backend connections.
func NewSessionManager(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*session.Manager, io.Closer, error) {
	var (
		store  ports.SnapshotStore
		closer io.Closer
		opts   = []session.Option{session.WithLogger(logger)}
	)

	switch cfg.Store.Backend {
	case "", "memory":
		store = memory.NewStore()

	case "redis":
		client := backend.NewClient(&backend.Options{
			Addr:     cfg.Store.Redis.Address,
			Password: cfg.Store.Redis.Password,
			DB:       cfg.Store.Redis.DB,
		})
		var redisOpts []redis.Option
		if cfg.Store.Redis.Prefix != "" {
			redisOpts = append(redisOpts, redis.WithPrefix(cfg.Store.Redis.Prefix))
		}
		if cfg.Store.TTL > 0 {
			redisOpts = append(redisOpts, redis.WithTTL(cfg.Store.TTL.Std()))
		}
		rstore := redis.NewFromClient(client, redisOpts...)
		store = rstore
		closer = rstore
		// Replicas share the backend, so builds also need the distributed lock.
		opts = append(opts, session.WithLocker(redis.NewLocker(client, cfg.Store.Redis.Prefix)))

	case "sqlite":
		sstore, err := sqlite.Open(ctx, cfg.Store.SQLite.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		store = sstore
		closer = sstore

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	if closer == nil {
		closer = noopCloser{}
	}
	return session.NewManager(store, opts...), closer, nil
}

// noopCloser stands in for backends with nothing to shut down.
type noopCloser struct{}

func (noopCloser) Close() error { return nil }

// NewLogger builds a text logger for the given level name. Unknown names
// fall back to info.
func NewLogger(level string) *slog.Logger {
	return logging.New(ParseLevel(level))
}

// NewServerLogger builds a JSON logger for server mode.
func NewServerLogger(level string) *slog.Logger {
	return logging.NewJSON(ParseLevel(level))
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
