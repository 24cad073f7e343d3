// Package bootstrap opens the connections shared by the API server and the operator CLI.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"postboard/internal/cache"
	"postboard/internal/config"
	"postboard/internal/database"
	"postboard/internal/middleware"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// ApplySchema runs pending migrations once the database is reachable.
	ApplySchema bool
	// SkipRedis leaves the listing cache disabled even when REDIS_URL is set.
	SkipRedis bool
}

// Runtime holds the live connections. Redis is nil when caching is disabled.
type Runtime struct {
	DB    *gorm.DB
	Redis *redis.Client
}

// InitRuntime connects to Postgres and, unless skipped, Redis.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*Runtime, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	if opts.ApplySchema {
		if err := database.NewSchemaManager(db).ApplySchema(ctx); err != nil {
			_ = database.Close(db)
			return nil, fmt.Errorf("apply schema: %w", err)
		}
	}

	rt := &Runtime{DB: db}
	if !opts.SkipRedis {
		// nil when REDIS_URL is empty or unreachable
		rt.Redis = cache.NewClient(cfg.RedisURL)
	}
	middleware.Logger.Info("runtime initialized",
		slog.Bool("schema_applied", opts.ApplySchema),
		slog.Bool("cache_enabled", rt.Redis != nil),
	)
	return rt, nil
}

// Close releases the database pool and the Redis client.
func (r *Runtime) Close() error {
	var errs []error
	if r.DB != nil {
		errs = append(errs, database.Close(r.DB))
	}
	if r.Redis != nil {
		errs = append(errs, r.Redis.Close())
	}
	return errors.Join(errs...)
}
