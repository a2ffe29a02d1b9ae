// Package cmd provides shared wiring helpers for the command-line binaries.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/flowgate-io/flowgate/pkg/persistence"
	"github.com/flowgate-io/flowgate/pkg/persistence/file"
	"github.com/flowgate-io/flowgate/pkg/persistence/postgresql"
	"github.com/flowgate-io/flowgate/pkg/persistence/settingcache"
)

// NewPersistence creates the store selected by databaseURL. file:// paths use
// the JSON file store, postgres:// (or postgresql://) URLs use PostgreSQL.
// When cacheURL is non-empty the store is wrapped with the Redis setting
// cache.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL, cacheURL string) (persistence.Persistence, error) {
	store, err := newStore(ctx, logger, databaseURL)
	if err != nil {
		return nil, err
	}

	if cacheURL == "" {
		return store, nil
	}

	opts, err := redis.ParseURL(cacheURL)
	if err != nil {
		return nil, fmt.Errorf("invalid cache URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return settingcache.New(store, client, settingcache.DefaultTTL), nil
}

func newStore(ctx context.Context, logger *slog.Logger, databaseURL string) (persistence.Persistence, error) {
	switch {
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		return postgresql.NewPersistence(ctx, logger, databaseURL)
	case strings.HasPrefix(databaseURL, "file://"):
		return file.NewPersistence(strings.TrimPrefix(databaseURL, "file://")), nil
	default:
		return nil, fmt.Errorf("unsupported database URL: %s", databaseURL)
	}
}

// ClosePersistence closes the store with a short grace period. Used by the
// binaries' deferred shutdown paths.
func ClosePersistence(logger *slog.Logger, p persistence.Persistence) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := p.Close(ctx); err != nil {
		logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
	}
}
