// Package settingcache wraps a persistence layer with a Redis read-through
// cache for admin settings. The surrounding platform keeps runtime flags hot
// in Redis, so the per-request feature-flag read stays off the database.
package settingcache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/flowgate-io/flowgate/pkg/persistence"
)

const keyPrefix = "flowgate:setting:"

// DefaultTTL bounds how stale a cached setting may get.
const DefaultTTL = 30 * time.Second

// Persistence decorates an inner store, overriding the setting operations.
type Persistence struct {
	persistence.Persistence

	client *redis.Client
	ttl    time.Duration
}

// New wraps inner with a Redis cache for settings.
func New(inner persistence.Persistence, client *redis.Client, ttl time.Duration) *Persistence {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Persistence{Persistence: inner, client: client, ttl: ttl}
}

// Setting reads from Redis first and falls back to the inner store on a
// miss. Cache errors degrade to the inner store, never to a failed read.
func (p *Persistence) Setting(ctx context.Context, key string) (string, error) {
	value, err := p.client.Get(ctx, keyPrefix+key).Result()
	if err == nil {
		return value, nil
	}

	if !errors.Is(err, redis.Nil) {
		return p.Persistence.Setting(ctx, key)
	}

	value, err = p.Persistence.Setting(ctx, key)
	if err != nil {
		return "", err
	}

	_ = p.client.Set(ctx, keyPrefix+key, value, p.ttl).Err()

	return value, nil
}

// SaveSetting writes through to the inner store and invalidates the cache.
func (p *Persistence) SaveSetting(ctx context.Context, key, value string) error {
	if err := p.Persistence.SaveSetting(ctx, key, value); err != nil {
		return err
	}

	if err := p.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached setting %s: %w", key, err)
	}

	return nil
}

// Close closes the Redis client alongside the inner store.
func (p *Persistence) Close(ctx context.Context) error {
	if err := p.client.Close(); err != nil {
		return fmt.Errorf("failed to close redis client: %w", err)
	}

	return p.Persistence.Close(ctx)
}
