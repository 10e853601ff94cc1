package listview

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Snapshot keys per list view.
const (
	KeyEmployees   = "list:employees"
	KeyDepartments = "list:departments"
	KeyManagers    = "list:managers"
)

// RedisClient is the slice of go-redis the cache needs.
type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Cache holds the raw list snapshots the pipeline filters. Mutations never
// patch a snapshot in place: they invalidate it so the next view load reads
// store state. Every cache failure degrades to a store fetch.
type Cache struct {
	rdb    RedisClient
	ttl    time.Duration
	logger *slog.Logger
}

func NewCache(rdb RedisClient, ttl time.Duration, logger *slog.Logger) *Cache {
	return &Cache{
		rdb:    rdb,
		ttl:    ttl,
		logger: logger,
	}
}

// Get loads a snapshot into dest and reports whether it was usable.
func (c *Cache) Get(ctx context.Context, key string, dest any) bool {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("Error reading list snapshot", slog.String("key", key), slog.String("error", err.Error()))
		}
		return false
	}

	if err := json.Unmarshal(data, dest); err != nil {
		c.logger.Warn("Error decoding list snapshot", slog.String("key", key), slog.String("error", err.Error()))
		return false
	}

	return true
}

// Set stores a snapshot, best effort.
func (c *Cache) Set(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("Error encoding list snapshot", slog.String("key", key), slog.String("error", err.Error()))
		return
	}

	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("Error storing list snapshot", slog.String("key", key), slog.String("error", err.Error()))
	}
}

// Invalidate drops snapshots after a successful mutation.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("Error invalidating list snapshots", slog.Any("keys", keys), slog.String("error", err.Error()))
	}
}
