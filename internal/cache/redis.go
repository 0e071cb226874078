package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/storage/redis/v3"

	"airlinelookup/internal/models"
)

const redisKeyPrefix = "airline:"

// Redis stores entries in Redis with the TTL as the key expiry, so several
// service instances share one cache.
type Redis struct {
	storage *redis.Storage
	ttl     time.Duration
}

// NewRedis connects to Redis at url. Connection failures are returned as
// errors.
func NewRedis(url string, ttl time.Duration) (r *Redis, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("connect redis: %v", p)
		}
	}()

	storage := redis.New(redis.Config{URL: url})
	return &Redis{storage: storage, ttl: ttl}, nil
}

// Storage returns the underlying fiber storage, shared with the rate limiter.
func (r *Redis) Storage() *redis.Storage {
	return r.storage
}

// Get returns the cached record, or a miss when the key is absent, expired or
// unreadable.
func (r *Redis) Get(ctx context.Context, key string) (*models.AirlineRecord, bool) {
	raw, err := r.storage.GetWithContext(ctx, redisKeyPrefix+key)
	if err != nil {
		slog.Warn("redis cache get failed", "key", key, "error", err)
		return nil, false
	}
	if len(raw) == 0 {
		return nil, false
	}

	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		slog.Warn("redis cache entry corrupt", "key", key, "error", err)
		return nil, false
	}
	if time.Since(entry.FetchedAt) >= r.ttl {
		return nil, false
	}
	return &entry.Record, true
}

// Put stores the record with the cache TTL as expiry.
func (r *Redis) Put(ctx context.Context, key string, rec *models.AirlineRecord) {
	if rec == nil {
		return
	}
	raw, err := json.Marshal(Entry{Record: *rec, FetchedAt: time.Now()})
	if err != nil {
		slog.Warn("redis cache encode failed", "key", key, "error", err)
		return
	}
	if err := r.storage.SetWithContext(ctx, redisKeyPrefix+key, raw, r.ttl); err != nil {
		slog.Warn("redis cache put failed", "key", key, "error", err)
	}
}

// Ping checks the Redis connection.
func (r *Redis) Ping(ctx context.Context) error {
	return r.storage.Conn().Ping(ctx).Err()
}

// Close releases the connection pool.
func (r *Redis) Close() error {
	return r.storage.Close()
}
