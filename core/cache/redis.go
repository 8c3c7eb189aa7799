package cache

import (
	"context"
	"encoding/json"
	"time"

	"spotshare/core/logger"

	"github.com/redis/go-redis/v9"
)

var client *redis.Client

// Init connects the shared redis client used for short-lived query caches.
func Init(addr, password string, db int) error {
	client = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return err
	}
	logger.Info("Redis cache initialized", "addr", addr, "db", db)
	return nil
}

// GetJSON reads a cached value into dest. Returns false on miss or when the
// cache is unavailable; callers fall through to the database either way.
func GetJSON(ctx context.Context, key string, dest any) bool {
	if client == nil {
		return false
	}
	raw, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		logger.Warn("Cache:GetJSON:Unmarshal", "key", key, "error", err)
		return false
	}
	return true
}

// SetJSON stores a value with a TTL. Failures are logged and ignored.
func SetJSON(ctx context.Context, key string, value any, ttl time.Duration) {
	if client == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := client.Set(ctx, key, raw, ttl).Err(); err != nil {
		logger.Warn("Cache:SetJSON", "key", key, "error", err)
	}
}

// Invalidate drops keys after a slot mutation.
func Invalidate(ctx context.Context, keys ...string) {
	if client == nil || len(keys) == 0 {
		return
	}
	if err := client.Del(ctx, keys...).Err(); err != nil {
		logger.Warn("Cache:Invalidate", "error", err)
	}
}

// Close releases the client on shutdown.
func Close() {
	if client != nil {
		_ = client.Close()
	}
}
