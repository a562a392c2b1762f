package database

import (
	"context"
	"encoding/json"
	"time"
)

const (
	// Cache key prefixes
	CacheKeyQuota        = "snapflow:quota:"
	CacheKeyVideo        = "snapflow:video:"
	KeyPrefixRollback    = "snapflow:rollback:"
	NotificationsChannel = "snapflow:notifications"

	// Cache TTLs
	CacheTTLQuota = 30 * time.Second
	CacheTTLVideo = 2 * time.Minute
)

// CacheGet retrieves a value from Redis cache and unmarshals it into dest
func CacheGet(key string, dest interface{}) error {
	ctx := context.Background()
	data, err := Redis.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

// CacheSet stores a value in Redis cache with TTL
func CacheSet(key string, value interface{}, ttl time.Duration) error {
	ctx := context.Background()
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return Redis.Set(ctx, key, data, ttl).Err()
}

// CacheDelete removes a key from Redis cache
func CacheDelete(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	ctx := context.Background()
	return Redis.Del(ctx, keys...).Err()
}

// InvalidateVideoCache clears the cached record for one video
func InvalidateVideoCache(videoID string) {
	CacheDelete(CacheKeyVideo + videoID)
}

// InvalidateQuotaCache clears the cached quota snapshot for one user
func InvalidateQuotaCache(userID string) {
	CacheDelete(CacheKeyQuota + userID)
}
