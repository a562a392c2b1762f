package rollback

import (
	"context"
	"log"
	"time"

	"github.com/Reainz/Snapflow-sub000/internal/database"
	"github.com/redis/go-redis/v9"
)

// Guard keys outlive any plausible redelivery window
const guardTTL = 24 * time.Hour

// RedisGuard implements the idempotency guard with SETNX
type RedisGuard struct {
	client *redis.Client
}

func NewRedisGuard(client *redis.Client) *RedisGuard {
	return &RedisGuard{client: client}
}

func (g *RedisGuard) Acquire(ctx context.Context, key string) (bool, error) {
	return g.client.SetNX(ctx, database.KeyPrefixRollback+key, 1, guardTTL).Result()
}

func (g *RedisGuard) Release(ctx context.Context, key string) {
	if err := g.client.Del(ctx, database.KeyPrefixRollback+key).Err(); err != nil {
		log.Printf("Rollback: failed to release guard %s: %v", key, err)
	}
}
