package store

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// windowKeyPrefix namespaces window counters in a shared Redis.
const windowKeyPrefix = "sss:window:"

// RedisWindow is the Redis-backed window store. Day totals are plain
// counters with a TTL; INCRBY keeps the accumulation atomic across
// instances.
type RedisWindow struct {
	client *redis.Client
}

func NewRedisWindow(client *redis.Client) *RedisWindow {
	return &RedisWindow{client: client}
}

var _ WindowStore = (*RedisWindow)(nil)

func (w *RedisWindow) Add(ctx context.Context, key string, amount uint64, ttl time.Duration) (uint64, error) {
	k := windowKeyPrefix + key

	pipe := w.client.TxPipeline()
	incr := pipe.IncrBy(ctx, k, int64(amount))
	pipe.ExpireNX(ctx, k, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("accumulate window %s: %w", key, err)
	}
	return uint64(incr.Val()), nil
}

func (w *RedisWindow) Subtract(ctx context.Context, key string, amount uint64) error {
	k := windowKeyPrefix + key
	if err := w.client.DecrBy(ctx, k, int64(amount)).Err(); err != nil {
		return fmt.Errorf("roll back window %s: %w", key, err)
	}
	return nil
}
