package api

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

type uploadCounter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// incrWithTTL 自增会话配额计数器，首次写入时附带窗口过期时间。
// Expire 失败不回报：计数器可能比窗口活得久，配额只会偏紧不会偏松。
func incrWithTTL(ctx context.Context, client uploadCounter, key string, window time.Duration) (int64, error) {
	count, err := client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		_ = client.Expire(ctx, key, window).Err()
	}
	return count, nil
}
