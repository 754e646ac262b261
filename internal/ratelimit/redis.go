package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter — то же окно, но в redis (sorted set по ключу),
// для запуска нескольких инстансов за балансировщиком.
// Ошибка redis отдаётся наверх: на auth-путях её трактуют как отказ.
type RedisLimiter struct {
	client *redis.Client
	prefix string
}

// Чистка, подсчёт и запись одним скриптом: два параллельных запроса
// не могут оба пройти проверку счётчика и записаться поверх лимита.
// ARGV: [1] граница окна (ns), [2] лимит, [3] текущий момент (ns), [4] TTL (ms).
var allowScript = redis.NewScript(`
redis.call('ZREMRANGEBYSCORE', KEYS[1], '-inf', ARGV[1])
if redis.call('ZCARD', KEYS[1]) >= tonumber(ARGV[2]) then
	return 0
end
redis.call('ZADD', KEYS[1], ARGV[3], ARGV[3])
redis.call('PEXPIRE', KEYS[1], ARGV[4])
return 1
`)

func NewRedisLimiter(client *redis.Client, prefix string) *RedisLimiter {
	if prefix == "" {
		prefix = "rl"
	}
	return &RedisLimiter{client: client, prefix: prefix}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if limit <= 0 {
		return false, nil
	}

	rkey := l.prefix + ":" + key
	now := time.Now()
	cutoff := now.Add(-window)

	res, err := allowScript.Run(ctx, l.client, []string{rkey},
		strconv.FormatInt(cutoff.UnixNano(), 10),
		limit,
		strconv.FormatInt(now.UnixNano(), 10),
		window.Milliseconds(),
	).Int64()
	if err != nil {
		return false, fmt.Errorf("ratelimit redis: %w", err)
	}
	return res == 1, nil
}
