package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"roomscout/internal/lib/logger/sl"
)

// Cache — best-effort key/value ускоритель. Любая ошибка чтения схлопывается
// в промах, ошибка записи логируется и глотается: кэш никогда не ломает и не
// блокирует основной запрос, его отсутствие лишь убирает выигрыш в скорости.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}

type redisCache struct {
	client *redis.Client
	log    *slog.Logger
}

// NewRedis — кэш поверх redis-клиента.
func NewRedis(client *redis.Client, log *slog.Logger) Cache {
	return &redisCache{client: client, log: log}
}

func (c *redisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Debug("cache get failed, treating as miss", slog.String("key", key), sl.Err(err))
		}
		return nil, false
	}
	return val, true
}

func (c *redisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		c.log.Debug("cache set failed", slog.String("key", key), sl.Err(err))
	}
}

type noop struct{}

// NewNoop — заглушка для выключенного кэша: всегда промах.
func NewNoop() Cache {
	return noop{}
}

func (noop) Get(ctx context.Context, key string) ([]byte, bool)               { return nil, false }
func (noop) Set(ctx context.Context, key string, value []byte, _ time.Duration) {}
