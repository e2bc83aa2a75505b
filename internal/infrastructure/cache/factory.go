package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

const redisPingTimeout = 5 * time.Second

// NewIdempotencyStore returns a Redis-backed store when Redis is enabled and
// reachable, otherwise an in-memory store. An unreachable Redis is logged and
// does not stop the service: the in-memory store still deduplicates
// deliveries within this instance.
func NewIdempotencyStore(ctx context.Context, cfg config.RedisConfig, keyPrefix string, logger *zap.Logger) shared.IdempotencyStore {
	if !cfg.Enabled {
		logger.Info("redis disabled, using in-memory idempotency store")
		return NewInMemoryIdempotencyStore()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis unavailable, falling back to in-memory idempotency store",
			zap.String("addr", cfg.Addr()),
			zap.Error(err),
		)
		_ = client.Close()
		return NewInMemoryIdempotencyStore()
	}

	logger.Info("using redis idempotency store", zap.String("addr", cfg.Addr()))
	return NewRedisIdempotencyStore(client, keyPrefix)
}
