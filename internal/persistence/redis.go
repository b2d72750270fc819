package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/recruitment-service/internal/config"
)

const probeTimeout = 2 * time.Second

// Redis holds the shared client used for sessions and login throttling.
type Redis struct {
	Client *redis.Client
	logger *zap.Logger
}

// NewRedis builds the client without contacting the server; callers decide
// between Redis and the in-memory fallbacks through Available.
func NewRedis(cfg config.RedisConfig, logger *zap.Logger) *Redis {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Redis{Client: redis.NewClient(redisOptions(cfg)), logger: logger}
}

func redisOptions(cfg config.RedisConfig) *redis.Options {
	opts := &redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	if cfg.DialTimeoutSec > 0 {
		opts.DialTimeout = time.Duration(cfg.DialTimeoutSec) * time.Second
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	return opts
}

func (r *Redis) Close() {
	if r != nil && r.Client != nil {
		_ = r.Client.Close()
	}
}

func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	return r.Client.Ping(ctx).Err()
}

// Available pings once with a short deadline and logs the outcome.
func (r *Redis) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	if err := r.Ping(ctx); err != nil {
		if r != nil {
			r.logger.Warn("unable to reach redis", zap.Error(err))
		}
		return false
	}
	r.logger.Info("connected to redis", zap.String("addr", r.Client.Options().Addr))
	return true
}
