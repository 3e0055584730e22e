package persistence

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/helixdesk/helixdesk/internal/config"
)

// Redis wraps the go-redis client. Beyond health checks it carries the
// change-notification channel that drives snapshot reloads.
type Redis struct {
	Client  *redis.Client
	channel string
}

// NewRedis connects to Redis using the provided configuration.
func NewRedis(cfg config.RedisConfig, logger *zap.Logger) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.Error(err))
	} else {
		logger.Info("connected to redis")
	}

	return &Redis{Client: client, channel: cfg.ChangeChannel}
}

// Close closes the client.
func (r *Redis) Close() {
	if r != nil && r.Client != nil {
		_ = r.Client.Close()
	}
}

// Ping verifies Redis connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	return r.Client.Ping(ctx).Err()
}

// PublishChange announces that a collection ("tickets" or "users") changed.
func (r *Redis) PublishChange(ctx context.Context, collection string) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	return r.Client.Publish(ctx, r.channel, collection).Err()
}

// SubscribeChanges returns a subscription on the change channel. The caller
// owns the subscription lifecycle.
func (r *Redis) SubscribeChanges(ctx context.Context) *redis.PubSub {
	if r == nil || r.Client == nil {
		return nil
	}
	return r.Client.Subscribe(ctx, r.channel)
}
