package redis

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const revokedKeyPrefix = "auth:revoked:"

// TokenRepositoryRedis keeps revoked token ids as expiring keys.
type TokenRepositoryRedis struct {
	Client *redis.Client
	Logger *zap.Logger
}

func NewTokenRepositoryRedis(client *redis.Client, logger *zap.Logger) *TokenRepositoryRedis {
	return &TokenRepositoryRedis{
		Client: client,
		Logger: logger,
	}
}

// Revoke marks tokenID revoked for ttl, i.e. until the token would expire.
func (r *TokenRepositoryRedis) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if tokenID == "" || ttl <= 0 {
		return nil
	}
	if err := r.Client.Set(ctx, revokedKeyPrefix+tokenID, 1, ttl).Err(); err != nil {
		return err
	}
	r.Logger.Info("Token revoked", zap.String("jti", tokenID), zap.Duration("ttl", ttl))
	return nil
}

func (r *TokenRepositoryRedis) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	err := r.Client.Get(ctx, revokedKeyPrefix+tokenID).Err()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, redis.Nil):
		return false, nil
	default:
		return false, err
	}
}
