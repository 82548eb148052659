package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sbilibin2017/gw-transfer-api/internal/logger"
)

const blacklistKeyPrefix = "blacklisted_token:"

// TokenBlacklistRepository stores revoked tokens in Redis. Entries expire
// on their own after the TTL passed to Add.
type TokenBlacklistRepository struct {
	client *redis.Client
}

// NewTokenBlacklistRepository creates a repository on top of client.
func NewTokenBlacklistRepository(client *redis.Client) *TokenBlacklistRepository {
	return &TokenBlacklistRepository{client: client}
}

func blacklistKey(token string) string {
	return blacklistKeyPrefix + token
}

// Add marks token as revoked for ttl.
func (r *TokenBlacklistRepository) Add(ctx context.Context, token string, ttl time.Duration) error {
	key := blacklistKey(token)
	err := r.client.Set(ctx, key, "true", ttl).Err()

	logger.Log.Infow("redis set",
		"key_prefix", blacklistKeyPrefix,
		"ttl", ttl,
		"error", err,
	)

	return err
}

// Exists reports whether token has been revoked.
func (r *TokenBlacklistRepository) Exists(ctx context.Context, token string) (bool, error) {
	key := blacklistKey(token)
	_, err := r.client.Get(ctx, key).Result()

	logger.Log.Debugw("redis get",
		"key_prefix", blacklistKeyPrefix,
		"error", err,
	)

	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
