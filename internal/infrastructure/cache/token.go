package cache

import (
	"context"
	"time"
)

const confirmPrefix = "confirm_token:"

// TokenCache stores single-use email confirmation tokens.
type TokenCache struct {
	kv  KV
	ttl time.Duration
}

func NewTokenCache(kv KV) *TokenCache {
	return &TokenCache{kv: kv, ttl: 24 * time.Hour}
}

func (c *TokenCache) SaveConfirmToken(ctx context.Context, token, userID string) error {
	return c.kv.Set(ctx, confirmPrefix+token, []byte(userID), c.ttl)
}

func (c *TokenCache) GetConfirmToken(ctx context.Context, token string) (string, error) {
	val, err := c.kv.Get(ctx, confirmPrefix+token)
	if err != nil {
		return "", err
	}
	return string(val), nil
}

func (c *TokenCache) DeleteConfirmToken(ctx context.Context, token string) error {
	return c.kv.Del(ctx, confirmPrefix+token)
}
