package cache

import (
	"context"
	"time"
)

const sessionPrefix = "session:"

// SessionCache keeps one serialized session record per session id. Every
// write refreshes the TTL.
type SessionCache struct {
	kv  KV
	ttl time.Duration
}

func NewSessionCache(kv KV, ttl time.Duration) *SessionCache {
	return &SessionCache{kv: kv, ttl: ttl}
}

func (c *SessionCache) Load(ctx context.Context, sessionID string) ([]byte, error) {
	return c.kv.Get(ctx, sessionPrefix+sessionID)
}

func (c *SessionCache) Save(ctx context.Context, sessionID string, data []byte) error {
	return c.kv.Set(ctx, sessionPrefix+sessionID, data, c.ttl)
}

func (c *SessionCache) Delete(ctx context.Context, sessionID string) error {
	return c.kv.Del(ctx, sessionPrefix+sessionID)
}
