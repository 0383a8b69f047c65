package cache

import (
	"context"
	"encoding/json"
	"time"

	"glassbird/internal/domain"
)

const contentPrefix = "content:"

type ContentCache struct {
	kv  KV
	ttl time.Duration
}

func NewContentCache(kv KV, ttl time.Duration) *ContentCache {
	return &ContentCache{kv: kv, ttl: ttl}
}

func contentKey(ref domain.ContentRef) string {
	return contentPrefix + string(ref.Kind) + ":" + ref.Location
}

func (c *ContentCache) Get(ctx context.Context, ref domain.ContentRef) (domain.Content, error) {
	raw, err := c.kv.Get(ctx, contentKey(ref))
	if err != nil {
		return domain.Content{}, err
	}
	var content domain.Content
	if err := json.Unmarshal(raw, &content); err != nil {
		return domain.Content{}, err
	}
	return content, nil
}

func (c *ContentCache) Set(ctx context.Context, ref domain.ContentRef, content domain.Content) error {
	raw, err := json.Marshal(content)
	if err != nil {
		return err
	}
	return c.kv.Set(ctx, contentKey(ref), raw, c.ttl)
}
