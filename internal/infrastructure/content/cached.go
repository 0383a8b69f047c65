package content

import (
	"context"
	"errors"
	"time"

	"glassbird/internal/domain"
	"glassbird/internal/infrastructure/cache"
	"glassbird/internal/platform/logger"

	"golang.org/x/sync/singleflight"
)

const flightTimeout = 30 * time.Second

// Cached is a read-through cache in front of another resolver. Concurrent
// requests for the same reference share one upstream call.
type Cached struct {
	next  Resolver
	cache *cache.ContentCache
	group singleflight.Group
	log   *logger.Logger
}

func NewCached(next Resolver, c *cache.ContentCache, log *logger.Logger) *Cached {
	return &Cached{next: next, cache: c, log: log.With("component", "content.cached")}
}

func (c *Cached) Resolve(ctx context.Context, ref domain.ContentRef) (domain.Content, error) {
	got, err := c.cache.Get(ctx, ref)
	if err == nil {
		return got, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		c.log.Warn("content cache read failed", "kind", ref.Kind, "location", ref.Location, "error", err)
	}

	key := string(ref.Kind) + ":" + ref.Location
	ch := c.group.DoChan(key, func() (interface{}, error) {
		// the flight is shared, so no single caller may cancel it
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), flightTimeout)
		defer cancel()

		resolved, err := c.next.Resolve(fctx, ref)
		if err != nil {
			return domain.Content{}, err
		}
		if err := c.cache.Set(fctx, ref, resolved); err != nil {
			c.log.Warn("content cache write failed", "kind", ref.Kind, "location", ref.Location, "error", err)
		}
		return resolved, nil
	})

	select {
	case <-ctx.Done():
		return domain.Content{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return domain.Content{}, res.Err
		}
		return res.Val.(domain.Content), nil
	}
}
