package middleware

import (
	"fmt"
	"math"
	"net/http"
	"time"

	"glassbird/internal/infrastructure/cache"

	"github.com/gin-gonic/gin"
)

type RateLimiter struct {
	counters cache.KV
}

func NewRateLimiter(counters cache.KV) *RateLimiter {
	return &RateLimiter{counters: counters}
}

func (rl *RateLimiter) Limit(keySuffix string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		key := fmt.Sprintf("rate_limit:%s:%s", keySuffix, ip)

		count, ttl, err := rl.counters.Incr(c.Request.Context(), key, window)
		if err != nil {
			// counters unavailable, fail open
			c.Next()
			return
		}

		if count > int64(limit) {
			c.Header("Retry-After", fmt.Sprintf("%d", int(math.Ceil(ttl.Seconds()))))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Too many requests",
				"retry_after": fmt.Sprintf("%.0f minutes", math.Ceil(ttl.Minutes())),
			})
			return
		}
		c.Next()
	}
}
