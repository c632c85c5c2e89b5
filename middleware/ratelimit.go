package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"geodata-upload-backend/internal/logger"
	"geodata-upload-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// RateLimiter limits requests per client IP and route. With a Redis client the
// counters are shared between instances; without one, or while Redis is failing,
// each process keeps its own token buckets.
type RateLimiter struct {
	rdb    *redis.Client
	limit  int
	window time.Duration

	mu    sync.Mutex
	local map[string]*localLimiter
}

type localLimiter struct {
	limiter *rate.Limiter
	expires time.Time
}

func NewRateLimiter(rdb *redis.Client, limit, windowSeconds int) *RateLimiter {
	if limit < 1 {
		limit = 1
	}
	if windowSeconds < 1 {
		windowSeconds = 1
	}
	return &RateLimiter{
		rdb:    rdb,
		limit:  limit,
		window: time.Duration(windowSeconds) * time.Second,
		local:  map[string]*localLimiter{},
	}
}

// Middleware returns the gin handler enforcing the limit.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Skip rate limiting for health checks
		if c.FullPath() == "/" {
			c.Next()
			return
		}

		key := "ratelimit:" + c.ClientIP() + ":" + c.FullPath()
		allowed, remaining := rl.allow(c.Request.Context(), key)

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			c.Header("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(rl.window).Unix(), 10))
			utils.RespondWithError(c, http.StatusTooManyRequests,
				"rate_limit_exceeded",
				"Too many requests. Please try again later.",
				gin.H{
					"retry_after": int(rl.window.Seconds()),
					"limit":       rl.limit,
				})
			c.Abort()
			return
		}

		c.Next()
	}
}

func (rl *RateLimiter) allow(ctx context.Context, key string) (bool, int) {
	if rl.rdb != nil {
		count, err := rl.rdb.Incr(ctx, key).Result()
		if err == nil {
			// Set expiration on first request
			if count == 1 {
				rl.rdb.Expire(ctx, key, rl.window)
			}
			return count <= int64(rl.limit), max(rl.limit-int(count), 0)
		}
		logger.Warn("Redis rate limit unavailable, using local limiter", "error", err)
	}

	limiter := rl.localLimiter(key)
	allowed := limiter.Allow()
	return allowed, max(int(limiter.Tokens()), 0)
}

func (rl *RateLimiter) localLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	for k, l := range rl.local {
		if now.After(l.expires) {
			delete(rl.local, k)
		}
	}

	if l, ok := rl.local[key]; ok {
		l.expires = now.Add(5 * rl.window)
		return l.limiter
	}

	l := &localLimiter{
		limiter: rate.NewLimiter(rate.Every(rl.window/time.Duration(rl.limit)), rl.limit),
		expires: now.Add(5 * rl.window),
	}
	rl.local[key] = l
	return l.limiter
}
