package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"learnquest/internal/logger"
	"learnquest/internal/metrics"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
)

// NewRedisClient connects to Redis. An empty addr returns nil, which RateLimiter treats as disabled.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	if addr == "" {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// RateLimiter is a fixed-window limiter over Redis INCR/EXPIRE.
// A nil client or a Redis error lets the request through.
type RateLimiter struct {
	client *redis.Client
}

func NewRateLimiter(client *redis.Client) *RateLimiter {
	return &RateLimiter{client: client}
}

// ByIP limits requests per client address.
// key format: rl:<name>:<window_seconds>:<ip>
func (rl *RateLimiter) ByIP(name string, maxRequests int, window time.Duration) gin.HandlerFunc {
	return rl.limit(name, maxRequests, window, func(c *gin.Context) (string, bool) {
		return c.ClientIP(), true
	})
}

// ByUser limits requests per authenticated user. JWT must run first.
func (rl *RateLimiter) ByUser(name string, maxRequests int, window time.Duration) gin.HandlerFunc {
	return rl.limit(name, maxRequests, window, func(c *gin.Context) (string, bool) {
		id, ok := UserID(c)
		if !ok {
			return "", false
		}
		return "u" + strconv.FormatInt(id, 10), true
	})
}

func (rl *RateLimiter) limit(name string, maxRequests int, window time.Duration, identify func(*gin.Context) (string, bool)) gin.HandlerFunc {
	windowSec := strconv.FormatInt(int64(window.Seconds()), 10)

	return func(c *gin.Context) {
		if rl == nil || rl.client == nil {
			c.Next()
			return
		}

		ident, ok := identify(c)
		if !ok {
			c.Next()
			return
		}

		key := "rl:" + name + ":" + windowSec + ":" + ident
		ctx := c.Request.Context()

		val, err := rl.client.Incr(ctx, key).Result()
		if err != nil {
			logger.WithContext(ctx).Warnw("rate limiter unavailable", "error", err, "limiter", name)
			c.Header("X-RateLimit-Error", "redis-error")
			c.Next()
			return
		}
		if val == 1 {
			// first increment, set expiry
			rl.client.Expire(ctx, key, window)
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(maxRequests))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(max(0, int64(maxRequests)-val), 10))

		if val > int64(maxRequests) {
			metrics.RLBlocked.WithLabelValues(name).Inc()
			c.Header("Retry-After", windowSec)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": gin.H{"kind": "rate_limited", "code": "rate_limited", "message": "rate limit exceeded"},
			})
			return
		}

		metrics.RLRequests.WithLabelValues(name).Inc()
		c.Next()
	}
}
