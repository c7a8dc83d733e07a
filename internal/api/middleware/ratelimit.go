package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Hrick-08/BeatCode/pkg/logger"
	"github.com/Hrick-08/BeatCode/pkg/ratelimit"
)

// RateLimitConfig configures the in-process token bucket limiter.
type RateLimitConfig struct {
	Capacity   int64
	RefillRate int64 // tokens per second
	KeyFunc    func(*gin.Context) string
}

// RedisRateLimitConfig configures the Redis-backed limiter shared across
// instances.
type RedisRateLimitConfig struct {
	Limiter *ratelimit.RedisLimiter
	Limit   int
	Window  time.Duration
	KeyFunc func(*gin.Context) string
}

// DefaultKeyFunc keys by user when authenticated, by IP otherwise.
func DefaultKeyFunc(c *gin.Context) string {
	if userID, exists := c.Get("userID"); exists {
		return fmt.Sprintf("user:%v", userID)
	}
	return fmt.Sprintf("ip:%s", c.ClientIP())
}

// IPKeyFunc keys by IP only, for unauthenticated endpoints.
func IPKeyFunc(c *gin.Context) string {
	return fmt.Sprintf("ip:%s", c.ClientIP())
}

// UserKeyFunc keys by user ID and requires the auth middleware upstream.
func UserKeyFunc(c *gin.Context) string {
	if userID, exists := c.Get("userID"); exists {
		return fmt.Sprintf("user:%v", userID)
	}
	return ""
}

// RateLimit enforces a per-key token bucket in process memory.
func RateLimit(config RateLimitConfig) gin.HandlerFunc {
	limiter := ratelimit.NewLimiter(config.Capacity, config.RefillRate)

	if config.KeyFunc == nil {
		config.KeyFunc = DefaultKeyFunc
	}

	return func(c *gin.Context) {
		key := config.KeyFunc(c)
		if key == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required for rate limiting",
			})
			c.Abort()
			return
		}

		if !limiter.Allow(key) {
			c.Header("X-RateLimit-Limit", strconv.FormatInt(config.Capacity, 10))
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", "1")

			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded",
			})
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(config.Capacity, 10))
		c.Next()
	}
}

// RedisRateLimit enforces a shared limit through Redis. Redis outages fail
// open: a broken limiter must not take the API down with it.
func RedisRateLimit(config RedisRateLimitConfig) gin.HandlerFunc {
	if config.KeyFunc == nil {
		config.KeyFunc = DefaultKeyFunc
	}
	if config.Limit <= 0 {
		config.Limit = 60
	}
	if config.Window <= 0 {
		config.Window = time.Minute
	}

	return func(c *gin.Context) {
		key := config.KeyFunc(c)
		if key == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required for rate limiting",
			})
			c.Abort()
			return
		}

		allowed, err := config.Limiter.Allow(context.Background(), key, config.Limit, config.Window)
		if err != nil {
			logger.Warn("Rate limit check failed, allowing request", "key", key, "error", err)
			c.Next()
			return
		}

		if !allowed {
			c.Header("X-RateLimit-Limit", strconv.Itoa(config.Limit))
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", strconv.Itoa(int(config.Window.Seconds())))

			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// AuthRateLimit bounds login/register attempts per IP.
func AuthRateLimit() gin.HandlerFunc {
	return RateLimit(RateLimitConfig{
		Capacity:   5,
		RefillRate: 1,
		KeyFunc:    IPKeyFunc,
	})
}

// SubmissionRateLimit bounds grading attempts per user. Each attempt costs a
// judge round trip, so this is the tightest limit.
func SubmissionRateLimit() gin.HandlerFunc {
	return RateLimit(RateLimitConfig{
		Capacity:   5,
		RefillRate: 1,
		KeyFunc:    UserKeyFunc,
	})
}

// QueueRateLimit bounds matchmaking joins per user.
func QueueRateLimit() gin.HandlerFunc {
	return RateLimit(RateLimitConfig{
		Capacity:   10,
		RefillRate: 1,
		KeyFunc:    UserKeyFunc,
	})
}

// RedisAuthRateLimit is the distributed equivalent of AuthRateLimit.
func RedisAuthRateLimit(limiter *ratelimit.RedisLimiter) gin.HandlerFunc {
	return RedisRateLimit(RedisRateLimitConfig{
		Limiter: limiter,
		Limit:   5,
		Window:  time.Minute,
		KeyFunc: IPKeyFunc,
	})
}

// RedisSubmissionRateLimit is the distributed equivalent of SubmissionRateLimit.
func RedisSubmissionRateLimit(limiter *ratelimit.RedisLimiter) gin.HandlerFunc {
	return RedisRateLimit(RedisRateLimitConfig{
		Limiter: limiter,
		Limit:   5,
		Window:  time.Minute,
		KeyFunc: UserKeyFunc,
	})
}

// RedisQueueRateLimit is the distributed equivalent of QueueRateLimit.
func RedisQueueRateLimit(limiter *ratelimit.RedisLimiter) gin.HandlerFunc {
	return RedisRateLimit(RedisRateLimitConfig{
		Limiter: limiter,
		Limit:   10,
		Window:  time.Minute,
		KeyFunc: UserKeyFunc,
	})
}
