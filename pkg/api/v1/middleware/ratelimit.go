package middleware

import (
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/legaltext/finetuner/pkg/types"
)

// DefaultRateLimit is the per-minute request allowance for bearer-token and
// anonymous requests. API keys carry their own limit.
const DefaultRateLimit = 100

// rateWindow is the fixed window the limiter counts requests in
const rateWindow = time.Minute

type rateBucket struct {
	count       int
	windowStart time.Time
}

// RateLimiter is a fixed-window in-memory request limiter keyed by
// credential. It is per-process; a multi-instance deployment would need a
// shared store behind the same interface.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*rateBucket
	now     func() time.Time
}

// NewRateLimiter creates a rate limiter
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		buckets: make(map[string]*rateBucket),
		now:     time.Now,
	}
}

// Allow records a request for key and reports whether it is within limit
func (l *RateLimiter) Allow(key string, limit int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	bucket, ok := l.buckets[key]
	if !ok || now.Sub(bucket.windowStart) >= rateWindow {
		l.buckets[key] = &rateBucket{count: 1, windowStart: now}
		return true
	}
	bucket.count++
	return bucket.count <= limit
}

// Handler throttles requests per authenticated credential. Runs after
// RequireAuth; unauthenticated routes are keyed by client IP.
func (l *RateLimiter) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := "ip:" + c.IP()
		limit := DefaultRateLimit

		if apiKey := CurrentAPIKey(c); apiKey != nil {
			key = "key:" + apiKey.Key
			if apiKey.RateLimit > 0 {
				limit = apiKey.RateLimit
			}
		} else if user := CurrentUser(c); user != nil {
			key = fmt.Sprintf("user:%d", user.ID)
		}

		if !l.Allow(key, limit) {
			c.Set(fiber.HeaderRetryAfter, "60")
			return c.Status(fiber.StatusTooManyRequests).JSON(types.ErrorResponse{
				Error: "rate limit exceeded",
			})
		}
		return c.Next()
	}
}
