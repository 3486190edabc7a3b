package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterAllow(t *testing.T) {
	now := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter()
	limiter.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Allow("user:1", 3))
	}
	assert.False(t, limiter.Allow("user:1", 3))

	// Other keys have their own buckets
	assert.True(t, limiter.Allow("user:2", 3))

	// A new window resets the count
	now = now.Add(rateWindow)
	assert.True(t, limiter.Allow("user:1", 3))
}

func TestRateLimiterWindowBoundary(t *testing.T) {
	now := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter()
	limiter.now = func() time.Time { return now }

	assert.True(t, limiter.Allow("key:abc", 1))
	assert.False(t, limiter.Allow("key:abc", 1))

	// Just inside the window still blocks
	now = now.Add(rateWindow - time.Second)
	assert.False(t, limiter.Allow("key:abc", 1))

	now = now.Add(time.Second)
	assert.True(t, limiter.Allow("key:abc", 1))
}
