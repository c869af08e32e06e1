package ratelimit

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowWithinLimit(t *testing.T) {
	limiter := NewMemoryRateLimiter(&Config{
		WindowSize:    time.Minute,
		MaxAttempts:   3,
		CleanupPeriod: time.Minute,
	})
	defer limiter.Close()

	for i := 0; i < 3; i++ {
		allowed, info := limiter.Allow("1.2.3.4")
		assert.True(t, allowed, "attempt %d should pass", i+1)
		assert.Equal(t, 3-i-1, info.Remaining)
	}

	allowed, info := limiter.Allow("1.2.3.4")
	assert.False(t, allowed)
	assert.Greater(t, info.RetryAfter, time.Duration(0))
}

func TestLimitIsPerIdentifier(t *testing.T) {
	limiter := NewMemoryRateLimiter(&Config{
		WindowSize:    time.Minute,
		MaxAttempts:   1,
		CleanupPeriod: time.Minute,
	})
	defer limiter.Close()

	allowed, _ := limiter.Allow("a")
	require.True(t, allowed)
	allowed, _ = limiter.Allow("a")
	require.False(t, allowed)

	allowed, _ = limiter.Allow("b")
	assert.True(t, allowed, "other identifiers are unaffected")
}

func TestWindowRollsOver(t *testing.T) {
	limiter := NewMemoryRateLimiter(&Config{
		WindowSize:    20 * time.Millisecond,
		MaxAttempts:   1,
		CleanupPeriod: time.Minute,
	})
	defer limiter.Close()

	allowed, _ := limiter.Allow("a")
	require.True(t, allowed)
	allowed, _ = limiter.Allow("a")
	require.False(t, allowed)

	time.Sleep(30 * time.Millisecond)

	allowed, _ = limiter.Allow("a")
	assert.True(t, allowed, "a fresh window resets the count")
}

func TestGetClientIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.0.0.1:5000"
	assert.Equal(t, "10.0.0.1", GetClientIP(req))

	req.Header.Set("X-Real-IP", "10.0.0.2")
	assert.Equal(t, "10.0.0.2", GetClientIP(req))

	req.Header.Set("X-Forwarded-For", "10.0.0.3, 10.0.0.4")
	assert.Equal(t, "10.0.0.3", GetClientIP(req))
}
