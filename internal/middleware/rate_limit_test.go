package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiterWindow(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	allowed, info := rl.Allow("10.0.0.1")
	assert.True(t, allowed)
	assert.Equal(t, 1, info.Remaining)

	allowed, _ = rl.Allow("10.0.0.1")
	assert.True(t, allowed)
	allowed, info = rl.Allow("10.0.0.1")
	assert.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)

	allowed, _ = rl.Allow("10.0.0.2")
	assert.True(t, allowed, "clients are counted separately")

	now = now.Add(61 * time.Second)
	allowed, _ = rl.Allow("10.0.0.1")
	assert.True(t, allowed, "a new window starts after reset")
}

func TestRateLimiterDisabled(t *testing.T) {
	rl := NewRateLimiter(0, time.Minute)
	for i := 0; i < 100; i++ {
		allowed, info := rl.Allow("10.0.0.1")
		require.True(t, allowed)
		assert.Equal(t, -1, info.Limit)
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	h := RateLimit(NewRateLimiter(1, time.Minute))(ok)

	send := func(forwarded string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/actions/login", nil)
		if forwarded != "" {
			req.Header.Set("X-Forwarded-For", forwarded)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	first := send("")
	assert.Equal(t, http.StatusNoContent, first.Code)
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", first.Header().Get("X-RateLimit-Remaining"))

	second := send("")
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))
	assert.Contains(t, second.Body.String(), "Demasiados intentos")

	spoofed := send("203.0.113.9")
	assert.Equal(t, http.StatusTooManyRequests, spoofed.Code, "forwarding headers do not open a new window")
}
