package middleware

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// RateLimitInfo feeds the X-RateLimit-* response headers
type RateLimitInfo struct {
	Limit     int
	Remaining int
	ResetTime time.Time
}

type rateLimitEntry struct {
	count     int
	resetTime time.Time
}

// RateLimiter counts requests per client in fixed windows
type RateLimiter struct {
	limit   int
	window  time.Duration
	now     func() time.Time
	mu      sync.Mutex
	entries map[string]*rateLimitEntry
}

// NewRateLimiter allows limit requests per client every window. limit <= 0 disables limiting.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{
		limit:   limit,
		window:  window,
		now:     time.Now,
		entries: make(map[string]*rateLimitEntry),
	}
}

// Allow records one request from client and reports whether it fits the window
func (rl *RateLimiter) Allow(client string) (bool, RateLimitInfo) {
	if rl.limit <= 0 {
		return true, RateLimitInfo{Limit: -1, Remaining: -1}
	}

	now := rl.now()
	rl.mu.Lock()
	defer rl.mu.Unlock()

	// expired windows are dropped here instead of by a ticker
	for key, e := range rl.entries {
		if now.After(e.resetTime) {
			delete(rl.entries, key)
		}
	}

	entry, ok := rl.entries[client]
	if !ok {
		entry = &rateLimitEntry{resetTime: now.Add(rl.window)}
		rl.entries[client] = entry
	}

	info := RateLimitInfo{Limit: rl.limit, ResetTime: entry.resetTime}
	if entry.count >= rl.limit {
		return false, info
	}
	entry.count++
	info.Remaining = rl.limit - entry.count
	return true, info
}

// RateLimit throttles requests per client IP
func RateLimit(rl *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientIP := getClientIP(r)
			allowed, info := rl.Allow(clientIP)
			setRateLimitHeaders(w, info)

			if !allowed {
				slog.Warn("Rate limit exceeded",
					"client_ip", clientIP,
					"path", r.URL.Path,
					"limit", info.Limit,
					"reset_time", info.ResetTime.Format(time.RFC3339))
				retry := time.Until(info.ResetTime).Seconds()
				w.Header().Set("Retry-After", fmt.Sprintf("%.0f", retry))
				writeErrorResponse(w, r, http.StatusTooManyRequests, "Demasiados intentos, inténtalo más tarde")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// getClientIP keys on the connection address; forwarding headers are not trusted.
func getClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func setRateLimitHeaders(w http.ResponseWriter, info RateLimitInfo) {
	if info.Limit < 0 {
		return
	}
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
	if !info.ResetTime.IsZero() {
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}
