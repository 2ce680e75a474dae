package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	domainerrors "payportal.backend/internal/domain/errors"
	"payportal.backend/internal/interfaces/http/response"
)

type window struct {
	count     int
	resetTime time.Time
}

// RateLimiter is a fixed-window request counter keyed by opaque strings
// (action-prefixed origin addresses). State is in-process and best-effort:
// it resets on restart, and bursts straddling a window boundary are an
// accepted limitation of the fixed-window scheme.
type RateLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	now     func() time.Time
}

// NewRateLimiter creates a new rate limiter.
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

// Allow reports whether a request under key is within maxRequests per
// windowDur. The read-check-increment runs under the lock so concurrent
// requests cannot both pass a limit they should not.
func (l *RateLimiter) Allow(key string, maxRequests int, windowDur time.Duration) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[key]
	if !ok || now.After(w.resetTime) {
		l.windows[key] = &window{count: 1, resetTime: now.Add(windowDur)}
		return true
	}

	w.count++
	return w.count <= maxRequests
}

// Reset clears all counters (used for testing).
func (l *RateLimiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.windows = make(map[string]*window)
}

// RateLimit creates a middleware limiting an action to maxRequests per
// windowDur per client origin.
func RateLimit(limiter *RateLimiter, action string, maxRequests int, windowDur time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := action + ":" + c.ClientIP()
		if !limiter.Allow(key, maxRequests, windowDur) {
			response.AbortError(c, domainerrors.RateLimited("too many requests, try again later"))
			return
		}
		c.Next()
	}
}
