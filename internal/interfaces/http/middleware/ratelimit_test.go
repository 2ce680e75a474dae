package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_Allow(t *testing.T) {
	limiter := NewRateLimiter()

	for i := 0; i < 5; i++ {
		assert.True(t, limiter.Allow("login:1.2.3.4", 5, time.Minute), "request %d", i+1)
	}
	assert.False(t, limiter.Allow("login:1.2.3.4", 5, time.Minute), "sixth request")
}

func TestRateLimiter_KeysAreIndependent(t *testing.T) {
	limiter := NewRateLimiter()

	assert.True(t, limiter.Allow("login:1.2.3.4", 1, time.Minute))
	assert.False(t, limiter.Allow("login:1.2.3.4", 1, time.Minute))

	assert.True(t, limiter.Allow("login:5.6.7.8", 1, time.Minute))
	assert.True(t, limiter.Allow("register:1.2.3.4", 1, time.Minute))
}

func TestRateLimiter_WindowExpires(t *testing.T) {
	limiter := NewRateLimiter()
	current := time.Now()
	limiter.now = func() time.Time { return current }

	assert.True(t, limiter.Allow("k", 1, time.Minute))
	assert.False(t, limiter.Allow("k", 1, time.Minute))

	current = current.Add(61 * time.Second)
	assert.True(t, limiter.Allow("k", 1, time.Minute))
}

func TestRateLimiter_Reset(t *testing.T) {
	limiter := NewRateLimiter()

	assert.True(t, limiter.Allow("k", 1, time.Minute))
	assert.False(t, limiter.Allow("k", 1, time.Minute))

	limiter.Reset()
	assert.True(t, limiter.Allow("k", 1, time.Minute))
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	limiter := NewRateLimiter()
	router := gin.New()
	router.POST("/login", RateLimit(limiter, "login", 2, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	do := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "9.9.9.9:1234"
		router.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, do().Code)
	assert.Equal(t, http.StatusOK, do().Code)

	blocked := do()
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.Contains(t, blocked.Body.String(), `"success":false`)
}
