package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payportal.backend/internal/domain/entities"
	"payportal.backend/pkg/redis"
)

func setupMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() {
		mr.Close()
		redis.SetClient(nil)
	})
	redis.SetClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	return mr
}

func idempotencyRouter(principal *entities.Principal, handlerStatus int, calls *int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/pay", func(c *gin.Context) {
		if principal != nil {
			c.Set(PrincipalKey, principal)
		}
		c.Next()
	}, Idempotency(), func(c *gin.Context) {
		*calls++
		c.JSON(handlerStatus, gin.H{"success": handlerStatus < 300, "data": gin.H{"n": *calls}})
	})
	return router
}

func doPay(router *gin.Engine, key string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/pay", nil)
	if key != "" {
		req.Header.Set(IdempotencyHeader, key)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestIdempotency_ReplaysStoredResponse(t *testing.T) {
	setupMiniredis(t)
	principal := &entities.Principal{UserID: uuid.New()}
	calls := 0
	router := idempotencyRouter(principal, http.StatusOK, &calls)

	first := doPay(router, "key-1")
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Empty(t, first.Header().Get("X-Idempotency-Hit"))

	second := doPay(router, "key-1")
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "true", second.Header().Get("X-Idempotency-Hit"))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, calls)
}

func TestIdempotency_DistinctKeysProcessSeparately(t *testing.T) {
	setupMiniredis(t)
	principal := &entities.Principal{UserID: uuid.New()}
	calls := 0
	router := idempotencyRouter(principal, http.StatusOK, &calls)

	doPay(router, "key-a")
	doPay(router, "key-b")
	assert.Equal(t, 2, calls)
}

func TestIdempotency_FailedResponseStaysRetryable(t *testing.T) {
	setupMiniredis(t)
	principal := &entities.Principal{UserID: uuid.New()}
	calls := 0
	router := idempotencyRouter(principal, http.StatusBadRequest, &calls)

	doPay(router, "key-1")
	doPay(router, "key-1")
	assert.Equal(t, 2, calls)
}

func TestIdempotency_InProgressConflicts(t *testing.T) {
	mr := setupMiniredis(t)
	principal := &entities.Principal{UserID: uuid.New()}
	calls := 0
	router := idempotencyRouter(principal, http.StatusOK, &calls)

	mr.Set("idempotency:"+principal.UserID.String()+":key-1", "processing")

	w := doPay(router, "key-1")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, 0, calls)
}

func TestIdempotency_NoHeaderPassesThrough(t *testing.T) {
	setupMiniredis(t)
	principal := &entities.Principal{UserID: uuid.New()}
	calls := 0
	router := idempotencyRouter(principal, http.StatusOK, &calls)

	doPay(router, "")
	doPay(router, "")
	assert.Equal(t, 2, calls)
}

func TestIdempotency_NoRedisPassesThrough(t *testing.T) {
	redis.SetClient(nil)
	principal := &entities.Principal{UserID: uuid.New()}
	calls := 0
	router := idempotencyRouter(principal, http.StatusOK, &calls)

	doPay(router, "key-1")
	doPay(router, "key-1")
	assert.Equal(t, 2, calls)
}

func TestIdempotency_NoPrincipalPassesThrough(t *testing.T) {
	setupMiniredis(t)
	calls := 0
	router := idempotencyRouter(nil, http.StatusOK, &calls)

	doPay(router, "key-1")
	doPay(router, "key-1")
	assert.Equal(t, 2, calls)
}
