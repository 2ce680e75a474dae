package response

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	domainerrors "payportal.backend/internal/domain/errors"
)

func run(handler gin.HandlerFunc) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/", handler)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	return w
}

func TestSuccess(t *testing.T) {
	w := run(func(c *gin.Context) {
		Success(c, http.StatusOK, gin.H{"id": 1})
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":{"id":1}}`, w.Body.String())
}

func TestSuccessWithMessage(t *testing.T) {
	w := run(func(c *gin.Context) {
		SuccessWithMessage(c, http.StatusOK, "logged out", nil)
	})
	assert.JSONEq(t, `{"success":true,"message":"logged out"}`, w.Body.String())
}

func TestError_AppErrorPassesThrough(t *testing.T) {
	w := run(func(c *gin.Context) {
		Error(c, domainerrors.Conflict("email already registered"))
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"email already registered"}`, w.Body.String())
}

func TestError_SentinelMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{domainerrors.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("wrapped: %w", domainerrors.ErrAlreadyExists), http.StatusConflict},
		{fmt.Errorf("amount out of range: %w", domainerrors.ErrInvalidInput), http.StatusBadRequest},
		{domainerrors.ErrInvalidCredentials, http.StatusUnauthorized},
		{domainerrors.ErrUnauthorized, http.StatusUnauthorized},
		{domainerrors.ErrForbidden, http.StatusForbidden},
		{domainerrors.ErrRateLimited, http.StatusTooManyRequests},
	}
	for _, tt := range tests {
		w := run(func(c *gin.Context) {
			Error(c, tt.err)
		})
		assert.Equal(t, tt.status, w.Code, tt.err.Error())
	}
}

func TestError_UnknownErrorIsOpaque(t *testing.T) {
	w := run(func(c *gin.Context) {
		Error(c, errors.New("pq: connection refused"))
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
	assert.Contains(t, w.Body.String(), "internal server error")
}

func TestAbortError_StopsChain(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	reached := false
	router.GET("/", func(c *gin.Context) {
		AbortError(c, domainerrors.Unauthorized("no"))
	}, func(c *gin.Context) {
		reached = true
	})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, reached)
}
