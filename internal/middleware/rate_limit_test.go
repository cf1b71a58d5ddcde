package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/foodgram/backend/internal/middleware"
)

func newLimiter(t *testing.T, limit int) (*middleware.RateLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return middleware.NewWriteRateLimiter(client, time.Minute, limit, zap.NewNop()), mr
}

func TestRateLimiterIsAllowed(t *testing.T) {
	limiter, _ := newLimiter(t, 2)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		allowed, _, _, err := limiter.IsAllowed(ctx, "user:1")
		require.NoError(t, err)
		assert.True(t, allowed)
	}
	allowed, remaining, reset, err := limiter.IsAllowed(ctx, "user:1")
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Zero(t, remaining)
	assert.True(t, reset.After(time.Now()))

	allowed, remaining, _, err = limiter.IsAllowed(ctx, "user:2")
	require.NoError(t, err)
	assert.True(t, allowed, "clients are counted separately")
	assert.Equal(t, 1, remaining)
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limiter, mr := newLimiter(t, 1)
	router := gin.New()
	router.Use(limiter.RateLimitMiddleware())
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	router.GET("/recipes", ok)
	router.POST("/recipes", ok)

	do := func(method string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(method, "/recipes", nil))
		return w
	}

	first := do(http.MethodPost)
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", first.Header().Get("X-RateLimit-Remaining"))

	assert.Equal(t, http.StatusTooManyRequests, do(http.MethodPost).Code)
	assert.Equal(t, http.StatusOK, do(http.MethodGet).Code, "reads are not limited")

	// With Redis gone the limiter fails open.
	mr.Close()
	w := do(http.MethodPost)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "rate limit check failed", w.Header().Get("X-RateLimit-Error"))
}
