package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/api"
	"github.com/pageza/foodgram/backend/internal/mocks"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

func newTestServer(t *testing.T, rdb *redis.Client) *Server {
	t.Helper()
	db := testhelpers.NewSQLiteDB(t)
	log := zap.NewNop()
	images := &mocks.MockImageStore{}

	cfg := &config.Config{
		Environment:       config.Test,
		ServerHost:        "localhost",
		ServerPort:        "0",
		CORSOrigins:       []string{"http://localhost:3000"},
		JWTSecret:         testhelpers.JWTSecret,
		RateLimitWindow:   time.Minute,
		RateLimitRequests: 1,
	}
	return New(cfg, db, rdb, api.Services{
		Auth:         service.NewAuthService(db, cfg.JWTSecret, log),
		Catalog:      service.NewCatalogService(db, log),
		Recipes:      service.NewRecipeService(db, images, log),
		Relations:    service.NewRelationService(db, images, log),
		ShoppingList: service.NewShoppingListService(db, log),
		Users:        service.NewUserService(db, log),
	}, log)
}

func TestNew(t *testing.T) {
	server := newTestServer(t, nil)
	require.NotNil(t, server)

	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/tags", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	server.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
}

func TestRateLimitedWrites(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	server := newTestServer(t, rdb)

	do := func() int {
		w := httptest.NewRecorder()
		server.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/recipes/1/favorite", nil))
		return w.Code
	}
	// Anonymous writes are rejected, but still counted.
	assert.Equal(t, http.StatusUnauthorized, do())
	assert.Equal(t, http.StatusTooManyRequests, do())
}

func TestStartStop(t *testing.T) {
	server := newTestServer(t, nil)
	done := make(chan error, 1)
	go func() { done <- server.Start() }()

	time.Sleep(50 * time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, server.Stop(ctx))
	assert.NoError(t, <-done)
}
