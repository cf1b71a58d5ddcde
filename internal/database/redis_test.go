package database_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/database"
)

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)

	t.Run("host and port", func(t *testing.T) {
		cfg := &config.Config{RedisHost: mr.Host(), RedisPort: mr.Port()}
		client, err := database.NewRedisClient(context.Background(), cfg, zap.NewNop())
		require.NoError(t, err)
		defer client.Close()
		assert.Equal(t, mr.Addr(), client.Options().Addr)
	})

	t.Run("url wins", func(t *testing.T) {
		cfg := &config.Config{RedisHost: "unused", RedisPort: "1", RedisURL: "redis://" + mr.Addr() + "/2"}
		client, err := database.NewRedisClient(context.Background(), cfg, zap.NewNop())
		require.NoError(t, err)
		defer client.Close()
		assert.Equal(t, 2, client.Options().DB)
	})

	t.Run("bad url", func(t *testing.T) {
		_, err := database.NewRedisClient(context.Background(), &config.Config{RedisURL: "mysql://nope"}, zap.NewNop())
		assert.Error(t, err)
	})

	t.Run("unreachable", func(t *testing.T) {
		down := miniredis.RunT(t)
		addr := down.Addr()
		down.Close()
		cfg := &config.Config{RedisURL: "redis://" + addr}
		_, err := database.NewRedisClient(context.Background(), cfg, zap.NewNop())
		assert.ErrorContains(t, err, "ping redis")
	})
}
