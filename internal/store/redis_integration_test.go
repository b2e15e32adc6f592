//go:build integration

package store_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/serroba/shorty/internal/shortener"
	"github.com/serroba/shorty/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getRedisAddr() string {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		return addr
	}
	return "localhost:6379"
}

func TestRedisStoreIntegration(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr: getRedisAddr(),
	})
	defer client.Close()

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	s := store.NewRedisStore(client)

	t.Run("save, load and increment", func(t *testing.T) {
		code := "it-" + uuid.NewString()

		err := s.Save(ctx, &shortener.URL{ID: code, URL: "https://example.com"})
		require.NoError(t, err)

		_, err = s.Increment(ctx, code)
		require.NoError(t, err)

		got, err := s.Load(ctx, code)
		require.NoError(t, err)
		assert.Equal(t, "https://example.com", got.URL)
		assert.Equal(t, uint64(1), got.Count)

		// Cleanup
		client.Del(ctx, "url_shortener:urls:"+code)
	})

	t.Run("history newest first", func(t *testing.T) {
		user := "it-" + uuid.NewString()
		now := time.Now()

		require.NoError(t, s.Append(ctx, user, "first", now))
		require.NoError(t, s.Append(ctx, user, "second", now.Add(time.Millisecond)))

		ids, err := s.RangeNewest(ctx, user, 0, 2)
		require.NoError(t, err)
		assert.Equal(t, []string{"second", "first"}, ids)

		// Cleanup
		client.Del(ctx, "url_shortener:users:"+user)
	})

	t.Run("get non-existent returns ErrNotFound", func(t *testing.T) {
		got, err := s.Load(ctx, "it-"+uuid.NewString())

		assert.Nil(t, got)
		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})
}
