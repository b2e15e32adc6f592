package store_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/serroba/shorty/internal/shortener"
	"github.com/serroba/shorty/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiniRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{
		Addr:       mr.Addr(),
		MaxRetries: -1,
	})

	t.Cleanup(func() { _ = client.Close() })

	return mr, client
}

func TestRedisStore_SaveAndLoad(t *testing.T) {
	t.Run("stores record as hash", func(t *testing.T) {
		mr, client := newMiniRedis(t)
		s := store.NewRedisStore(client)

		err := s.Save(context.Background(), &shortener.URL{ID: "abc123", URL: "https://example.com"})

		require.NoError(t, err)
		assert.Equal(t, "https://example.com", mr.HGet("url_shortener:urls:abc123", "url"))
		assert.Equal(t, "0", mr.HGet("url_shortener:urls:abc123", "count"))
	})

	t.Run("loads saved record", func(t *testing.T) {
		_, client := newMiniRedis(t)
		s := store.NewRedisStore(client)
		_ = s.Save(context.Background(), &shortener.URL{ID: "abc123", URL: "https://example.com"})

		got, err := s.Load(context.Background(), "abc123")

		require.NoError(t, err)
		assert.Equal(t, &shortener.URL{ID: "abc123", URL: "https://example.com"}, got)
	})

	t.Run("returns ErrNotFound for unknown code", func(t *testing.T) {
		_, client := newMiniRedis(t)
		s := store.NewRedisStore(client)

		got, err := s.Load(context.Background(), "unknown-code")

		assert.Nil(t, got)
		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})

	t.Run("returns ErrStorage for incomplete record", func(t *testing.T) {
		mr, client := newMiniRedis(t)
		s := store.NewRedisStore(client)
		mr.HSet("url_shortener:urls:broken", "count", "3")

		_, err := s.Load(context.Background(), "broken")

		assert.ErrorIs(t, err, shortener.ErrStorage)
		assert.NotErrorIs(t, err, shortener.ErrNotFound)
	})

	t.Run("returns ErrStorage for malformed count", func(t *testing.T) {
		mr, client := newMiniRedis(t)
		s := store.NewRedisStore(client)
		mr.HSet("url_shortener:urls:broken", "id", "broken", "url", "https://example.com", "count", "many")

		_, err := s.Load(context.Background(), "broken")

		assert.ErrorIs(t, err, shortener.ErrStorage)
	})
}

func TestRedisStore_Increment(t *testing.T) {
	t.Run("increments existing record", func(t *testing.T) {
		_, client := newMiniRedis(t)
		s := store.NewRedisStore(client)
		_ = s.Save(context.Background(), &shortener.URL{ID: "abc123", URL: "https://example.com"})

		n, err := s.Increment(context.Background(), "abc123")
		require.NoError(t, err)
		assert.Equal(t, uint64(1), n)

		got, _ := s.Load(context.Background(), "abc123")
		assert.Equal(t, uint64(1), got.Count)
	})

	t.Run("fails for missing record without creating it", func(t *testing.T) {
		mr, client := newMiniRedis(t)
		s := store.NewRedisStore(client)

		_, err := s.Increment(context.Background(), "missing")

		assert.ErrorIs(t, err, shortener.ErrStorage)
		assert.False(t, mr.Exists("url_shortener:urls:missing"))
	})

	t.Run("concurrent increments are not lost", func(t *testing.T) {
		_, client := newMiniRedis(t)
		s := store.NewRedisStore(client)
		_ = s.Save(context.Background(), &shortener.URL{ID: "abc123", URL: "https://example.com"})

		var wg sync.WaitGroup

		for range 50 {
			wg.Add(1)

			go func() {
				defer wg.Done()

				_, err := s.Increment(context.Background(), "abc123")
				assert.NoError(t, err)
			}()
		}

		wg.Wait()

		got, _ := s.Load(context.Background(), "abc123")
		assert.Equal(t, uint64(50), got.Count)
	})
}

func TestRedisStore_History(t *testing.T) {
	base := time.UnixMilli(1_700_000_000_000)

	t.Run("ranges newest first", func(t *testing.T) {
		_, client := newMiniRedis(t)
		s := store.NewRedisStore(client)
		ctx := context.Background()

		for i, id := range []string{"a", "b", "c", "d"} {
			require.NoError(t, s.Append(ctx, "user", id, base.Add(time.Duration(i)*time.Millisecond)))
		}

		all, err := s.RangeNewest(ctx, "user", 0, 25)
		require.NoError(t, err)
		assert.Equal(t, []string{"d", "c", "b", "a"}, all)

		window, err := s.RangeNewest(ctx, "user", 1, 3)
		require.NoError(t, err)
		assert.Equal(t, []string{"c", "b"}, window)
	})

	t.Run("empty range for unknown user", func(t *testing.T) {
		_, client := newMiniRedis(t)
		s := store.NewRedisStore(client)

		ids, err := s.RangeNewest(context.Background(), "nobody", 0, 25)

		require.NoError(t, err)
		assert.Empty(t, ids)
	})

	t.Run("counts entries", func(t *testing.T) {
		_, client := newMiniRedis(t)
		s := store.NewRedisStore(client)
		ctx := context.Background()

		_ = s.Append(ctx, "user", "a", base)
		_ = s.Append(ctx, "user", "b", base)

		n, err := s.Count(ctx, "user")

		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
	})
}

func TestRedisStore_Errors(t *testing.T) {
	t.Run("server errors are storage errors", func(t *testing.T) {
		mr, client := newMiniRedis(t)
		s := store.NewRedisStore(client)
		mr.SetError("ERR something broke")

		_, err := s.Count(context.Background(), "user")

		assert.ErrorIs(t, err, shortener.ErrStorage)
		assert.NotErrorIs(t, err, shortener.ErrStorageUnavailable)
	})

	t.Run("unreachable server is unavailable", func(t *testing.T) {
		mr, client := newMiniRedis(t)
		s := store.NewRedisStore(client)
		mr.Close()

		_, err := s.Load(context.Background(), "abc123")

		assert.ErrorIs(t, err, shortener.ErrStorageUnavailable)
	})
}

func TestRedisSequence(t *testing.T) {
	t.Run("independent keys count independently", func(t *testing.T) {
		_, client := newMiniRedis(t)
		urls := store.NewRedisSequence(client, store.URLCounterKey)
		users := store.NewRedisSequence(client, store.UserCounterKey)

		a, _ := urls.Next(context.Background())
		b, _ := urls.Next(context.Background())
		u, _ := users.Next(context.Background())

		assert.Equal(t, uint64(1), a)
		assert.Equal(t, uint64(2), b)
		assert.Equal(t, uint64(1), u)
	})

	t.Run("concurrent calls return distinct values above the starting point", func(t *testing.T) {
		mr, client := newMiniRedis(t)
		require.NoError(t, mr.Set(store.URLCounterKey, "1000"))

		seq := store.NewRedisSequence(client, store.URLCounterKey)

		const n = 100

		values := make(chan uint64, n)

		var wg sync.WaitGroup

		for range n {
			wg.Add(1)

			go func() {
				defer wg.Done()

				v, err := seq.Next(context.Background())
				assert.NoError(t, err)

				values <- v
			}()
		}

		wg.Wait()
		close(values)

		seen := make(map[uint64]struct{}, n)
		for v := range values {
			assert.Greater(t, v, uint64(1000))
			seen[v] = struct{}{}
		}

		assert.Len(t, seen, n)
	})

	t.Run("unreachable server is unavailable", func(t *testing.T) {
		mr, client := newMiniRedis(t)
		seq := store.NewRedisSequence(client, store.URLCounterKey)
		mr.Close()

		_, err := seq.Next(context.Background())

		assert.ErrorIs(t, err, shortener.ErrStorageUnavailable)
	})
}
