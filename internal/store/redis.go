package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/shorty/internal/shortener"
)

const (
	// URLCounterKey backs the short code sequence.
	URLCounterKey = "url_shortener:url_counter"
	// UserCounterKey backs the user token sequence.
	UserCounterKey = "url_shortener:user_counter"

	urlsKey  = "url_shortener:urls"
	usersKey = "url_shortener:users"
)

// incrementScript bumps the counter only when the record exists, so a visit
// to an unknown code never creates a partial hash.
var incrementScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
	return false
end
return redis.call("HINCRBY", KEYS[1], "count", 1)
`)

// RedisStore is a Redis implementation of shortener.Store.
// Records are hashes at url_shortener:urls:<code>; histories are sorted sets
// at url_shortener:users:<user> scored by creation time in milliseconds.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore creates a new Redis-backed URL store.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func urlKey(id string) string {
	return urlsKey + ":" + id
}

func userKey(user string) string {
	return usersKey + ":" + user
}

func (r *RedisStore) Save(ctx context.Context, url *shortener.URL) error {
	err := r.client.HSet(ctx, urlKey(url.ID),
		"id", url.ID,
		"url", url.URL,
		"count", url.Count,
	).Err()

	return wrapErr("save "+url.ID, err)
}

func (r *RedisStore) Load(ctx context.Context, id string) (*shortener.URL, error) {
	values, err := r.client.HMGet(ctx, urlKey(id), "id", "url", "count").Result()
	if err != nil {
		return nil, wrapErr("load "+id, err)
	}

	if values[0] == nil && values[1] == nil && values[2] == nil {
		return nil, shortener.ErrNotFound
	}

	code, okID := values[0].(string)
	target, okURL := values[1].(string)
	rawCount, okCount := values[2].(string)

	if !okID || !okURL || !okCount {
		return nil, fmt.Errorf("load %s: %w: incomplete record", id, shortener.ErrStorage)
	}

	count, err := strconv.ParseUint(rawCount, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w: bad count: %w", id, shortener.ErrStorage, err)
	}

	return &shortener.URL{ID: code, URL: target, Count: count}, nil
}

func (r *RedisStore) Increment(ctx context.Context, id string) (uint64, error) {
	count, err := incrementScript.Run(ctx, r.client, []string{urlKey(id)}).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, fmt.Errorf("increment %s: %w: no such record", id, shortener.ErrStorage)
		}

		return 0, wrapErr("increment "+id, err)
	}

	return uint64(count), nil
}

func (r *RedisStore) Append(ctx context.Context, user, id string, at time.Time) error {
	err := r.client.ZAdd(ctx, userKey(user), redis.Z{
		Score:  float64(at.UnixMilli()),
		Member: id,
	}).Err()

	return wrapErr("append "+id, err)
}

func (r *RedisStore) RangeNewest(ctx context.Context, user string, start, stop int64) ([]string, error) {
	if start >= stop {
		return []string{}, nil
	}

	ids, err := r.client.ZRevRange(ctx, userKey(user), start, stop-1).Result()
	if err != nil {
		return nil, wrapErr("range "+user, err)
	}

	return ids, nil
}

func (r *RedisStore) Count(ctx context.Context, user string) (int64, error) {
	n, err := r.client.ZCard(ctx, userKey(user)).Result()
	if err != nil {
		return 0, wrapErr("count "+user, err)
	}

	return n, nil
}

// RedisSequence is a shortener.Sequence backed by INCR on a single key.
type RedisSequence struct {
	client redis.UniversalClient
	key    string
}

// NewRedisSequence creates a sequence stored at key.
func NewRedisSequence(client redis.UniversalClient, key string) *RedisSequence {
	return &RedisSequence{client: client, key: key}
}

func (s *RedisSequence) Next(ctx context.Context) (uint64, error) {
	n, err := s.client.Incr(ctx, s.key).Result()
	if err != nil {
		return 0, wrapErr("next "+s.key, err)
	}

	return uint64(n), nil
}

// Compile-time checks.
var (
	_ shortener.Store    = (*RedisStore)(nil)
	_ shortener.Sequence = (*RedisSequence)(nil)
)
