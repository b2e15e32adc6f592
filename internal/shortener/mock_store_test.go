package shortener_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/serroba/shorty/internal/hashid"
	"github.com/serroba/shorty/internal/shortener"
	"github.com/serroba/shorty/internal/store"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var errMock = errors.New("mock error")

const testURL = "https://example.com"

// faultyStore wraps MemoryStore and fails selected primitives.
type faultyStore struct {
	*store.MemoryStore
	saveErr   error
	appendErr error
	rangeErr  error
	countErr  error
	loadErrs  map[string]error
}

func (f *faultyStore) Save(ctx context.Context, url *shortener.URL) error {
	if f.saveErr != nil {
		return f.saveErr
	}

	return f.MemoryStore.Save(ctx, url)
}

func (f *faultyStore) Load(ctx context.Context, id string) (*shortener.URL, error) {
	if err, ok := f.loadErrs[id]; ok {
		return nil, err
	}

	return f.MemoryStore.Load(ctx, id)
}

func (f *faultyStore) Append(ctx context.Context, user, id string, at time.Time) error {
	if f.appendErr != nil {
		return f.appendErr
	}

	return f.MemoryStore.Append(ctx, user, id, at)
}

func (f *faultyStore) RangeNewest(ctx context.Context, user string, start, stop int64) ([]string, error) {
	if f.rangeErr != nil {
		return nil, f.rangeErr
	}

	return f.MemoryStore.RangeNewest(ctx, user, start, stop)
}

func (f *faultyStore) Count(ctx context.Context, user string) (int64, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}

	return f.MemoryStore.Count(ctx, user)
}

type failingSequence struct {
	err error
}

func (f failingSequence) Next(context.Context) (uint64, error) {
	return 0, f.err
}

// tickingClock returns times one millisecond apart on every call.
func tickingClock() func() time.Time {
	now := time.UnixMilli(1_700_000_000_000)

	return func() time.Time {
		now = now.Add(time.Millisecond)

		return now
	}
}

func newEncoder(t *testing.T) *hashid.Encoder {
	t.Helper()

	enc, err := hashid.New("test-salt", 6)
	require.NoError(t, err)

	return enc
}

func newTestRepository(t *testing.T, s shortener.Store) *shortener.Repository {
	t.Helper()

	return shortener.NewRepository(
		s,
		store.NewMemorySequence(),
		store.NewMemorySequence(),
		newEncoder(t),
		zap.NewNop(),
		shortener.WithClock(tickingClock()),
	)
}
