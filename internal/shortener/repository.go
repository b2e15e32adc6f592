package shortener

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Sequence hands out strictly increasing values, unique across every caller of the same counter.
type Sequence interface {
	Next(ctx context.Context) (uint64, error)
}

// Encoder maps sequence values to short codes. It must be injective.
type Encoder interface {
	Encode(n uint64) (string, error)
}

// Store holds URL records and per-user history indexes.
// Implementations provide single-key atomicity only.
type Store interface {
	// Save writes a new record keyed by its ID.
	Save(ctx context.Context, url *URL) error

	// Load returns the record for id, or ErrNotFound.
	Load(ctx context.Context, id string) (*URL, error)

	// Increment atomically adds one to the record's counter and returns the new value.
	// It fails with ErrStorage when the record does not exist.
	Increment(ctx context.Context, id string) (uint64, error)

	// Append adds id to the user's history, ordered by at.
	Append(ctx context.Context, user, id string, at time.Time) error

	// RangeNewest returns history ids newest first for ranks [start, stop).
	RangeNewest(ctx context.Context, user string, start, stop int64) ([]string, error)

	// Count returns the number of entries in the user's history.
	Count(ctx context.Context, user string) (int64, error)
}

// Repository mints codes and user tokens and reads and writes URL records.
type Repository struct {
	store   Store
	urls    Sequence
	users   Sequence
	encoder Encoder
	logger  *zap.Logger
	now     func() time.Time
}

// RepositoryOption customizes a Repository.
type RepositoryOption func(*Repository)

// WithClock overrides the clock used to order history entries.
func WithClock(now func() time.Time) RepositoryOption {
	return func(r *Repository) {
		r.now = now
	}
}

// NewRepository creates a repository. urls and users must be independent counters.
func NewRepository(
	store Store,
	urls, users Sequence,
	encoder Encoder,
	logger *zap.Logger,
	opts ...RepositoryOption,
) *Repository {
	r := &Repository{
		store:   store,
		urls:    urls,
		users:   users,
		encoder: encoder,
		logger:  logger,
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Generate allocates a new code for url and stores the record with a zero count.
// A code allocated for a failed write is never reused.
func (r *Repository) Generate(ctx context.Context, url string) (*URL, error) {
	code, err := r.mint(ctx, r.urls)
	if err != nil {
		return nil, err
	}

	record := &URL{ID: code, URL: url}

	if err := r.store.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("save %s: %w", code, err)
	}

	return record, nil
}

// Get returns the record for id without touching its counter.
func (r *Repository) Get(ctx context.Context, id string) (*URL, error) {
	return r.store.Load(ctx, id)
}

// IncrementCounter adds exactly one visit to the record at id.
func (r *Repository) IncrementCounter(ctx context.Context, id string) (bool, error) {
	if _, err := r.store.Increment(ctx, id); err != nil {
		return false, err
	}

	return true, nil
}

// NewUser mints an opaque user token. No user record is written.
func (r *Repository) NewUser(ctx context.Context) (string, error) {
	return r.mint(ctx, r.users)
}

// GenerateForUser creates a record and appends it to the user's history.
// The history append is best effort: on failure the URL still resolves by code.
func (r *Repository) GenerateForUser(ctx context.Context, url, user string) (*URL, error) {
	record, err := r.Generate(ctx, url)
	if err != nil {
		return nil, err
	}

	if err := r.store.Append(ctx, user, record.ID, r.now()); err != nil {
		r.logger.Warn("failed to index url for user",
			zap.String("code", record.ID),
			zap.String("user", user),
			zap.Error(err),
		)
	}

	return record, nil
}

// URLsForUser returns the user's URLs newest first for history ranks [start, stop).
// Indexed codes without a record are skipped, so fewer than stop-start URLs may be returned.
func (r *Repository) URLsForUser(ctx context.Context, user string, start, stop int64) ([]*URL, error) {
	if stop <= start {
		return []*URL{}, nil
	}

	ids, err := r.store.RangeNewest(ctx, user, start, stop)
	if err != nil {
		return nil, err
	}

	urls := make([]*URL, 0, len(ids))

	for _, id := range ids {
		url, err := r.store.Load(ctx, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}

			return nil, err
		}

		urls = append(urls, url)
	}

	return urls, nil
}

// CountURLsForUser returns the number of history entries, resolvable or not.
func (r *Repository) CountURLsForUser(ctx context.Context, user string) (int64, error) {
	return r.store.Count(ctx, user)
}

func (r *Repository) mint(ctx context.Context, seq Sequence) (string, error) {
	n, err := seq.Next(ctx)
	if err != nil {
		return "", err
	}

	code, err := r.encoder.Encode(n)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrStorage, err)
	}

	return code, nil
}
