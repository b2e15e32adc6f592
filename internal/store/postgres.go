package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/shorty/internal/shortener"
)

// PostgresStore is a PostgreSQL implementation of shortener.Store.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed URL store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (p *PostgresStore) Save(ctx context.Context, url *shortener.URL) error {
	query := `
		INSERT INTO urls (id, url, count)
		VALUES ($1, $2, $3)
	`

	_, err := p.pool.Exec(ctx, query, url.ID, url.URL, int64(url.Count))

	return wrapErr("save "+url.ID, err)
}

func (p *PostgresStore) Load(ctx context.Context, id string) (*shortener.URL, error) {
	query := `
		SELECT id, url, count
		FROM urls
		WHERE id = $1
	`

	var (
		url   shortener.URL
		count int64
	)

	err := p.pool.QueryRow(ctx, query, id).Scan(&url.ID, &url.URL, &count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shortener.ErrNotFound
		}

		return nil, wrapErr("load "+id, err)
	}

	if count < 0 {
		return nil, fmt.Errorf("load %s: %w: negative count", id, shortener.ErrStorage)
	}

	url.Count = uint64(count)

	return &url, nil
}

func (p *PostgresStore) Increment(ctx context.Context, id string) (uint64, error) {
	query := `
		UPDATE urls
		SET count = count + 1
		WHERE id = $1
		RETURNING count
	`

	var count int64

	err := p.pool.QueryRow(ctx, query, id).Scan(&count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("increment %s: %w: no such record", id, shortener.ErrStorage)
		}

		return 0, wrapErr("increment "+id, err)
	}

	return uint64(count), nil
}

func (p *PostgresStore) Append(ctx context.Context, user, id string, at time.Time) error {
	query := `
		INSERT INTO user_urls (user_id, url_id, created_ms)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, url_id) DO UPDATE SET created_ms = EXCLUDED.created_ms
	`

	_, err := p.pool.Exec(ctx, query, user, id, at.UnixMilli())

	return wrapErr("append "+id, err)
}

func (p *PostgresStore) RangeNewest(ctx context.Context, user string, start, stop int64) ([]string, error) {
	if start < 0 {
		start = 0
	}

	if start >= stop {
		return []string{}, nil
	}

	query := `
		SELECT url_id
		FROM user_urls
		WHERE user_id = $1
		ORDER BY created_ms DESC, url_id DESC
		OFFSET $2
		LIMIT $3
	`

	rows, err := p.pool.Query(ctx, query, user, start, stop-start)
	if err != nil {
		return nil, wrapErr("range "+user, err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, wrapErr("range "+user, err)
	}

	return ids, nil
}

func (p *PostgresStore) Count(ctx context.Context, user string) (int64, error) {
	var n int64

	err := p.pool.QueryRow(ctx, `SELECT count(*) FROM user_urls WHERE user_id = $1`, user).Scan(&n)
	if err != nil {
		return 0, wrapErr("count "+user, err)
	}

	return n, nil
}

// PostgresSequence is a shortener.Sequence stored as a row in the counters table.
type PostgresSequence struct {
	pool *pgxpool.Pool
	name string
}

// NewPostgresSequence creates a sequence for the named counter row.
func NewPostgresSequence(pool *pgxpool.Pool, name string) *PostgresSequence {
	return &PostgresSequence{pool: pool, name: name}
}

func (s *PostgresSequence) Next(ctx context.Context) (uint64, error) {
	query := `
		INSERT INTO counters (name, value)
		VALUES ($1, 1)
		ON CONFLICT (name) DO UPDATE SET value = counters.value + 1
		RETURNING value
	`

	var n int64

	if err := s.pool.QueryRow(ctx, query, s.name).Scan(&n); err != nil {
		return 0, wrapErr("next "+s.name, err)
	}

	return uint64(n), nil
}

// Compile-time checks.
var (
	_ shortener.Store    = (*PostgresStore)(nil)
	_ shortener.Sequence = (*PostgresSequence)(nil)
)
