package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"syscall"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/serroba/shorty/internal/shortener"
)

// wrapErr tags a driver error as either unavailable or a plain storage failure.
func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}

	if unavailable(err) {
		return fmt.Errorf("%s: %w: %w", op, shortener.ErrStorageUnavailable, err)
	}

	return fmt.Errorf("%s: %w: %w", op, shortener.ErrStorage, err)
}

func unavailable(err error) bool {
	var (
		netErr     net.Error
		connectErr *pgconn.ConnectError
	)

	switch {
	case errors.As(err, &netErr), errors.As(err, &connectErr):
		return true
	case errors.Is(err, redis.ErrClosed),
		errors.Is(err, redis.ErrPoolTimeout),
		errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, io.EOF),
		errors.Is(err, context.DeadlineExceeded):
		return true
	default:
		return false
	}
}
