package handlers

import (
	"context"

	"github.com/serroba/shorty/internal/shortener"
)

// URLService is the shortener workflow the HTTP layer drives.
type URLService interface {
	Shorten(ctx context.Context, url, user string) (*shortener.URL, error)
	Get(ctx context.Context, id string) (*shortener.URL, error)
	NewUser(ctx context.Context) (string, error)
	URLsForUser(ctx context.Context, user string, page int64) (*shortener.Paginated[*shortener.URL], error)
}
