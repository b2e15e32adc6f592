package shortener

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
)

const (
	// PageSize is the number of URLs in one page of a user's history.
	PageSize int64 = 25

	// MaxPage is the highest page whose history ranks fit in an int64.
	MaxPage = math.MaxInt64/PageSize - 1

	visitCountTimeout = 5 * time.Second
)

// URLRepository is the storage contract the Service depends on.
type URLRepository interface {
	Get(ctx context.Context, id string) (*URL, error)
	IncrementCounter(ctx context.Context, id string) (bool, error)
	NewUser(ctx context.Context) (string, error)
	GenerateForUser(ctx context.Context, url, user string) (*URL, error)
	URLsForUser(ctx context.Context, user string, start, stop int64) ([]*URL, error)
	CountURLsForUser(ctx context.Context, user string) (int64, error)
}

// Service implements shortening, resolution and history browsing.
type Service struct {
	repo   URLRepository
	logger *zap.Logger
}

// NewService creates a new URL service.
func NewService(repo URLRepository, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Shorten creates a short code for url and records it in the user's history.
// url must already be validated.
func (s *Service) Shorten(ctx context.Context, url, user string) (*URL, error) {
	return s.repo.GenerateForUser(ctx, url, user)
}

// Get resolves a code and counts the visit.
// Counting failures are logged and never fail the lookup.
func (s *Service) Get(ctx context.Context, id string) (*URL, error) {
	url, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	// The visit is counted even if the caller goes away, but never waits forever.
	countCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), visitCountTimeout)
	defer cancel()

	if _, err := s.repo.IncrementCounter(countCtx, id); err != nil {
		s.logger.Warn("failed to count visit",
			zap.String("code", id),
			zap.Error(err),
		)
	}

	return url, nil
}

// NewUser mints a new anonymous user token.
func (s *Service) NewUser(ctx context.Context) (string, error) {
	return s.repo.NewUser(ctx)
}

// URLsForUser returns a page of the user's history, newest first.
// A failing count degrades to an empty total instead of failing the page.
func (s *Service) URLsForUser(ctx context.Context, user string, page int64) (*Paginated[*URL], error) {
	if page < 0 || page > MaxPage {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPage, page)
	}

	start := PageSize * page
	stop := start + PageSize

	total, err := s.repo.CountURLsForUser(ctx, user)
	if err != nil {
		s.logger.Warn("failed to count user urls",
			zap.String("user", user),
			zap.Error(err),
		)

		total = 0
	}

	results, err := s.repo.URLsForUser(ctx, user, start, stop)
	if err != nil {
		return nil, err
	}

	// Integer division: a trailing partial page does not add to PageCount.
	pageCount := total / PageSize

	result := &Paginated[*URL]{
		Total:     total,
		PageCount: pageCount,
		Results:   results,
	}

	if page < pageCount-1 {
		next := page + 1
		result.Next = &next
	}

	if page > 0 {
		prev := page - 1
		result.Prev = &prev
	}

	return result, nil
}
