package handlers_test

import (
	"context"

	"github.com/serroba/shorty/internal/shortener"
)

// mockService is a test double for URLService that can be configured to return errors.
type mockService struct {
	shortenErr   error
	getErr       error
	newUserErr   error
	listErr      error
	shortenCalls int
}

func (m *mockService) Shorten(_ context.Context, url, _ string) (*shortener.URL, error) {
	m.shortenCalls++

	if m.shortenErr != nil {
		return nil, m.shortenErr
	}

	return &shortener.URL{ID: "abc123", URL: url}, nil
}

func (m *mockService) Get(_ context.Context, id string) (*shortener.URL, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}

	return &shortener.URL{ID: id, URL: testURL}, nil
}

func (m *mockService) NewUser(_ context.Context) (string, error) {
	if m.newUserErr != nil {
		return "", m.newUserErr
	}

	return "user", nil
}

func (m *mockService) URLsForUser(_ context.Context, _ string, _ int64) (*shortener.Paginated[*shortener.URL], error) {
	if m.listErr != nil {
		return nil, m.listErr
	}

	return &shortener.Paginated[*shortener.URL]{Results: []*shortener.URL{}}, nil
}
