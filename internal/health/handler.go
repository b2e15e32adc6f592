package health

import (
	"context"
	"sort"

	"github.com/danielgtaylor/huma/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Checker defines the interface for checking service health.
type Checker interface {
	Ping(ctx context.Context) error
}

// CheckerFunc adapts a function to Checker.
type CheckerFunc func(ctx context.Context) error

// Ping calls f.
func (f CheckerFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

// NewRedisChecker checks Redis connectivity.
func NewRedisChecker(client redis.UniversalClient) Checker {
	return CheckerFunc(func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	})
}

// NewPostgresChecker checks PostgreSQL connectivity.
func NewPostgresChecker(pool *pgxpool.Pool) Checker {
	return CheckerFunc(pool.Ping)
}

// Handler reports the health of the backing stores.
type Handler struct {
	checks map[string]Checker
}

// NewHandler creates a new health handler for the named dependencies.
func NewHandler(checks map[string]Checker) *Handler {
	return &Handler{checks: checks}
}

// Dependency is the health of one backing store.
type Dependency struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

// Response is the response for health check endpoint.
type Response struct {
	Body struct {
		Status       string       `json:"status"`
		Dependencies []Dependency `json:"dependencies"`
	}
}

// Check performs a health check of the application and its dependencies.
func (h *Handler) Check(ctx context.Context, _ *struct{}) (*Response, error) {
	resp := &Response{}
	resp.Body.Status = "ok"
	resp.Body.Dependencies = make([]Dependency, 0, len(h.checks))

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		dep := Dependency{Name: name, Status: "healthy"}

		if err := h.checks[name].Ping(ctx); err != nil {
			dep.Status = "unhealthy"
			resp.Body.Status = "degraded"
		}

		resp.Body.Dependencies = append(resp.Body.Dependencies, dep)
	}

	return resp, nil
}

// RegisterRoutes registers health check routes.
func RegisterRoutes(api huma.API, h *Handler) {
	huma.Get(api, "/health", h.Check)
}
