package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/shorty/internal/analytics"
	"github.com/serroba/shorty/internal/messaging"
	"github.com/serroba/shorty/internal/shortener"
	"go.uber.org/zap"
)

const (
	// UserCookie holds the anonymous user token.
	UserCookie = "auth"

	userCookieMaxAge = 10 * 365 * 24 * time.Hour
)

// URLHandler handles URL shortening operations.
type URLHandler struct {
	service           URLService
	links             *shortener.LinkBuilder
	publishURLCreated messaging.Publish[analytics.URLCreatedEvent]
	publishURLVisited messaging.Publish[analytics.URLVisitedEvent]
	logger            *zap.Logger
}

// NewURLHandler creates a new URL handler.
func NewURLHandler(
	service URLService,
	links *shortener.LinkBuilder,
	publishURLCreated messaging.Publish[analytics.URLCreatedEvent],
	publishURLVisited messaging.Publish[analytics.URLVisitedEvent],
	logger *zap.Logger,
) *URLHandler {
	return &URLHandler{
		service:           service,
		links:             links,
		publishURLCreated: publishURLCreated,
		publishURLVisited: publishURLVisited,
		logger:            logger,
	}
}

func (h *URLHandler) CreateShortURL(ctx context.Context, req *CreateShortURLRequest) (*CreateShortURLResponse, error) {
	if !isAbsoluteHTTPURL(req.Body.URL) {
		return nil, huma.Error422UnprocessableEntity("url must be an absolute http or https URL")
	}

	user, setCookie, err := h.resolveUser(ctx, req.User)
	if err != nil {
		return nil, err
	}

	shortURL, err := h.service.Shorten(ctx, req.Body.URL, user)
	if err != nil {
		h.logger.Error("failed to shorten url", zap.String("user", user), zap.Error(err))

		return nil, storageError(err, "failed to save url")
	}

	meta := RequestMetaFromContext(ctx)
	event := &analytics.URLCreatedEvent{
		Code:        shortURL.ID,
		OriginalURL: shortURL.URL,
		User:        user,
		CreatedAt:   time.Now(),
		ClientIP:    meta.ClientIP,
		UserAgent:   meta.UserAgent,
	}

	if err := h.publishURLCreated(ctx, event); err != nil {
		h.logger.Error("failed to publish analytics event",
			zap.String("code", event.Code),
			zap.Error(err),
		)
	}

	resp := &CreateShortURLResponse{}
	resp.Body = h.toBody(shortURL)
	resp.Headers.Location = resp.Body.ShortURL
	resp.Headers.SetCookie = setCookie

	return resp, nil
}

func (h *URLHandler) RedirectToURL(ctx context.Context, req *RedirectRequest) (*RedirectResponse, error) {
	shortURL, err := h.service.Get(ctx, req.Code)
	if err != nil {
		if errors.Is(err, shortener.ErrNotFound) {
			return nil, huma.Error404NotFound("short url not found")
		}

		h.logger.Error("failed to resolve url", zap.String("code", req.Code), zap.Error(err))

		return nil, storageError(err, "failed to get url")
	}

	meta := RequestMetaFromContext(ctx)
	event := &analytics.URLVisitedEvent{
		Code:      req.Code,
		VisitedAt: time.Now(),
		ClientIP:  meta.ClientIP,
		UserAgent: meta.UserAgent,
		Referrer:  meta.Referrer,
	}

	if err = h.publishURLVisited(ctx, event); err != nil {
		h.logger.Error("failed to publish visit event",
			zap.String("code", event.Code),
			zap.Error(err),
		)
	}

	resp := &RedirectResponse{
		Status: http.StatusMovedPermanently,
	}
	resp.Headers.Location = shortURL.URL

	return resp, nil
}

func (h *URLHandler) ListURLs(ctx context.Context, req *ListURLsRequest) (*ListURLsResponse, error) {
	user, setCookie, err := h.resolveUser(ctx, req.User)
	if err != nil {
		return nil, err
	}

	page, err := h.service.URLsForUser(ctx, user, req.Page)
	if err != nil {
		if errors.Is(err, shortener.ErrInvalidPage) {
			return nil, huma.Error400BadRequest("page must not be negative")
		}

		h.logger.Error("failed to list urls", zap.String("user", user), zap.Error(err))

		return nil, storageError(err, "failed to list urls")
	}

	resp := &ListURLsResponse{}
	resp.Headers.SetCookie = setCookie
	resp.Body.Total = page.Total
	resp.Body.PageCount = page.PageCount
	resp.Body.Next = page.Next
	resp.Body.Prev = page.Prev
	resp.Body.Results = make([]URLBody, 0, len(page.Results))

	for _, u := range page.Results {
		resp.Body.Results = append(resp.Body.Results, h.toBody(u))
	}

	return resp, nil
}

// resolveUser returns the caller's token, minting one and a Set-Cookie value when absent.
func (h *URLHandler) resolveUser(ctx context.Context, user string) (string, string, error) {
	if user != "" {
		return user, "", nil
	}

	user, err := h.service.NewUser(ctx)
	if err != nil {
		h.logger.Error("failed to create user", zap.Error(err))

		return "", "", storageError(err, "failed to create user")
	}

	cookie := &http.Cookie{
		Name:     UserCookie,
		Value:    user,
		Path:     "/",
		MaxAge:   int(userCookieMaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	return user, cookie.String(), nil
}

func (h *URLHandler) toBody(u *shortener.URL) URLBody {
	return URLBody{
		ID:       u.ID,
		ShortURL: h.links.Build(u.ID),
		LongURL:  u.URL,
		Count:    u.Count,
	}
}

func storageError(err error, msg string) error {
	if errors.Is(err, shortener.ErrStorageUnavailable) {
		return huma.Error503ServiceUnavailable(msg)
	}

	return huma.Error500InternalServerError(msg)
}

func isAbsoluteHTTPURL(raw string) bool {
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return false
	}

	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
