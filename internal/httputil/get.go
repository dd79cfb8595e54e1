// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the HTTP GET helper shared across stages.
package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/pdiddy/bloggpt/pkg/types"
)

// DefaultMaxBytes bounds a response body when the caller sets no cap.
const DefaultMaxBytes int64 = 20 << 20

// StatusError reports a non-2xx response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: HTTP %d", e.URL, e.StatusCode)
}

// Response is a fully-read HTTP response body with its declared content type.
type Response struct {
	URL         string
	ContentType string
	Body        []byte
	Truncated   bool
}

// Getter performs polite GET requests: every request carries the configured
// User-Agent, waits on the token bucket when one is set, and reads at most
// MaxBytes of the body.
type Getter struct {
	Client    *http.Client
	Limiter   *rate.Limiter
	UserAgent string
	MaxBytes  int64
}

// NewGetter builds a Getter from fetch settings. A non-positive
// RequestsPerSecond disables rate limiting.
func NewGetter(cfg types.FetchConfig) *Getter {
	g := &Getter{
		Client:    &http.Client{Timeout: cfg.Timeout},
		UserAgent: cfg.UserAgent,
		MaxBytes:  cfg.MaxBodyBytes,
	}
	if cfg.RequestsPerSecond > 0 {
		g.Limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return g
}

// Get fetches url and returns its body. Transport failures, context
// cancellation and non-2xx statuses are returned as errors; a non-2xx
// status is a *StatusError.
func (g *Getter) Get(ctx context.Context, url string) (*Response, error) {
	if g.Limiter != nil {
		if err := g.Limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("waiting for rate limiter: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if g.UserAgent != "" {
		req.Header.Set("User-Agent", g.UserAgent)
	}

	client := g.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	limit := g.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("reading body of %s: %w", url, err)
	}

	out := &Response{URL: url, ContentType: resp.Header.Get("Content-Type"), Body: body}
	if int64(len(body)) > limit {
		out.Body = body[:limit]
		out.Truncated = true
	}
	return out, nil
}
