// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search queries a web search API for URLs matching a text query.
// Results are paged: start is 1-based and at most MaxPageSize results come
// back per call. Upstream errors propagate unchanged in kind; there is no
// retry or backoff.
package search

import (
	"context"
	"errors"
	"net/http"

	"google.golang.org/api/googleapi"
)

// MaxPageSize is the largest page the search API returns.
const MaxPageSize = 10

// ErrNoCredentials is returned when the API key or engine id is missing.
var ErrNoCredentials = errors.New("search: API key and engine id are required")

// Searcher returns the URLs of one page of results for query.
type Searcher interface {
	Search(ctx context.Context, query string, start, num int) ([]string, error)
}

// IsQuotaExceeded reports whether err is the API refusing further queries
// for the current quota window.
func IsQuotaExceeded(err error) bool {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == http.StatusTooManyRequests
	}
	return false
}

func clampPageSize(num int) int {
	if num <= 0 || num > MaxPageSize {
		return MaxPageSize
	}
	return num
}
