// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"

	"github.com/pdiddy/bloggpt/internal/logger"
	"github.com/pdiddy/bloggpt/pkg/types"
)

// customSearchEndpoint overrides the Custom Search API base URL when set.
// Declared as a var so tests can substitute an httptest server.
var customSearchEndpoint = ""

// Google queries the Google Custom Search JSON API.
type Google struct {
	svc      *customsearch.Service
	engineID string
	log      *logger.Logger
}

// NewGoogle builds a Custom Search client from cfg. It returns
// ErrNoCredentials when the key or engine id is empty.
func NewGoogle(ctx context.Context, cfg types.SearchConfig, log *logger.Logger) (*Google, error) {
	if cfg.APIKey == "" || cfg.EngineID == "" {
		return nil, ErrNoCredentials
	}

	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if customSearchEndpoint != "" {
		opts = append(opts, option.WithEndpoint(customSearchEndpoint))
	}
	svc, err := customsearch.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating custom search service: %w", err)
	}
	return &Google{svc: svc, engineID: cfg.EngineID, log: log}, nil
}

// Search returns the result links of one page. A page with no items yields
// an empty slice and no error.
func (g *Google) Search(ctx context.Context, query string, start, num int) ([]string, error) {
	if start < 1 {
		start = 1
	}
	num = clampPageSize(num)
	g.log.Info("searching Google for %q (start %d, num %d)", query, start, num)

	res, err := g.svc.Cse.List().
		Q(query).
		Cx(g.engineID).
		Start(int64(start)).
		Num(int64(num)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("custom search %q: %w", query, err)
	}

	urls := make([]string, 0, len(res.Items))
	for _, item := range res.Items {
		if item.Link != "" {
			urls = append(urls, item.Link)
		}
	}
	return urls, nil
}
