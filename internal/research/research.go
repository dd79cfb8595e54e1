// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package research gathers material for a query by walking search result
// pages and fetching each result until enough sources succeed. Two
// gatherings exist: extracted page texts (for embedding) and per-page
// summaries (for the agent's search tool and the topic context).
package research

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/bloggpt/internal/logger"
	"github.com/pdiddy/bloggpt/internal/search"
	"github.com/pdiddy/bloggpt/internal/sink"
)

// lastStart is the highest start index the search API serves.
const lastStart = 91

// Fetcher retrieves the cleaned text of a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, bool)
}

// Summarizer condenses a text.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, bool)
}

// Gatherer runs the search-then-fetch loop. PageSize caps the results
// requested per search call; zero or anything above search.MaxPageSize
// means search.MaxPageSize.
type Gatherer struct {
	Search    search.Searcher
	Fetch     Fetcher
	Summarize Summarizer // required by Summaries only
	Sink      sink.Sink
	Log       *logger.Logger
	PageSize  int
}

// Extract collects the texts of the first n result pages that fetch
// successfully. Each text is also written to w, followed by a blank line,
// when w is not nil.
func (g *Gatherer) Extract(ctx context.Context, query string, n int, w io.Writer) ([]string, error) {
	return g.gather(ctx, query, n, func(ctx context.Context, url string) (string, bool) {
		text, ok := g.Fetch.Fetch(ctx, url)
		if ok && w != nil {
			if _, err := io.WriteString(w, text+"\n\n"); err != nil {
				g.Log.Warn("recording text of %s: %v", url, err)
			}
		}
		return text, ok
	})
}

// Summaries collects summaries of the first n result pages that both fetch
// and summarize successfully.
func (g *Gatherer) Summaries(ctx context.Context, query string, n int) ([]string, error) {
	if g.Summarize == nil {
		return nil, fmt.Errorf("gathering summaries: no summarizer configured")
	}
	return g.gather(ctx, query, n, func(ctx context.Context, url string) (string, bool) {
		text, ok := g.Fetch.Fetch(ctx, url)
		if !ok {
			return "", false
		}
		return g.Summarize.Summarize(ctx, text)
	})
}

// gather pages through results starting at 1 until n sources succeed, the
// API runs out of results, or an error occurs. Results gathered before an
// error are returned with it.
func (g *Gatherer) gather(ctx context.Context, query string, n int, visit func(context.Context, string) (string, bool)) ([]string, error) {
	out := make([]string, 0, n)
	pageSize := min(n, g.pageSize())

	for start := 1; len(out) < n && start <= lastStart; start += pageSize {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		urls, err := g.Search.Search(ctx, query, start, pageSize)
		if err != nil {
			return out, fmt.Errorf("searching %q: %w", query, err)
		}
		if len(urls) == 0 {
			g.Log.Warn("search for %q ran out of results with %d of %d sources", query, len(out), n)
			break
		}

		for _, url := range urls {
			g.emit(fmt.Sprintf("Processing URL %d/%d: %s", len(out)+1, n, url))
			text, ok := visit(ctx, url)
			if !ok {
				continue
			}
			out = append(out, text)
			if len(out) >= n {
				break
			}
		}
	}

	g.emit(fmt.Sprintf("Finished processing URLs for %q (%d sources)", query, len(out)))
	return out, nil
}

func (g *Gatherer) pageSize() int {
	if g.PageSize <= 0 || g.PageSize > search.MaxPageSize {
		return search.MaxPageSize
	}
	return g.PageSize
}

func (g *Gatherer) emit(text string) {
	if g.Sink != nil {
		g.Sink.Emit(text, sink.Info)
	}
}

// Join concatenates gathered items the way they are fed to the model: each
// item followed by a blank line.
func Join(items []string) string {
	var sb strings.Builder
	for _, it := range items {
		sb.WriteString(it)
		sb.WriteString("\n\n")
	}
	return sb.String()
}
