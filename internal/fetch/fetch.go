// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch retrieves a URL and reduces it to clean plain text for the
// language model. PDF responses are extracted page by page; everything else
// is decoded with a sniffed character set and stripped of markup.
//
// Fetch never returns an error: a source that cannot be retrieved or read
// yields ok=false and is logged, so callers simply move on to the next URL.
package fetch

import (
	"context"
	"strings"

	"github.com/pdiddy/bloggpt/internal/httputil"
	"github.com/pdiddy/bloggpt/internal/logger"
)

// Getter is the HTTP dependency of a Fetcher. *httputil.Getter satisfies it.
type Getter interface {
	Get(ctx context.Context, url string) (*httputil.Response, error)
}

// Fetcher turns URLs into text.
type Fetcher struct {
	get Getter
	log *logger.Logger
}

// New returns a Fetcher using g for HTTP. log may be nil.
func New(g Getter, log *logger.Logger) *Fetcher {
	return &Fetcher{get: g, log: log}
}

// Fetch downloads url and returns its cleaned text. ok is false when the
// request fails, the status is not 2xx, the body cannot be decoded, or no
// text remains after cleaning.
func (f *Fetcher) Fetch(ctx context.Context, url string) (text string, ok bool) {
	f.log.Info("fetching content from %s", url)

	resp, err := f.get.Get(ctx, url)
	if err != nil {
		f.log.Warn("skipping %s: %v", url, err)
		return "", false
	}
	if resp.Truncated {
		f.log.Debug("%s: body truncated at %d bytes", url, len(resp.Body))
	}
	f.log.Debug("%s: content type %q", url, resp.ContentType)

	if IsPDF(resp.ContentType) {
		text, err = ExtractPDF(resp.Body, f.log)
	} else {
		text, err = ExtractHTML(resp.Body, resp.ContentType)
	}
	if err != nil {
		f.log.Warn("skipping %s: %v", url, err)
		return "", false
	}
	if text == "" {
		f.log.Warn("skipping %s: no text extracted", url)
		return "", false
	}
	return text, true
}

// IsPDF reports whether a Content-Type header denotes a PDF document.
func IsPDF(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "application/pdf")
}

// CleanLines collapses whitespace runs on every line of s and joins the
// non-empty lines with single spaces.
func CleanLines(s string) string {
	lines := strings.Split(s, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if cleaned := strings.Join(strings.Fields(line), " "); cleaned != "" {
			kept = append(kept, cleaned)
		}
	}
	return strings.Join(kept, " ")
}
