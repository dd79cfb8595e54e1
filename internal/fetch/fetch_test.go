// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/bloggpt/internal/httputil"
	"github.com/pdiddy/bloggpt/internal/logger"
	"github.com/pdiddy/bloggpt/pkg/types"
)

func TestCleanLines(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"collapses whitespace", "  a \t b  ", "a b"},
		{"joins lines", "first\nsecond\n\n\nthird", "first second third"},
		{"drops blank lines", "\n  \n\t\n", ""},
		{"keeps punctuation", "Hello,   world!\n  Bye.", "Hello, world! Bye."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanLines(tt.in))
		})
	}
}

func TestExtractHTML_DropsScriptAndStyle(t *testing.T) {
	page := `<html><head><title>Watermelons</title>
<style>body { color: red; }</style>
<script>var x = "tracking";</script></head>
<body><h1>Picking a ripe one</h1>
<p>Look for the   field spot.</p><p>Knock   on it.</p>
<!-- hidden comment -->
</body></html>`

	got, err := ExtractHTML([]byte(page), "text/html")
	require.NoError(t, err)

	assert.Equal(t, "Watermelons Picking a ripe one Look for the field spot. Knock on it.", got)
	assert.NotContains(t, got, "tracking")
	assert.NotContains(t, got, "color")
	assert.NotContains(t, got, "hidden comment")
}

func TestExtractHTML_DecodesDeclaredCharset(t *testing.T) {
	// "café" in ISO-8859-1: 0xE9 is é.
	body := []byte("<html><body><p>caf\xe9</p></body></html>")

	got, err := ExtractHTML(body, "text/html; charset=iso-8859-1")
	require.NoError(t, err)
	assert.Equal(t, "café", got)
}

func TestIsPDF(t *testing.T) {
	assert.True(t, IsPDF("application/pdf"))
	assert.True(t, IsPDF("Application/PDF; qs=0.9"))
	assert.False(t, IsPDF("text/html"))
	assert.False(t, IsPDF(""))
}

type fakePages struct {
	texts []string
	fail  map[int]bool
}

func (f fakePages) NumPage() int { return len(f.texts) }

func (f fakePages) PageText(i int) (string, error) {
	if f.fail[i] {
		return "", errors.New("bad content stream")
	}
	return f.texts[i-1], nil
}

func TestExtractPages_SkipsFailingPages(t *testing.T) {
	var logs bytes.Buffer
	doc := fakePages{
		texts: []string{"Page one.", "unreachable", "Page  three.\nMore."},
		fail:  map[int]bool{2: true},
	}

	got := extractPages(doc, logger.New(&logs, logger.LevelDebug))

	assert.Equal(t, "Page one. Page three. More.", got)
	assert.Contains(t, logs.String(), "skipping PDF page 2")
}

func TestExtractPages_AllFailing(t *testing.T) {
	doc := fakePages{texts: []string{"a", "b"}, fail: map[int]bool{1: true, 2: true}}
	assert.Equal(t, "", extractPages(doc, nil))
}

func TestExtractPDF_InvalidDocument(t *testing.T) {
	_, err := ExtractPDF([]byte("this is not a pdf"), nil)
	assert.Error(t, err)
}

func newTestFetcher() *Fetcher {
	return New(httputil.NewGetter(types.FetchConfig{}), nil)
}

func TestFetch_HTML(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html><body><p>Ripe melons sound hollow.</p></body></html>"))
	}))
	defer ts.Close()

	text, ok := newTestFetcher().Fetch(context.Background(), ts.URL)
	require.True(t, ok)
	assert.Equal(t, "Ripe melons sound hollow.", text)
}

func TestFetch_FailuresAreSoft(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"http error", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}},
		{"broken pdf", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/pdf")
			w.Write([]byte("%PDF-garbage"))
		}},
		{"empty page", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte("<html><script>only()</script></html>"))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(tt.handler)
			defer ts.Close()

			text, ok := newTestFetcher().Fetch(context.Background(), ts.URL)
			assert.False(t, ok)
			assert.Empty(t, text)
		})
	}
}

func TestFetch_TransportError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := ts.URL
	ts.Close()

	_, ok := newTestFetcher().Fetch(context.Background(), url)
	assert.False(t, ok)
}
