// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/pdiddy/bloggpt/pkg/types"
)

func TestGet_SetsUserAgentAndReturnsBody(t *testing.T) {
	var gotUA string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<p>hello</p>"))
	}))
	defer ts.Close()

	g := NewGetter(types.FetchConfig{HTTPConfig: types.HTTPConfig{UserAgent: "bloggpt-test"}})
	resp, err := g.Get(context.Background(), ts.URL)
	require.NoError(t, err)

	assert.Equal(t, "bloggpt-test", gotUA)
	assert.Equal(t, "text/html; charset=utf-8", resp.ContentType)
	assert.Equal(t, "<p>hello</p>", string(resp.Body))
	assert.False(t, resp.Truncated)
}

func TestGet_StatusError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ts.Close()

	_, err := NewGetter(types.FetchConfig{}).Get(context.Background(), ts.URL)
	require.Error(t, err)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusForbidden, se.StatusCode)
}

func TestGet_TruncatesAtMaxBytes(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(strings.Repeat("x", 100)))
	}))
	defer ts.Close()

	g := NewGetter(types.FetchConfig{MaxBodyBytes: 10})
	resp, err := g.Get(context.Background(), ts.URL)
	require.NoError(t, err)
	assert.Len(t, resp.Body, 10)
	assert.True(t, resp.Truncated)
}

func TestGet_NoRetryOn429(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	_, err := NewGetter(types.FetchConfig{}).Get(context.Background(), ts.URL)
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGet_ContextCancelledWhileRateLimited(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	defer ts.Close()

	g := &Getter{Limiter: rate.NewLimiter(rate.Every(time.Hour), 1)}
	_, err := g.Get(context.Background(), ts.URL)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = g.Get(ctx, ts.URL)
	assert.Error(t, err)
}

func TestNewGetter_DisablesLimiterWhenZero(t *testing.T) {
	assert.Nil(t, NewGetter(types.FetchConfig{}).Limiter)
	assert.NotNil(t, NewGetter(types.FetchConfig{RequestsPerSecond: 1}).Limiter)
}
