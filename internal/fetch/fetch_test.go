package fetch_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polibrief/newscrawl/internal/fetch"
	"github.com/polibrief/newscrawl/internal/logger"
)

func newFetcher(cfg fetch.Config) *fetch.HTTPFetcher {
	return fetch.NewHTTPFetcher(cfg, logger.NewNoOp())
}

func TestFetchSuccess(t *testing.T) {
	t.Parallel()

	var (
		mu       sync.Mutex
		gotAgent string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		gotAgent = r.Header.Get("User-Agent")
		mu.Unlock()
		_, _ = w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer server.Close()

	page, err := newFetcher(fetch.Config{}).Fetch(context.Background(), server.URL)

	require.NoError(t, err)
	require.NotNil(t, page)
	assert.Equal(t, server.URL, page.URL)
	assert.Contains(t, string(page.Body), "ok")

	mu.Lock()
	defer mu.Unlock()
	assert.Contains(t, fetch.DefaultUserAgents, gotAgent)
}

func TestFetchRotatesUserAgents(t *testing.T) {
	t.Parallel()

	var (
		mu     sync.Mutex
		agents []string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		agents = append(agents, r.Header.Get("User-Agent"))
		mu.Unlock()
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	fetcher := newFetcher(fetch.Config{})
	for range len(fetch.DefaultUserAgents) {
		_, err := fetcher.Fetch(context.Background(), server.URL)
		require.NoError(t, err)
	}

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, agents, len(fetch.DefaultUserAgents))
	assert.ElementsMatch(t, fetch.DefaultUserAgents, agents)
}

func TestFetchNon200ReturnsStatusError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	page, err := newFetcher(fetch.Config{}).Fetch(context.Background(), server.URL)

	require.Error(t, err)
	assert.Nil(t, page)

	var statusErr *fetch.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Equal(t, server.URL, statusErr.URL)
}

func TestFetchRetriesRateLimit(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte("eventually"))
	}))
	defer server.Close()

	fetcher := newFetcher(fetch.Config{RetryDelay: time.Millisecond})
	page, err := fetcher.Fetch(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Contains(t, string(page.Body), "eventually")
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetchRateLimitExhaustsAttempts(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	fetcher := newFetcher(fetch.Config{MaxAttempts: 2, RetryDelay: time.Millisecond})
	_, err := fetcher.Fetch(context.Background(), server.URL)

	var statusErr *fetch.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusTooManyRequests, statusErr.StatusCode)
	assert.Equal(t, int32(2), calls.Load())
}

func TestFetchBodyBounded(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 4096)))
	}))
	defer server.Close()

	fetcher := newFetcher(fetch.Config{MaxBodyBytes: 64})
	page, err := fetcher.Fetch(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Len(t, page.Body, 64)
}

func TestFetchTransportError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	_, err := newFetcher(fetch.Config{}).Fetch(context.Background(), server.URL)

	require.Error(t, err)
	var statusErr *fetch.StatusError
	assert.False(t, errors.As(err, &statusErr), "transport errors are not status errors")
}

func TestFetchContextCancelled(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := newFetcher(fetch.Config{}).Fetch(ctx, server.URL)
	require.Error(t, err)
}

func TestAgentPoolFallsBackToDefaults(t *testing.T) {
	t.Parallel()

	pool := fetch.NewAgentPool(nil)
	assert.Contains(t, fetch.DefaultUserAgents, pool.Next())

	custom := fetch.NewAgentPool([]string{"custom-agent/1.0"})
	assert.Equal(t, "custom-agent/1.0", custom.Next())
	assert.Equal(t, "custom-agent/1.0", custom.Next())
}
