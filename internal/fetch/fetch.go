package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/polibrief/newscrawl/internal/logger"
)

// Default fetch settings.
const (
	// DefaultTimeout bounds one HTTP request.
	DefaultTimeout = 10 * time.Second
	// DefaultMaxBodyBytes limits the size of fetched page responses.
	DefaultMaxBodyBytes = 10 * 1024 * 1024 // 10 MB
	// DefaultMaxAttempts is the total number of tries for a rate-limited URL.
	DefaultMaxAttempts = 3
	// defaultRetryDelay is the backoff base; it doubles per attempt.
	defaultRetryDelay = time.Second
)

// Page is one fetched document.
type Page struct {
	URL  string
	Body []byte
}

// Fetcher retrieves a page. Implementations must return a typed error for
// HTTP-level rejections so callers can distinguish them from transport
// failures; no error may escape uncaught past this boundary.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Page, error)
}

// StatusError reports a non-200 response.
type StatusError struct {
	URL        string
	StatusCode int
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("http status %d fetching %s", e.StatusCode, e.URL)
}

// Config holds HTTP fetcher settings.
type Config struct {
	// Timeout per request.
	Timeout time.Duration
	// MaxBodyBytes caps the response body read.
	MaxBodyBytes int64
	// MaxAttempts is the total tries for a URL answering 429.
	MaxAttempts int
	// RetryDelay is the backoff base between attempts.
	RetryDelay time.Duration
	// UserAgents overrides the default agent pool.
	UserAgents []string
}

// withDefaults fills zero values.
func (c Config) withDefaults() Config {
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = defaultRetryDelay
	}
	return c
}

// HTTPFetcher fetches pages with a plain HTTP client.
type HTTPFetcher struct {
	client       *http.Client
	agents       *AgentPool
	maxBodyBytes int64
	maxAttempts  int
	retryDelay   time.Duration
	log          logger.Interface
}

// NewHTTPFetcher creates a fetcher from the given config.
func NewHTTPFetcher(cfg Config, log logger.Interface) *HTTPFetcher {
	cfg = cfg.withDefaults()
	return &HTTPFetcher{
		client:       &http.Client{Timeout: cfg.Timeout},
		agents:       NewAgentPool(cfg.UserAgents),
		maxBodyBytes: cfg.MaxBodyBytes,
		maxAttempts:  cfg.MaxAttempts,
		retryDelay:   cfg.RetryDelay,
		log:          log,
	}
}

// Fetch performs the GET request. Responses of 429 are retried with
// exponential backoff up to the attempt limit; any other non-200 status
// returns a *StatusError immediately.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*Page, error) {
	delay := f.retryDelay

	for attempt := 1; ; attempt++ {
		body, statusCode, err := f.fetchOnce(ctx, url)
		if err != nil {
			return nil, err
		}

		switch {
		case statusCode == http.StatusOK:
			return &Page{URL: url, Body: body}, nil

		case statusCode == http.StatusTooManyRequests && attempt < f.maxAttempts:
			f.log.Debug("rate limited, backing off",
				"url", url,
				"attempt", attempt,
				"delay", delay.String(),
			)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2

		default:
			return nil, &StatusError{URL: url, StatusCode: statusCode}
		}
	}
}

// fetchOnce performs a single GET request with a bounded body read.
func (f *HTTPFetcher) fetchOnce(ctx context.Context, url string) ([]byte, int, error) {
	req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if reqErr != nil {
		return nil, 0, fmt.Errorf("create request: %w", reqErr)
	}

	req.Header.Set("User-Agent", f.agents.Next())

	resp, doErr := f.client.Do(req)
	if doErr != nil {
		return nil, 0, fmt.Errorf("http fetch: %w", doErr)
	}
	defer resp.Body.Close()

	limited := io.LimitReader(resp.Body, f.maxBodyBytes)

	body, readErr := io.ReadAll(limited)
	if readErr != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response body: %w", readErr)
	}

	return body, resp.StatusCode, nil
}
