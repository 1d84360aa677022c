package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/polibrief/newscrawl/internal/logger"
)

// DefaultRenderTimeout bounds one headless-browser fetch. Rendering is
// slower than a plain GET, so this is looser than DefaultTimeout.
const DefaultRenderTimeout = 30 * time.Second

// RenderFetcher fetches pages through a headless browser so sources that
// assemble their listings with JavaScript still yield markup. It satisfies
// the same Fetcher contract as HTTPFetcher; callers never know which one
// they hold.
type RenderFetcher struct {
	timeout   time.Duration
	userAgent string
	log       logger.Interface
}

// NewRenderFetcher creates a browser-backed fetcher.
func NewRenderFetcher(timeout time.Duration, log logger.Interface) *RenderFetcher {
	if timeout <= 0 {
		timeout = DefaultRenderTimeout
	}
	return &RenderFetcher{
		timeout:   timeout,
		userAgent: DefaultUserAgents[0],
		log:       log,
	}
}

// Fetch navigates to the URL, waits for the document body, and returns the
// rendered markup.
func (f *RenderFetcher) Fetch(ctx context.Context, url string) (*Page, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.UserAgent(f.userAgent),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	f.log.Debug("rendering page", "url", url)

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return nil, fmt.Errorf("render fetch: %w", err)
	}

	return &Page{URL: url, Body: []byte(html)}, nil
}
