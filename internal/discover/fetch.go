package discover

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"
	colly "github.com/gocolly/colly/v2"

	"github.com/polibrief/newscrawl/internal/fetch"
)

// DefaultFetchTimeout bounds the discovery fetch.
const DefaultFetchTimeout = 30 * time.Second

// maxFetchBody caps the downloaded page at 10MB.
const maxFetchBody = 10 << 20

// FetchDocument retrieves a listing page and parses it for analysis.
func FetchDocument(ctx context.Context, pageURL string, timeout time.Duration) (*goquery.Document, error) {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}

	collector := colly.NewCollector(
		colly.StdlibContext(ctx),
		colly.UserAgent(fetch.NewAgentPool(nil).Next()),
		colly.MaxBodySize(maxFetchBody),
		colly.IgnoreRobotsTxt(),
	)
	collector.SetRequestTimeout(timeout)

	var body []byte
	collector.OnResponse(func(r *colly.Response) {
		body = r.Body
	})

	if err := collector.Visit(pageURL); err != nil {
		return nil, fmt.Errorf("fetch page: %w", err)
	}
	collector.Wait()

	if len(body) == 0 {
		return nil, errors.New("fetch page: empty response")
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}
