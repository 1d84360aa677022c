// Package engine composes fetching, extraction, and deduplication over a
// bounded worker pool to turn a URL list into a deduplicated item list.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/polibrief/newscrawl/internal/dedup"
	"github.com/polibrief/newscrawl/internal/domain"
	"github.com/polibrief/newscrawl/internal/engine/events"
	"github.com/polibrief/newscrawl/internal/extract"
	"github.com/polibrief/newscrawl/internal/fetch"
	"github.com/polibrief/newscrawl/internal/logger"
	"github.com/polibrief/newscrawl/internal/metrics"
)

// DefaultWorkers bounds concurrent fetches when no count is configured.
const DefaultWorkers = 8

// Config holds engine settings.
type Config struct {
	// Workers is the maximum number of concurrent fetch+extract tasks.
	Workers int
	// Categorize maps a page URL to a category label for its items.
	// Nil leaves categories empty.
	Categorize func(pageURL string) string
}

// Engine crawls URL lists. An instance remembers the URLs it has visited
// and the item identities it has accepted across Run calls; make a new
// instance for an independent crawl.
type Engine struct {
	fetcher   fetch.Fetcher
	extractor *extract.Extractor
	log       logger.Interface
	cfg       Config

	bus     *events.Bus
	metrics *metrics.Metrics
	seen    *dedup.Set

	visitedMu sync.Mutex
	visited   map[string]struct{}
}

// New creates an engine over the given fetcher and extractor.
func New(cfg Config, fetcher fetch.Fetcher, extractor *extract.Extractor, log logger.Interface) *Engine {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	return &Engine{
		fetcher:   fetcher,
		extractor: extractor,
		log:       log,
		cfg:       cfg,
		bus:       events.NewBus(),
		metrics:   metrics.NewMetrics(),
		seen:      dedup.NewSet(),
		visited:   make(map[string]struct{}),
	}
}

// Subscribe adds a progress handler. One event arrives per completed URL.
func (e *Engine) Subscribe(handler events.Handler) {
	e.bus.Subscribe(handler)
}

// Metrics returns the engine's counters.
func (e *Engine) Metrics() *metrics.Metrics {
	return e.metrics
}

// Run crawls every not-yet-visited URL in the list and returns the
// deduplicated items in completion order. Per-URL failures are logged and
// counted, never propagated. On cancellation no new URLs are scheduled,
// in-flight work finishes, and the partial result is returned together
// with the context's error.
func (e *Engine) Run(ctx context.Context, urls []string) (*domain.CrawlResult, error) {
	start := time.Now()

	e.log.Info("crawl started", "urls", len(urls), "workers", e.cfg.Workers)

	result := &domain.CrawlResult{Items: make([]domain.NewsItem, 0)}

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, e.cfg.Workers)
	)

scheduling:
	for _, pageURL := range urls {
		if ctx.Err() != nil {
			break
		}
		if !e.claim(pageURL) {
			continue
		}

		select {
		case <-ctx.Done():
			e.unclaim(pageURL)
			break scheduling
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(pageURL string) {
			defer wg.Done()
			defer func() { <-sem }()

			items, dups, procErr := e.processURL(ctx, pageURL)

			mu.Lock()
			result.Visited++
			result.Duplicates += dups
			if procErr != nil {
				result.Failed++
			} else {
				result.Items = append(result.Items, items...)
			}
			mu.Unlock()

			e.metrics.RecordPage(procErr == nil)
			e.metrics.RecordItems(len(items))
			e.metrics.RecordDuplicates(dups)

			if procErr != nil {
				e.log.Warn("page crawl failed", "url", pageURL, "error", procErr.Error())
			}

			e.bus.PublishURLDone(ctx, events.Event{
				URL:        pageURL,
				Items:      len(items),
				Duplicates: dups,
				Err:        procErr,
			})
		}(pageURL)
	}

	wg.Wait()
	result.Elapsed = time.Since(start)

	e.log.Info("crawl finished",
		"visited", result.Visited,
		"items", len(result.Items),
		"duplicates", result.Duplicates,
		"failed", result.Failed,
		"elapsed", result.Elapsed.String(),
	)

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

// claim marks a URL visited, returning false when an earlier run or an
// earlier position in the same list already took it.
func (e *Engine) claim(pageURL string) bool {
	e.visitedMu.Lock()
	defer e.visitedMu.Unlock()

	if _, seen := e.visited[pageURL]; seen {
		return false
	}
	e.visited[pageURL] = struct{}{}
	return true
}

// unclaim releases a claimed URL that was never fetched, so a later run
// on the same instance can still pick it up.
func (e *Engine) unclaim(pageURL string) {
	e.visitedMu.Lock()
	defer e.visitedMu.Unlock()
	delete(e.visited, pageURL)
}

// processURL runs fetch+extract for one page and filters duplicates.
func (e *Engine) processURL(ctx context.Context, pageURL string) (items []domain.NewsItem, dups int, err error) {
	page, fetchErr := e.fetcher.Fetch(ctx, pageURL)
	if fetchErr != nil {
		return nil, 0, fetchErr
	}

	candidates, parseErr := e.extractor.Extract(page.URL, page.Body)
	if parseErr != nil {
		return nil, 0, parseErr
	}

	var category string
	if e.cfg.Categorize != nil {
		category = e.cfg.Categorize(pageURL)
	}

	for _, item := range candidates {
		if e.seen.CheckAndAdd(item.Title, item.Content) {
			dups++
			continue
		}
		item.Category = category
		items = append(items, item)
	}

	return items, dups, nil
}
