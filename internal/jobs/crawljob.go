package jobs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/polibrief/newscrawl/internal/domain"
	"github.com/polibrief/newscrawl/internal/engine"
	"github.com/polibrief/newscrawl/internal/extract"
	"github.com/polibrief/newscrawl/internal/fetch"
	"github.com/polibrief/newscrawl/internal/logger"
	"github.com/polibrief/newscrawl/internal/sources"
)

// ArticleSaver is the slice of the storage API a crawl job writes through.
type ArticleSaver interface {
	SaveArticle(ctx context.Context, article *domain.Article) error
}

// CrawlJobConfig holds per-job engine settings.
type CrawlJobConfig struct {
	// Workers bounds the engine's concurrent fetches.
	Workers int
	// Timeout per page fetch.
	Timeout time.Duration
	// MaxBodyBytes caps one fetched response body.
	MaxBodyBytes int64
}

// CrawlJob runs one registry source through the crawl engine in process.
// Its output speaks the dialect the classifier reads, so in-process jobs
// and legacy subprocess jobs land in the same report pipeline.
type CrawlJob struct {
	source sources.Source
	cfg    CrawlJobConfig
	store  ArticleSaver
	log    logger.Interface
}

// NewCrawlJob creates an in-process job for one source.
func NewCrawlJob(source sources.Source, cfg CrawlJobConfig, store ArticleSaver, log logger.Interface) *CrawlJob {
	return &CrawlJob{
		source: source,
		cfg:    cfg,
		store:  store,
		log:    log,
	}
}

// Run crawls the source's politics page. Each call builds a fresh engine,
// so scheduled re-runs start with empty visited and dedup state.
func (j *CrawlJob) Run(ctx context.Context) (domain.Outcome, error) {
	eng := engine.New(
		engine.Config{Workers: j.cfg.Workers, Categorize: sources.CategoryForURL},
		j.newFetcher(),
		extract.NewExtractor(j.source.Selectors),
		j.log,
	)

	result, err := eng.Run(ctx, []string{j.source.PoliticsURL})
	if err != nil {
		return domain.Outcome{}, fmt.Errorf("crawl %s: %w", j.source.Name, err)
	}

	j.persist(ctx, result.Items)

	return domain.Outcome{
		Collected: len(result.Items),
		Output:    j.buildOutput(result),
	}, nil
}

func (j *CrawlJob) newFetcher() fetch.Fetcher {
	if j.source.Render {
		return fetch.NewRenderFetcher(j.cfg.Timeout, j.log)
	}
	return fetch.NewHTTPFetcher(fetch.Config{
		Timeout:      j.cfg.Timeout,
		MaxBodyBytes: j.cfg.MaxBodyBytes,
	}, j.log)
}

// persist stores every item. Save failures are logged, never reported as
// job failures: persistence is a side channel of the crawl.
func (j *CrawlJob) persist(ctx context.Context, items []domain.NewsItem) {
	saved := 0
	for i := range items {
		article := domain.NewArticleFromItem(items[i])
		if err := j.store.SaveArticle(ctx, article); err != nil {
			j.log.Warn("article save failed",
				"source", j.source.Name, "link", article.Link, "error", err.Error())
			continue
		}
		saved++
	}
	if saved > 0 {
		j.log.Debug("articles persisted", "source", j.source.Name, "count", saved)
	}
}

// buildOutput writes the job report. A run with items classifies as
// success regardless of page failures; a run with failures and nothing
// collected carries a failure marker.
func (j *CrawlJob) buildOutput(result *domain.CrawlResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s 정치 기사 수집\n", j.source.Name)
	fmt.Fprintf(&b, "총 수집: %d개\n", len(result.Items))
	if result.Duplicates > 0 {
		fmt.Fprintf(&b, "중복 제외: %d개\n", result.Duplicates)
	}
	if result.Failed > 0 {
		fmt.Fprintf(&b, "오류 발생: 페이지 %d개 실패\n", result.Failed)
	}
	b.WriteString("크롤링 완료")
	return b.String()
}

// CrawlJobDescriptors builds an in-process job per registry source, in
// registry order.
func CrawlJobDescriptors(
	registry *sources.Registry,
	cfg CrawlJobConfig,
	store ArticleSaver,
	log logger.Interface,
) []domain.JobDescriptor {
	all := registry.All()
	descriptors := make([]domain.JobDescriptor, 0, len(all))
	for _, src := range all {
		descriptors = append(descriptors, domain.JobDescriptor{
			Name:   src.Name + " 정치",
			Path:   src.PoliticsURL,
			Runner: NewCrawlJob(src, cfg, store, log),
		})
	}
	return descriptors
}
