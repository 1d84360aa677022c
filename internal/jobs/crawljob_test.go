package jobs_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polibrief/newscrawl/internal/classify"
	"github.com/polibrief/newscrawl/internal/domain"
	"github.com/polibrief/newscrawl/internal/extract"
	"github.com/polibrief/newscrawl/internal/jobs"
	"github.com/polibrief/newscrawl/internal/logger"
	"github.com/polibrief/newscrawl/internal/sources"
)

// captureStore records saved articles and can fail specific links.
type captureStore struct {
	mu       sync.Mutex
	articles []*domain.Article
	failAll  bool
}

func (s *captureStore) SaveArticle(_ context.Context, article *domain.Article) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll {
		return errors.New("connection refused")
	}
	s.articles = append(s.articles, article)
	return nil
}

func (s *captureStore) saved() []*domain.Article {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*domain.Article(nil), s.articles...)
}

const politicsHTML = `<!DOCTYPE html>
<html><body>
<section class="list">
  <div class="story">
    <h2>국회 본회의 예산안 처리 진통</h2>
    <p class="deck">여야가 내년도 예산안 처리를 두고 자정까지 협상을 이어갔다.</p>
    <a href="/politics/2026/03/02/a1/">기사 보기</a>
    <span class="date">2026-03-02</span>
  </div>
  <div class="story">
    <h2>외교부, 주변국 대사 초치해 항의</h2>
    <p class="deck">외교부는 오늘 오전 주변국 대사를 초치해 강하게 항의했다고 밝혔다.</p>
    <a href="/politics/2026/03/02/a2/">기사 보기</a>
    <span class="date">2026-03-02</span>
  </div>
  <div class="story">
    <h2>선관위, 지방선거 일정 확정 발표</h2>
    <p class="deck">중앙선거관리위원회가 오는 지방선거의 세부 일정을 확정해 발표했다.</p>
    <a href="/politics/2026/03/02/a3/">기사 보기</a>
    <span class="date">2026-03-02</span>
  </div>
</section>
</body></html>`

func testSource(politicsURL string) sources.Source {
	return sources.Source{
		Name:        "조선일보",
		PoliticsURL: politicsURL,
		TableName:   "chosun_politics",
		Selectors: extract.SelectorSet{
			Container: []string{".story"},
			Title:     []string{"h2"},
			Content:   []string{".deck"},
			Link:      []string{"a"},
			Timestamp: []string{".date"},
		},
	}
}

func testJobConfig() jobs.CrawlJobConfig {
	return jobs.CrawlJobConfig{Workers: 2, Timeout: 5 * time.Second}
}

func TestCrawlJobRunCollects(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(politicsHTML))
	}))
	defer server.Close()

	store := &captureStore{}
	job := jobs.NewCrawlJob(testSource(server.URL+"/politics/"), testJobConfig(), store, logger.NewNoOp())

	outcome, err := job.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, outcome.Collected)
	assert.Contains(t, outcome.Output, "조선일보 정치 기사 수집")
	assert.Contains(t, outcome.Output, "총 수집: 3개")
	assert.Contains(t, outcome.Output, "크롤링 완료")
	assert.NotContains(t, outcome.Output, "오류 발생")
}

func TestCrawlJobOutputClassifiesSuccess(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(politicsHTML))
	}))
	defer server.Close()

	job := jobs.NewCrawlJob(testSource(server.URL+"/politics/"), testJobConfig(), &captureStore{}, logger.NewNoOp())

	outcome, err := job.Run(context.Background())
	require.NoError(t, err)

	result := classify.Classify(outcome.Output)
	assert.Equal(t, classify.VerdictSuccess, result.Verdict)
	assert.Equal(t, 3, result.ItemsCollected)
}

func TestCrawlJobPersistsArticles(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(politicsHTML))
	}))
	defer server.Close()

	store := &captureStore{}
	job := jobs.NewCrawlJob(testSource(server.URL+"/politics/"), testJobConfig(), store, logger.NewNoOp())

	_, err := job.Run(context.Background())
	require.NoError(t, err)

	articles := store.saved()
	require.Len(t, articles, 3)
	for _, article := range articles {
		assert.NotEmpty(t, article.ID)
		assert.NotEmpty(t, article.Title)
		assert.Contains(t, article.Link, "/politics/2026/03/02/")
		assert.Equal(t, "정치", article.Category)
	}
}

func TestCrawlJobPageFailureClassifiesFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer server.Close()

	job := jobs.NewCrawlJob(testSource(server.URL+"/politics/"), testJobConfig(), &captureStore{}, logger.NewNoOp())

	outcome, err := job.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, outcome.Collected)
	assert.Contains(t, outcome.Output, "총 수집: 0개")
	assert.Contains(t, outcome.Output, "오류 발생: 페이지 1개 실패")

	result := classify.Classify(outcome.Output)
	assert.Equal(t, classify.VerdictFailure, result.Verdict)
}

func TestCrawlJobSaveFailuresStayOutOfOutput(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(politicsHTML))
	}))
	defer server.Close()

	store := &captureStore{failAll: true}
	job := jobs.NewCrawlJob(testSource(server.URL+"/politics/"), testJobConfig(), store, logger.NewNoOp())

	outcome, err := job.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, outcome.Collected)
	assert.Contains(t, outcome.Output, "총 수집: 3개")
	assert.NotContains(t, outcome.Output, "오류 발생")
	assert.Empty(t, store.saved())
}

func TestCrawlJobDescriptors(t *testing.T) {
	t.Parallel()

	registry := sources.NewRegistry([]sources.Source{
		{Name: "조선일보", PoliticsURL: "https://www.chosun.com/politics/", Group: "major_news"},
		{Name: "한겨레", PoliticsURL: "https://www.hani.co.kr/arti/politics/", Group: "major_news"},
	})

	descriptors := jobs.CrawlJobDescriptors(registry, testJobConfig(), &captureStore{}, logger.NewNoOp())

	require.Len(t, descriptors, 2)
	assert.Equal(t, "조선일보 정치", descriptors[0].Name)
	assert.Equal(t, "https://www.chosun.com/politics/", descriptors[0].Path)
	require.NotNil(t, descriptors[0].Runner)
	assert.Equal(t, "한겨레 정치", descriptors[1].Name)
	require.NotNil(t, descriptors[1].Runner)
}
