package report_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polibrief/newscrawl/internal/domain"
	"github.com/polibrief/newscrawl/internal/report"
)

func sampleReport() *domain.RunReport {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	end := start.Add(95 * time.Second)

	return &domain.RunReport{
		Summary: domain.ReportSummary{
			TotalCrawlers: 3,
			Successful:    1,
			Failed:        1,
			Error:         1,
			TotalArticles: 42,
			TotalDuration: domain.Duration(95 * time.Second),
			StartTime:     start,
			EndTime:       end,
		},
		Results: []domain.JobExecutionRecord{
			{
				Name:              "조선일보 정치",
				Path:              "crawlers/major_news/chosun.sh",
				Status:            domain.StatusSuccess,
				ArticlesCollected: 42,
				Duration:          domain.Duration(31 * time.Second),
			},
			{
				Name:         "동아일보 정치",
				Path:         "crawlers/major_news/donga.sh",
				Status:       domain.StatusFailed,
				Duration:     domain.Duration(12 * time.Second),
				ErrorMessage: "connection refused",
				ExitCode:     1,
			},
			{
				Name:         "국민일보 정치",
				Path:         "crawlers/major_news/kmib.sh",
				Status:       domain.StatusError,
				ErrorMessage: "timed out",
				ExitCode:     -1,
			},
		},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "crawler_report.json")
	original := sampleReport()

	require.NoError(t, report.Save(path, original))

	loaded, err := report.Load(path)
	require.NoError(t, err)
	assert.Equal(t, original, loaded)
}

func TestSavedSchemaFieldNames(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "crawler_report.json")
	require.NoError(t, report.Save(path, sampleReport()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc struct {
		Summary map[string]json.RawMessage   `json:"summary"`
		Results []map[string]json.RawMessage `json:"results"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))

	assert.ElementsMatch(t,
		[]string{
			"total_crawlers", "successful", "failed", "error",
			"total_articles", "total_duration", "start_time", "end_time",
		},
		keys(doc.Summary))

	require.Len(t, doc.Results, 3)
	assert.ElementsMatch(t,
		[]string{
			"name", "path", "status", "articles_collected",
			"duration", "error_message", "exit_code",
		},
		keys(doc.Results[0]))

	// Durations persist as duration strings, timestamps as RFC3339.
	assert.Equal(t, `"1m35s"`, string(doc.Summary["total_duration"]))
	assert.Equal(t, `"2026-03-02T09:00:00Z"`, string(doc.Summary["start_time"]))
	assert.Equal(t, `"31s"`, string(doc.Results[0]["duration"]))
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := report.Load(filepath.Join(t.TempDir(), "absent.json"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read report file")
	})

	t.Run("malformed json", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

		_, err := report.Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse report file")
	})
}

func TestRender(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	report.NewReporter(&buf).Render(sampleReport())
	out := buf.String()

	assert.Contains(t, out, "조선일보 정치")
	assert.Contains(t, out, "success")
	assert.Contains(t, out, "42")
	assert.Contains(t, out, "Total crawlers: 3")
	assert.Contains(t, out, "Total articles: 42")
	assert.Contains(t, out, "Succeeded:")
	assert.Contains(t, out, "+ 조선일보 정치: 42 articles")
	assert.Contains(t, out, "Failed:")
	assert.Contains(t, out, "- 동아일보 정치: connection refused")
	assert.Contains(t, out, "- 국민일보 정치: timed out")
}

func TestRenderAllSucceededOmitsFailedList(t *testing.T) {
	t.Parallel()

	rep := sampleReport()
	rep.Results = rep.Results[:1]
	rep.Summary.Failed = 0
	rep.Summary.Error = 0

	var buf bytes.Buffer
	report.NewReporter(&buf).Render(rep)

	assert.Contains(t, buf.String(), "Succeeded:")
	assert.NotContains(t, buf.String(), "Failed:")
}

func keys(m map[string]json.RawMessage) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
