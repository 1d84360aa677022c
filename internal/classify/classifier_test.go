package classify_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/polibrief/newscrawl/internal/classify"
	"github.com/polibrief/newscrawl/internal/domain"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		output    string
		verdict   classify.Verdict
		collected int
	}{
		{
			name:      "completed collection with count",
			output:    "크롤링 시작\n기사 수집 완료\n총 수집: 42개\n",
			verdict:   classify.VerdictSuccess,
			collected: 42,
		},
		{
			name:      "count marker alone is also a success marker",
			output:    "총 수집: 7개",
			verdict:   classify.VerdictSuccess,
			collected: 7,
		},
		{
			name:      "success with count beats failure marker",
			output:    "일부 페이지 오류 발생\n수집 완료\n총 수집: 3개",
			verdict:   classify.VerdictSuccess,
			collected: 3,
		},
		{
			name:      "success marker without count is unclear",
			output:    "수집 완료",
			verdict:   classify.VerdictAmbiguous,
			collected: 0,
		},
		{
			name:      "failure marker",
			output:    "연결 실패: 타임아웃",
			verdict:   classify.VerdictFailure,
			collected: 0,
		},
		{
			name:      "english exception marker",
			output:    "Traceback (most recent call last):\nException: boom",
			verdict:   classify.VerdictFailure,
			collected: 0,
		},
		{
			name:      "empty output is unclear",
			output:    "",
			verdict:   classify.VerdictAmbiguous,
			collected: 0,
		},
		{
			name:      "unrelated chatter is unclear",
			output:    "starting up\nloading configuration\n",
			verdict:   classify.VerdictAmbiguous,
			collected: 0,
		},
		{
			name:      "unparseable count falls back to zero",
			output:    "수집 완료\n총 수집: 많음개",
			verdict:   classify.VerdictAmbiguous,
			collected: 0,
		},
		{
			name:      "fallback count marker",
			output:    "저장 완료\n수집된 기사: 12개",
			verdict:   classify.VerdictSuccess,
			collected: 12,
		},
		{
			name:      "primary count marker wins over fallback",
			output:    "총 수집: 5개\n수집된 기사: 9개",
			verdict:   classify.VerdictSuccess,
			collected: 5,
		},
		{
			name:      "count without unit token parses to end of line",
			output:    "수집 완료\n총 수집: 8",
			verdict:   classify.VerdictSuccess,
			collected: 8,
		},
		{
			name:      "failure with zero count",
			output:    "수집 완료\n총 수집: 0개\n오류 발생",
			verdict:   classify.VerdictFailure,
			collected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := classify.Classify(tt.output)
			assert.Equal(t, tt.verdict, result.Verdict)
			assert.Equal(t, tt.collected, result.ItemsCollected)
		})
	}
}

func TestClassifyDetailLines(t *testing.T) {
	t.Parallel()

	output := "크롤러 시작\n" +
		"  연합뉴스 수집 중\n" +
		"저장 완료: 10건\n" +
		"디버그: 캐시 적중\n" +
		"총 수집: 10개\n"

	result := classify.Classify(output)

	assert.Equal(t, []string{
		"연합뉴스 수집 중",
		"저장 완료: 10건",
		"총 수집: 10개",
	}, result.DetailLines)
}

func TestVerdictStatus(t *testing.T) {
	t.Parallel()

	assert.Equal(t, domain.StatusSuccess, classify.VerdictSuccess.Status())
	assert.Equal(t, domain.StatusFailed, classify.VerdictFailure.Status())
	assert.Equal(t, domain.StatusUnclear, classify.VerdictAmbiguous.Status())
}
