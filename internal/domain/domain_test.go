package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polibrief/newscrawl/internal/domain"
)

func TestDurationJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		d    domain.Duration
		want string
	}{
		{"seconds", domain.Duration(90 * time.Second), `"1m30s"`},
		{"sub-second", domain.Duration(1200 * time.Millisecond), `"1.2s"`},
		{"zero", domain.Duration(0), `"0s"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			data, err := json.Marshal(tt.d)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(data))

			var back domain.Duration
			require.NoError(t, json.Unmarshal(data, &back))
			assert.Equal(t, tt.d, back)
		})
	}
}

func TestDurationUnmarshalNumber(t *testing.T) {
	t.Parallel()

	var d domain.Duration
	require.NoError(t, json.Unmarshal([]byte("1500000000"), &d))
	assert.Equal(t, domain.Duration(1500*time.Millisecond), d)
}

func TestDurationUnmarshalInvalid(t *testing.T) {
	t.Parallel()

	var d domain.Duration
	assert.Error(t, json.Unmarshal([]byte(`"not a duration"`), &d))
	assert.Error(t, json.Unmarshal([]byte(`true`), &d))
}

func TestNewArticleFromItem(t *testing.T) {
	t.Parallel()

	item := domain.NewsItem{
		Title:    "국회 본회의 통과",
		Content:  "본문 요약...",
		Link:     "https://news.example.co.kr/politics/1234",
		Source:   "news.example.co.kr",
		Category: "정치일반",
	}

	article := domain.NewArticleFromItem(item)

	require.NotNil(t, article)
	assert.NotEmpty(t, article.ID)
	assert.Equal(t, item.Title, article.Title)
	assert.Equal(t, item.Link, article.Link)
	assert.Equal(t, item.Content, article.Content)
	assert.Equal(t, item.Category, article.Category)
	assert.Equal(t, item.Source, article.Source)
	assert.False(t, article.CreatedAt.IsZero())
	assert.Equal(t, article.CreatedAt, article.UpdatedAt)
}
