package dedup_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polibrief/newscrawl/internal/dedup"
)

func TestHash(t *testing.T) {
	t.Parallel()

	t.Run("deterministic", func(t *testing.T) {
		t.Parallel()
		a := dedup.Hash("제목", "본문")
		b := dedup.Hash("제목", "본문")
		assert.Equal(t, a, b)
		assert.Len(t, a, 64)
	})

	t.Run("case and surrounding whitespace do not matter", func(t *testing.T) {
		t.Parallel()
		a := dedup.Hash("Breaking News", "Some Content")
		b := dedup.Hash("  breaking news", "some content  ")
		assert.Equal(t, a, b)
	})

	t.Run("different content differs", func(t *testing.T) {
		t.Parallel()
		a := dedup.Hash("제목", "본문 하나")
		b := dedup.Hash("제목", "본문 둘")
		assert.NotEqual(t, a, b)
	})

	t.Run("empty inputs still hash", func(t *testing.T) {
		t.Parallel()
		assert.Len(t, dedup.Hash("", ""), 64)
	})
}

func TestSetCheckAndAdd(t *testing.T) {
	t.Parallel()

	s := dedup.NewSet()

	require.False(t, s.CheckAndAdd("제목", "본문"), "first insert must be accepted")
	assert.True(t, s.CheckAndAdd("제목", "본문"), "second insert must be rejected")
	assert.True(t, s.CheckAndAdd("  제목", "본문  "), "normalized variant must be rejected")
	assert.False(t, s.CheckAndAdd("다른 제목", "본문"))
	assert.Equal(t, 2, s.Len())
}

func TestSetConcurrentSameIdentity(t *testing.T) {
	t.Parallel()

	const callers = 64

	s := dedup.NewSet()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
	)

	start := make(chan struct{})
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if !s.CheckAndAdd("동일 제목", "동일 본문") {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}

	close(start)
	wg.Wait()

	assert.Equal(t, 1, accepted, "exactly one caller may win the insert")
	assert.Equal(t, 1, s.Len())
}

func TestSetConcurrentDistinctIdentities(t *testing.T) {
	t.Parallel()

	const items = 50

	s := dedup.NewSet()

	var wg sync.WaitGroup
	for i := range items {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			title := string(rune('a' + n%26))
			content := string(rune('A' + n/26))
			s.CheckAndAdd(title+content, "내용이 충분히 길다")
		}(i)
	}
	wg.Wait()

	assert.Equal(t, items, s.Len())
}
