// Package storage persists collected articles. The crawl command writes
// through the ArticleStore interface; backends are selected by
// configuration.
package storage

import (
	"context"

	"github.com/polibrief/newscrawl/internal/domain"
)

// ArticleStore persists crawled articles.
type ArticleStore interface {
	// SaveArticle stores one article. Saving an article whose link is
	// already stored is not an error.
	SaveArticle(ctx context.Context, article *domain.Article) error
	// LinkExists reports whether an article with the link is stored.
	LinkExists(ctx context.Context, link string) (bool, error)
	// CountBySource counts stored articles collected from one source.
	CountBySource(ctx context.Context, source string) (int, error)
	// Close releases the backend's resources.
	Close() error
}

// NoopStore accepts every article and stores nothing. It backs the default
// "none" storage backend, where the crawl output file is the only sink.
type NoopStore struct{}

func (NoopStore) SaveArticle(context.Context, *domain.Article) error { return nil }

func (NoopStore) LinkExists(context.Context, string) (bool, error) { return false, nil }

func (NoopStore) CountBySource(context.Context, string) (int, error) { return 0, nil }

func (NoopStore) Close() error { return nil }
