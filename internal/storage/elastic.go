package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	elasticsearch "github.com/elastic/go-elasticsearch/v8"

	"github.com/polibrief/newscrawl/internal/dedup"
	"github.com/polibrief/newscrawl/internal/domain"
	"github.com/polibrief/newscrawl/internal/logger"
)

// DefaultArticleIndex receives articles unless configured otherwise.
const DefaultArticleIndex = "newscrawl-articles"

// ElasticConfig holds Elasticsearch connection settings.
type ElasticConfig struct {
	Addresses []string
	Username  string
	Password  string
	APIKey    string
}

// NewElasticClient builds an Elasticsearch client from settings.
func NewElasticClient(cfg ElasticConfig) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
		APIKey:    cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}
	return client, nil
}

// ElasticStore indexes articles keyed by content identity, so re-indexing
// the same article overwrites its document instead of duplicating it.
type ElasticStore struct {
	client *elasticsearch.Client
	index  string
	log    logger.Interface
}

// NewElasticStore wraps a client. An empty index name selects
// DefaultArticleIndex.
func NewElasticStore(client *elasticsearch.Client, index string, log logger.Interface) *ElasticStore {
	if index == "" {
		index = DefaultArticleIndex
	}
	return &ElasticStore{client: client, index: index, log: log}
}

// SaveArticle indexes one article document.
func (s *ElasticStore) SaveArticle(ctx context.Context, article *domain.Article) error {
	body, err := json.Marshal(article)
	if err != nil {
		return fmt.Errorf("marshal article: %w", err)
	}

	docID := dedup.Hash(article.Title, article.Content)
	res, err := s.client.Index(
		s.index,
		bytes.NewReader(body),
		s.client.Index.WithContext(ctx),
		s.client.Index.WithDocumentID(docID),
		s.client.Index.WithRefresh("true"),
	)
	if err != nil {
		return fmt.Errorf("index article: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index article: %s", res.String())
	}

	s.log.Debug("article indexed", "index", s.index, "doc_id", docID, "link", article.Link)
	return nil
}

// LinkExists reports whether a document with the link is indexed.
func (s *ElasticStore) LinkExists(ctx context.Context, link string) (bool, error) {
	count, err := s.count(ctx, "link.keyword", link)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountBySource counts indexed articles collected from one source.
func (s *ElasticStore) CountBySource(ctx context.Context, source string) (int, error) {
	return s.count(ctx, "source.keyword", source)
}

// Close is a no-op; the underlying transport needs no shutdown.
func (s *ElasticStore) Close() error {
	return nil
}

func (s *ElasticStore) count(ctx context.Context, field, value string) (int, error) {
	query, err := json.Marshal(map[string]any{
		"query": map[string]any{"term": map[string]any{field: value}},
	})
	if err != nil {
		return 0, fmt.Errorf("marshal count query: %w", err)
	}

	res, err := s.client.Count(
		s.client.Count.WithContext(ctx),
		s.client.Count.WithIndex(s.index),
		s.client.Count.WithBody(bytes.NewReader(query)),
	)
	if err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, fmt.Errorf("count documents: %s", res.String())
	}

	var out struct {
		Count int `json:"count"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("decode count response: %w", err)
	}
	return out.Count, nil
}
