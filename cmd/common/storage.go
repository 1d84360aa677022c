package common

import (
	"context"
	"fmt"
	"strconv"

	"github.com/polibrief/newscrawl/internal/config"
	"github.com/polibrief/newscrawl/internal/logger"
	"github.com/polibrief/newscrawl/internal/storage"
)

// NewArticleStore builds the article store the storage backend names.
// Callers own the returned store and must Close it. The "none" backend
// returns a store that accepts and drops everything, so crawl and run
// never branch on whether persistence is configured.
func NewArticleStore(ctx context.Context, cfg *config.Config, log logger.Interface) (storage.ArticleStore, error) {
	switch cfg.Storage.Backend {
	case config.BackendNone:
		return storage.NoopStore{}, nil

	case config.BackendPostgres:
		db, err := storage.NewPostgresConnection(storage.PostgresConfig{
			Host:     cfg.Storage.Postgres.Host,
			Port:     strconv.Itoa(cfg.Storage.Postgres.Port),
			User:     cfg.Storage.Postgres.User,
			Password: cfg.Storage.Postgres.Password,
			DBName:   cfg.Storage.Postgres.DBName,
			SSLMode:  cfg.Storage.Postgres.SSLMode,
		})
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		store := storage.NewPostgresStore(db)
		if migrateErr := store.Migrate(ctx); migrateErr != nil {
			_ = store.Close()
			return nil, fmt.Errorf("migrate postgres: %w", migrateErr)
		}
		return store, nil

	case config.BackendElasticsearch:
		client, err := storage.NewElasticClient(storage.ElasticConfig{
			Addresses: cfg.Storage.Elasticsearch.Addresses,
			Username:  cfg.Storage.Elasticsearch.Username,
			Password:  cfg.Storage.Elasticsearch.Password,
			APIKey:    cfg.Storage.Elasticsearch.APIKey,
		})
		if err != nil {
			return nil, fmt.Errorf("create elasticsearch client: %w", err)
		}
		return storage.NewElasticStore(client, cfg.Storage.Elasticsearch.Index, log), nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
