package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/polibrief/newscrawl/internal/domain"
)

const (
	// DefaultMaxOpenConns is the default maximum number of open connections
	DefaultMaxOpenConns = 25
	// DefaultMaxIdleConns is the default maximum number of idle connections
	DefaultMaxIdleConns = 5
	// DefaultConnMaxLifetime is the default maximum connection lifetime
	DefaultConnMaxLifetime = 5 * time.Minute
	// DefaultPingTimeout is the default timeout for ping operations
	DefaultPingTimeout = 5 * time.Second
)

// PostgresConfig holds database connection settings.
type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// NewPostgresConnection opens and verifies a PostgreSQL connection pool.
func NewPostgresConnection(cfg PostgresConfig) (*sqlx.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	db.SetMaxOpenConns(DefaultMaxOpenConns)
	db.SetMaxIdleConns(DefaultMaxIdleConns)
	db.SetConnMaxLifetime(DefaultConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), DefaultPingTimeout)
	defer cancel()

	if pingErr := db.PingContext(ctx); pingErr != nil {
		return nil, fmt.Errorf("ping database: %w", pingErr)
	}

	return db, nil
}

// articlesSchema keeps one row per article link regardless of which run
// collected it.
const articlesSchema = `
CREATE TABLE IF NOT EXISTS articles (
	id         UUID PRIMARY KEY,
	title      TEXT NOT NULL,
	deck       TEXT NOT NULL DEFAULT '',
	link       TEXT NOT NULL UNIQUE,
	time       TEXT NOT NULL DEFAULT '',
	author     TEXT NOT NULL DEFAULT '',
	img_url    TEXT NOT NULL DEFAULT '',
	content    TEXT NOT NULL,
	category   TEXT NOT NULL DEFAULT '',
	source     TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_articles_source ON articles (source);
`

// PostgresStore persists articles in PostgreSQL.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore wraps an open connection pool.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the articles table when it does not exist yet.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, articlesSchema); err != nil {
		return fmt.Errorf("create articles schema: %w", err)
	}
	return nil
}

// SaveArticle inserts one article. An article whose link is already stored
// is skipped silently.
func (s *PostgresStore) SaveArticle(ctx context.Context, article *domain.Article) error {
	query := `
		INSERT INTO articles (
			id, title, deck, link, time, author, img_url,
			content, category, source, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (link) DO NOTHING
	`

	_, err := s.db.ExecContext(
		ctx,
		query,
		article.ID,
		article.Title,
		article.Deck,
		article.Link,
		article.Time,
		article.Author,
		article.ImgURL,
		article.Content,
		article.Category,
		article.Source,
		article.CreatedAt,
		article.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save article: %w", err)
	}
	return nil
}

// LinkExists reports whether an article with the link is stored.
func (s *PostgresStore) LinkExists(ctx context.Context, link string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM articles WHERE link = $1)`

	if err := s.db.GetContext(ctx, &exists, query, link); err != nil {
		return false, fmt.Errorf("check link: %w", err)
	}
	return exists, nil
}

// CountBySource counts stored articles collected from one source.
func (s *PostgresStore) CountBySource(ctx context.Context, source string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM articles WHERE source = $1`

	if err := s.db.GetContext(ctx, &count, query, source); err != nil {
		return 0, fmt.Errorf("count articles: %w", err)
	}
	return count, nil
}

// Close closes the connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
