// Package config loads and validates application configuration from
// config.yaml, the environment, and an optional .env file.
package config

import (
	"fmt"
	"time"
)

// Default configuration values.
const (
	// DefaultEnvironment keeps unconfigured deployments on the
	// production-safe path.
	DefaultEnvironment = "production"
	// DefaultWorkers is the crawl engine worker count.
	DefaultWorkers = 8
	// DefaultCrawlTimeout bounds one page fetch.
	DefaultCrawlTimeout = 10 * time.Second
	// DefaultMaxBodyBytes limits one fetched response body.
	DefaultMaxBodyBytes int64 = 10 << 20
	// DefaultOutputFile receives the crawl command's item dump.
	DefaultOutputFile = "crawled_news.json"
	// DefaultJobDelay is the pause between orchestrated jobs.
	DefaultJobDelay = 3 * time.Second
	// DefaultJobTimeout bounds one crawler job.
	DefaultJobTimeout = 10 * time.Minute
	// DefaultReportFile receives the orchestration run report.
	DefaultReportFile = "crawler_report.json"
	// DefaultStorageBackend persists nothing; items still reach the
	// output file.
	DefaultStorageBackend = "none"
	// DefaultServerAddress is where serve listens.
	DefaultServerAddress = ":8080"
	// DefaultServerTimeout applies to both read and write.
	DefaultServerTimeout = 15 * time.Second
	// DefaultLogLevel is the production log level.
	DefaultLogLevel = "info"
	// DefaultSourcesFile is the source registry path.
	DefaultSourcesFile = "sources.yml"
)

// Storage backends the storage section accepts.
const (
	BackendNone          = "none"
	BackendPostgres      = "postgres"
	BackendElasticsearch = "elasticsearch"
)

// ValidationError reports a config field that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s %s", e.Field, e.Message)
}

// Config is the full application configuration.
type Config struct {
	App          AppConfig          `mapstructure:"app"`
	Crawl        CrawlConfig        `mapstructure:"crawl"`
	Orchestrator OrchestratorConfig `mapstructure:"orchestrator"`
	Storage      StorageConfig      `mapstructure:"storage"`
	Log          LogConfig          `mapstructure:"log"`
	Server       ServerConfig       `mapstructure:"server"`
	Sources      SourcesConfig      `mapstructure:"sources"`
}

// AppConfig holds application-wide settings.
type AppConfig struct {
	// Environment is one of development, staging, production.
	Environment string `mapstructure:"environment"`
	Debug       bool   `mapstructure:"debug"`
}

// Validate checks the app section.
func (c *AppConfig) Validate() error {
	switch c.Environment {
	case "development", "staging", "production":
		return nil
	default:
		return &ValidationError{Field: "app.environment", Message: "must be development, staging, or production"}
	}
}

// CrawlConfig holds crawl engine settings.
type CrawlConfig struct {
	Workers      int           `mapstructure:"workers"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MaxBodyBytes int64         `mapstructure:"max_body"`
	OutputFile   string        `mapstructure:"output_file"`
}

// Validate checks the crawl section.
func (c *CrawlConfig) Validate() error {
	if c.Workers <= 0 {
		return &ValidationError{Field: "crawl.workers", Message: "must be positive"}
	}
	if c.Timeout <= 0 {
		return &ValidationError{Field: "crawl.timeout", Message: "must be positive"}
	}
	if c.MaxBodyBytes <= 0 {
		return &ValidationError{Field: "crawl.max_body", Message: "must be positive"}
	}
	return nil
}

// OrchestratorConfig holds job orchestration settings.
type OrchestratorConfig struct {
	// JobDelay is the pause between jobs. Zero selects the default
	// pause; a negative value disables it.
	JobDelay   time.Duration `mapstructure:"delay"`
	JobTimeout time.Duration `mapstructure:"job_timeout"`
	// Interpreter launches subprocess jobs, e.g. "python3". Empty runs
	// the job path directly.
	Interpreter string `mapstructure:"interpreter"`
	ReportFile  string `mapstructure:"report_file"`
	// Schedule is a five-field cron expression. Empty means run once.
	Schedule string `mapstructure:"schedule"`
}

// Validate checks the orchestrator section.
func (c *OrchestratorConfig) Validate() error {
	if c.JobTimeout <= 0 {
		return &ValidationError{Field: "orchestrator.job_timeout", Message: "must be positive"}
	}
	if c.ReportFile == "" {
		return &ValidationError{Field: "orchestrator.report_file", Message: "is required"}
	}
	return nil
}

// StorageConfig selects and configures the article store.
type StorageConfig struct {
	// Backend is one of none, postgres, elasticsearch.
	Backend       string               `mapstructure:"backend"`
	Postgres      PostgresSection      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchSection `mapstructure:"elasticsearch"`
}

// PostgresSection holds Postgres connection settings.
type PostgresSection struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// ElasticsearchSection holds Elasticsearch connection settings.
type ElasticsearchSection struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	APIKey    string   `mapstructure:"api_key"`
	Index     string   `mapstructure:"index"`
}

// Validate checks the storage section.
func (c *StorageConfig) Validate() error {
	switch c.Backend {
	case BackendNone:
		return nil
	case BackendPostgres:
		if c.Postgres.Host == "" {
			return &ValidationError{Field: "storage.postgres.host", Message: "is required"}
		}
		if c.Postgres.DBName == "" {
			return &ValidationError{Field: "storage.postgres.dbname", Message: "is required"}
		}
		return nil
	case BackendElasticsearch:
		if len(c.Elasticsearch.Addresses) == 0 {
			return &ValidationError{Field: "storage.elasticsearch.addresses", Message: "is required"}
		}
		return nil
	default:
		return &ValidationError{Field: "storage.backend", Message: "must be none, postgres, or elasticsearch"}
	}
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// Validate checks the log section.
func (c *LogConfig) Validate() error {
	switch c.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return &ValidationError{Field: "log.level", Message: "must be debug, info, warn, or error"}
	}
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Address      string        `mapstructure:"address"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Validate checks the server section.
func (c *ServerConfig) Validate() error {
	if c.Address == "" {
		return &ValidationError{Field: "server.address", Message: "is required"}
	}
	if c.ReadTimeout <= 0 || c.WriteTimeout <= 0 {
		return &ValidationError{Field: "server.read_timeout", Message: "timeouts must be positive"}
	}
	return nil
}

// SourcesConfig holds registry settings.
type SourcesConfig struct {
	File string `mapstructure:"file"`
}

// Validate checks the sources section.
func (c *SourcesConfig) Validate() error {
	if c.File == "" {
		return &ValidationError{Field: "sources.file", Message: "is required"}
	}
	return nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	sections := []interface{ Validate() error }{
		&c.App, &c.Crawl, &c.Orchestrator, &c.Storage, &c.Log, &c.Server, &c.Sources,
	}
	for _, section := range sections {
		if err := section.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Option configures a programmatically built Config.
type Option func(*Config)

// WithEnvironment sets the app environment.
func WithEnvironment(env string) Option {
	return func(c *Config) { c.App.Environment = env }
}

// WithDebug sets debug mode.
func WithDebug(debug bool) Option {
	return func(c *Config) { c.App.Debug = debug }
}

// WithWorkers sets the crawl worker count.
func WithWorkers(workers int) Option {
	return func(c *Config) { c.Crawl.Workers = workers }
}

// WithStorageBackend selects the article store backend.
func WithStorageBackend(backend string) Option {
	return func(c *Config) { c.Storage.Backend = backend }
}

// New builds a Config from defaults and options, skipping file and
// environment lookup. Tests and embedders use this.
func New(opts ...Option) *Config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func defaultConfig() *Config {
	return &Config{
		App: AppConfig{Environment: DefaultEnvironment},
		Crawl: CrawlConfig{
			Workers:      DefaultWorkers,
			Timeout:      DefaultCrawlTimeout,
			MaxBodyBytes: DefaultMaxBodyBytes,
			OutputFile:   DefaultOutputFile,
		},
		Orchestrator: OrchestratorConfig{
			JobDelay:   DefaultJobDelay,
			JobTimeout: DefaultJobTimeout,
			ReportFile: DefaultReportFile,
		},
		Storage: StorageConfig{
			Backend: DefaultStorageBackend,
			Postgres: PostgresSection{
				Host:    "localhost",
				Port:    5432,
				User:    "postgres",
				DBName:  "newscrawl",
				SSLMode: "disable",
			},
			Elasticsearch: ElasticsearchSection{
				Addresses: []string{"http://localhost:9200"},
				Index:     "newscrawl-articles",
			},
		},
		Log: LogConfig{Level: DefaultLogLevel},
		Server: ServerConfig{
			Address:      DefaultServerAddress,
			ReadTimeout:  DefaultServerTimeout,
			WriteTimeout: DefaultServerTimeout,
		},
		Sources: SourcesConfig{File: DefaultSourcesFile},
	}
}
