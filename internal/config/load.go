package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// envPrefix namespaces environment overrides: crawl.workers is overridden
// by NEWSCRAWL_CRAWL_WORKERS.
const envPrefix = "NEWSCRAWL"

// Load reads configuration from the given file, the environment, and an
// optional .env file. An empty path searches for config.yaml in the working
// directory and ./config; a missing file there is not an error, the
// defaults apply.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	if err := readConfigFile(v, path); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func readConfigFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config file: %w", err)
		}
		return nil
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config file: %w", err)
		}
	}
	return nil
}

// setDefaults registers every key so environment overrides reach
// Unmarshal even without a config file.
func setDefaults(v *viper.Viper) {
	v.SetDefault("app", map[string]any{
		"environment": DefaultEnvironment,
		"debug":       false,
	})

	v.SetDefault("crawl", map[string]any{
		"workers":     DefaultWorkers,
		"timeout":     DefaultCrawlTimeout.String(),
		"max_body":    DefaultMaxBodyBytes,
		"output_file": DefaultOutputFile,
	})

	v.SetDefault("orchestrator", map[string]any{
		"delay":       DefaultJobDelay.String(),
		"job_timeout": DefaultJobTimeout.String(),
		"interpreter": "",
		"report_file": DefaultReportFile,
		"schedule":    "",
	})

	v.SetDefault("storage", map[string]any{
		"backend": DefaultStorageBackend,
		"postgres": map[string]any{
			"host":     "localhost",
			"port":     5432,
			"user":     "postgres",
			"password": "",
			"dbname":   "newscrawl",
			"sslmode":  "disable",
		},
		"elasticsearch": map[string]any{
			"addresses": []string{"http://localhost:9200"},
			"username":  "",
			"password":  "",
			"api_key":   "",
			"index":     "newscrawl-articles",
		},
	})

	v.SetDefault("log", map[string]any{
		"level":       DefaultLogLevel,
		"development": false,
	})

	v.SetDefault("server", map[string]any{
		"address":       DefaultServerAddress,
		"read_timeout":  DefaultServerTimeout.String(),
		"write_timeout": DefaultServerTimeout.String(),
	})

	v.SetDefault("sources", map[string]any{
		"file": DefaultSourcesFile,
	})
}
