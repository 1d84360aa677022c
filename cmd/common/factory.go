package common

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/polibrief/newscrawl/internal/config"
	"github.com/polibrief/newscrawl/internal/logger"
	"github.com/polibrief/newscrawl/internal/sources"
)

// NewCommandDeps loads configuration and builds the logger for one command
// invocation. The persistent --config and --debug flags are read from the
// command's merged flag set; --debug forces debug-level development logging
// whatever the config says.
func NewCommandDeps(cmd *cobra.Command) (Deps, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return Deps{}, fmt.Errorf("load config: %w", err)
	}

	if debug {
		cfg.App.Debug = true
		cfg.Log.Level = "debug"
		cfg.Log.Development = true
	}

	log, err := logger.New(&logger.Config{
		Level:       logger.Level(cfg.Log.Level),
		Development: cfg.Log.Development,
	})
	if err != nil {
		return Deps{}, fmt.Errorf("create logger: %w", err)
	}

	deps := Deps{Config: cfg, Logger: log}
	if validateErr := deps.Validate(); validateErr != nil {
		return Deps{}, fmt.Errorf("validate deps: %w", validateErr)
	}
	return deps, nil
}

// LoadRegistry reads the source registry named by the configuration.
func LoadRegistry(cfg *config.Config) (*sources.Registry, error) {
	registry, err := sources.NewLoader(cfg.Sources.File).Load()
	if err != nil {
		return nil, fmt.Errorf("load sources: %w", err)
	}
	return registry, nil
}
