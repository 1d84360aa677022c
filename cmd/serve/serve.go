// Package serve implements the serve command: the HTTP surface over the
// orchestrator and the source registry.
package serve

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/polibrief/newscrawl/cmd/common"
	"github.com/polibrief/newscrawl/internal/api"
	"github.com/polibrief/newscrawl/internal/jobs"
	"github.com/polibrief/newscrawl/internal/orchestrate"
)

// DefaultShutdownTimeout bounds the graceful shutdown after a signal.
const DefaultShutdownTimeout = 10 * time.Second

// Command builds the serve command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the crawler HTTP API",
		Long: `Serve starts the HTTP API: health, the latest run report, run
triggering, and the source listing. With a configured cron schedule it
also re-runs the jobs on schedule and publishes each report.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			deps, err := common.NewCommandDeps(cmd)
			if err != nil {
				return err
			}
			return run(cmd.Context(), deps)
		},
	}
}

func run(ctx context.Context, deps common.Deps) error {
	cfg, log := deps.Config, deps.Logger

	registry, err := common.LoadRegistry(cfg)
	if err != nil {
		return err
	}

	store, err := common.NewArticleStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			log.Warn("store close failed", "error", closeErr.Error())
		}
	}()

	orch := orchestrate.New(
		orchestrate.Config{JobDelay: cfg.Orchestrator.JobDelay},
		jobs.NewJobRunner(jobs.Config{
			Interpreter: cfg.Orchestrator.Interpreter,
			Timeout:     cfg.Orchestrator.JobTimeout,
		}, log),
		log,
	)
	orch.Register(jobs.CrawlJobDescriptors(registry, jobs.CrawlJobConfig{
		Workers:      cfg.Crawl.Workers,
		Timeout:      cfg.Crawl.Timeout,
		MaxBodyBytes: cfg.Crawl.MaxBodyBytes,
	}, store, log)...)

	handler := api.NewHandler(ctx, log, orch, registry)
	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      api.SetupRouter(log, handler),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	var scheduler *orchestrate.Scheduler
	if cfg.Orchestrator.Schedule != "" {
		// Ticks go through the handler so the scheduled run and the HTTP
		// trigger share one single-run guard. The handler stores the
		// report itself.
		scheduler = orchestrate.NewScheduler(handler, log, nil)
		if startErr := scheduler.Start(ctx, cfg.Orchestrator.Schedule); startErr != nil {
			return startErr
		}
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "address", cfg.Server.Address)
		if listenErr := srv.ListenAndServe(); listenErr != nil && !errors.Is(listenErr, http.ErrServerClosed) {
			serverErr <- listenErr
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case listenErr := <-serverErr:
		if scheduler != nil {
			scheduler.Stop()
		}
		return fmt.Errorf("server error: %w", listenErr)
	case sig := <-sigChan:
		log.Info("signal received, shutting down", "signal", sig.String())
	case <-ctx.Done():
	}

	if scheduler != nil {
		scheduler.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer cancel()
	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		return fmt.Errorf("server shutdown: %w", shutdownErr)
	}

	log.Info("server stopped")
	return nil
}
