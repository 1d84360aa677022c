// Package run implements the run command: execute every registered
// crawler job sequentially and report the results.
package run

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/polibrief/newscrawl/cmd/common"
	"github.com/polibrief/newscrawl/internal/domain"
	"github.com/polibrief/newscrawl/internal/jobs"
	"github.com/polibrief/newscrawl/internal/logger"
	"github.com/polibrief/newscrawl/internal/orchestrate"
	"github.com/polibrief/newscrawl/internal/report"
)

// Command builds the run command.
func Command() *cobra.Command {
	var (
		reportFile string
		schedule   string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run all crawler jobs and write the report",
		Long: `Run executes a crawler job for every configured source, one at a
time, classifies each job's output, prints the result table, and saves
the JSON report. With --schedule it keeps re-running on a cron schedule
until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			deps, err := common.NewCommandDeps(cmd)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cmd.OutOrStdout(), deps, reportFile, schedule)
		},
	}

	cmd.Flags().StringVar(&reportFile, "report", "", "report file path (default from config)")
	cmd.Flags().StringVar(&schedule, "schedule", "", `cron schedule, e.g. "0 6 * * *" (default from config; empty runs once)`)

	return cmd
}

func run(ctx context.Context, out io.Writer, deps common.Deps, reportFile, schedule string) error {
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

	path := cfg.Orchestrator.ReportFile
	if reportFile != "" {
		path = reportFile
	}
	cronSpec := cfg.Orchestrator.Schedule
	if schedule != "" {
		cronSpec = schedule
	}

	if cronSpec == "" {
		return runOnce(ctx, out, orch, path, log)
	}
	return runScheduled(ctx, out, orch, path, cronSpec, log)
}

// runOnce executes the whole job list a single time. The report is
// rendered and saved even when the run was cancelled partway.
func runOnce(ctx context.Context, out io.Writer, orch *orchestrate.Orchestrator, path string, log logger.Interface) error {
	rep, runErr := orch.Run(ctx)
	if rep != nil {
		publishReport(out, rep, path, log)
	}
	return runErr
}

// runScheduled re-runs the job list on the cron schedule until SIGINT or
// SIGTERM.
func runScheduled(
	ctx context.Context,
	out io.Writer,
	orch *orchestrate.Orchestrator,
	path, cronSpec string,
	log logger.Interface,
) error {
	scheduler := orchestrate.NewScheduler(orch, log, func(rep *domain.RunReport) {
		publishReport(out, rep, path, log)
	})
	if err := scheduler.Start(ctx, cronSpec); err != nil {
		return err
	}

	fmt.Fprintf(out, "scheduled %q, waiting (Ctrl+C to stop)\n", cronSpec)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigChan:
		log.Info("signal received", "signal", sig.String())
	case <-ctx.Done():
	}

	scheduler.Stop()
	return nil
}

func publishReport(out io.Writer, rep *domain.RunReport, path string, log logger.Interface) {
	report.NewReporter(out).Render(rep)
	if err := report.Save(path, rep); err != nil {
		log.Error("report save failed", "path", path, "error", err.Error())
		return
	}
	fmt.Fprintf(out, "\nreport saved to %s\n", path)
}
