// Package orchestrate runs the registered crawler jobs strictly one after
// another and assembles the run report.
package orchestrate

import (
	"context"
	"time"

	"github.com/polibrief/newscrawl/internal/domain"
	"github.com/polibrief/newscrawl/internal/logger"
)

// DefaultJobDelay separates consecutive job runs so the host and the
// shared storage are never hit by two crawlers back to back.
const DefaultJobDelay = 3 * time.Second

// JobRunner executes one job to a terminal record.
type JobRunner interface {
	Run(ctx context.Context, job domain.JobDescriptor) domain.JobExecutionRecord
}

// Config holds orchestrator settings.
type Config struct {
	// JobDelay is the pause between consecutive jobs. Zero means
	// DefaultJobDelay; negative disables the pause.
	JobDelay time.Duration
}

// Orchestrator runs jobs sequentially in registration order. Exactly one
// job is in flight at any time. The registry is read-only once Run is
// called.
type Orchestrator struct {
	cfg    Config
	runner JobRunner
	log    logger.Interface
	jobs   []domain.JobDescriptor
}

// New creates an orchestrator with an empty registry.
func New(cfg Config, runner JobRunner, log logger.Interface) *Orchestrator {
	if cfg.JobDelay == 0 {
		cfg.JobDelay = DefaultJobDelay
	}
	return &Orchestrator{cfg: cfg, runner: runner, log: log}
}

// Register appends jobs to the registry. Registration order is execution
// order.
func (o *Orchestrator) Register(jobs ...domain.JobDescriptor) {
	o.jobs = append(o.jobs, jobs...)
}

// Jobs returns the registered jobs in execution order.
func (o *Orchestrator) Jobs() []domain.JobDescriptor {
	return o.jobs
}

// Run executes every registered job and returns the report. A job's own
// failure never stops the run. On cancellation the jobs not yet started
// stay pending in the report and the context's error is returned together
// with the partial report.
func (o *Orchestrator) Run(ctx context.Context) (*domain.RunReport, error) {
	start := time.Now()
	o.log.Info("orchestration started", "jobs", len(o.jobs))

	report := &domain.RunReport{
		Results: make([]domain.JobExecutionRecord, 0, len(o.jobs)),
	}

	for i, job := range o.jobs {
		if ctx.Err() != nil {
			report.Results = append(report.Results, domain.JobExecutionRecord{
				Name:   job.Name,
				Path:   job.Path,
				Status: domain.StatusPending,
			})
			continue
		}

		o.log.Info("running job", "index", i+1, "total", len(o.jobs), "name", job.Name)
		report.Results = append(report.Results, o.runner.Run(ctx, job))

		if i < len(o.jobs)-1 {
			o.pause(ctx)
		}
	}

	end := time.Now()
	report.Summary = buildSummary(report.Results, start, end)

	o.log.Info("orchestration finished",
		"successful", report.Summary.Successful,
		"failed", report.Summary.Failed,
		"error", report.Summary.Error,
		"articles", report.Summary.TotalArticles,
		"duration", end.Sub(start).String(),
	)

	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

// pause waits the inter-job delay, returning early on cancellation.
func (o *Orchestrator) pause(ctx context.Context) {
	if o.cfg.JobDelay <= 0 {
		return
	}

	timer := time.NewTimer(o.cfg.JobDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// buildSummary totals the per-job records. Only successful jobs contribute
// to the article total; unclear and pending rows are visible in the
// results but belong to none of the counters.
func buildSummary(results []domain.JobExecutionRecord, start, end time.Time) domain.ReportSummary {
	summary := domain.ReportSummary{
		TotalCrawlers: len(results),
		TotalDuration: domain.Duration(end.Sub(start)),
		StartTime:     start,
		EndTime:       end,
	}

	for _, r := range results {
		switch r.Status {
		case domain.StatusSuccess:
			summary.Successful++
			summary.TotalArticles += r.ArticlesCollected
		case domain.StatusFailed:
			summary.Failed++
		case domain.StatusError:
			summary.Error++
		}
	}
	return summary
}
