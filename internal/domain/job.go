// Package domain provides domain models used across the application.
package domain

import (
	"context"
	"time"
)

// Status is the lifecycle state of a crawler job execution.
type Status string

const (
	// StatusPending marks a job that has not run yet.
	StatusPending Status = "pending"
	// StatusSuccess marks a job whose output classified as successful.
	StatusSuccess Status = "success"
	// StatusFailed marks a job whose output classified as failed, or that
	// exited non-zero with stderr output.
	StatusFailed Status = "failed"
	// StatusError marks a job that could not run to completion: launch
	// failure, timeout, or an in-process runner returning an error.
	StatusError Status = "error"
	// StatusUnclear marks a job whose output matched no marker.
	StatusUnclear Status = "unclear"
)

// Outcome is what an in-process runner reports back when it finishes.
type Outcome struct {
	// Collected is the number of articles the runner stored.
	Collected int
	// Output is the runner's textual report, in the same dialect the
	// output classifier understands.
	Output string
}

// Runner is an in-process crawler job entry point.
type Runner interface {
	Run(ctx context.Context) (Outcome, error)
}

// JobDescriptor registers one crawler job with the orchestrator.
// Runner executes when non-nil; otherwise Path runs as a subprocess.
type JobDescriptor struct {
	// Name is the display name, e.g. "연합뉴스 정치".
	Name string
	// Path is the script or command path. Informational for runner jobs.
	Path string
	// Runner is the in-process entry point, nil for subprocess jobs.
	Runner Runner
	// Args are extra command arguments for subprocess jobs.
	Args []string
}

// JobExecutionRecord is the per-job row of a run report. A record is
// created pending and moves to exactly one terminal status. StartedAt and
// EndedAt stay out of the persisted JSON; consumers read duration.
type JobExecutionRecord struct {
	Name              string    `json:"name"`
	Path              string    `json:"path"`
	Status            Status    `json:"status"`
	ArticlesCollected int       `json:"articles_collected"`
	Duration          Duration  `json:"duration"`
	ErrorMessage      string    `json:"error_message"`
	ExitCode          int       `json:"exit_code"`
	StartedAt         time.Time `json:"-"`
	EndedAt           time.Time `json:"-"`
}

// RunReport is the aggregate of one orchestration run.
type RunReport struct {
	Summary ReportSummary        `json:"summary"`
	Results []JobExecutionRecord `json:"results"`
}

// ReportSummary totals one orchestration run. Unclear results are visible
// in the per-job rows but belong to none of the three counters.
type ReportSummary struct {
	TotalCrawlers int       `json:"total_crawlers"`
	Successful    int       `json:"successful"`
	Failed        int       `json:"failed"`
	Error         int       `json:"error"`
	TotalArticles int       `json:"total_articles"`
	TotalDuration Duration  `json:"total_duration"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
}
