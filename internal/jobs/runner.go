// Package jobs executes registered crawler jobs, one at a time, and folds
// every way a job can go wrong into its execution record.
package jobs

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/polibrief/newscrawl/internal/classify"
	"github.com/polibrief/newscrawl/internal/domain"
	"github.com/polibrief/newscrawl/internal/logger"
)

const (
	// moduleSearchPath is exported to every subprocess job so scripts can
	// resolve shared configuration relative to the working directory.
	moduleSearchPath = "NEWSCRAWL_PATH=."
	// maxCaptureBytes caps each of stdout and stderr. Output beyond the cap
	// is dropped, including any markers it would have carried.
	maxCaptureBytes = 1 << 20
	// maxErrorRunes caps the error detail carried into a record.
	maxErrorRunes = 200
)

// Config holds job runner settings.
type Config struct {
	// Interpreter launches subprocess jobs, e.g. "python3". Empty means the
	// job path is executed directly.
	Interpreter string
	// Timeout bounds one job run. Zero means no limit.
	Timeout time.Duration
	// WorkDir is the working directory for subprocess jobs.
	WorkDir string
}

// JobRunner executes jobs and produces their execution records.
type JobRunner struct {
	cfg Config
	log logger.Interface
}

// NewJobRunner creates a runner with the given settings.
func NewJobRunner(cfg Config, log logger.Interface) *JobRunner {
	return &JobRunner{cfg: cfg, log: log}
}

// Run executes one job to a terminal status. Errors never escape: launch
// failures, timeouts, and bad exits all land in the record, so the caller
// can always keep going.
func (r *JobRunner) Run(ctx context.Context, job domain.JobDescriptor) domain.JobExecutionRecord {
	record := domain.JobExecutionRecord{
		Name:   job.Name,
		Path:   job.Path,
		Status: domain.StatusPending,
	}

	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}

	r.log.Info("job started", "name", job.Name, "path", job.Path)

	record.StartedAt = time.Now()
	if job.Runner != nil {
		r.runInProcess(ctx, job, &record)
	} else {
		r.runSubprocess(ctx, job, &record)
	}
	record.EndedAt = time.Now()
	record.Duration = domain.Duration(record.EndedAt.Sub(record.StartedAt))

	r.log.Info("job finished",
		"name", job.Name,
		"status", string(record.Status),
		"articles", record.ArticlesCollected,
		"duration", time.Duration(record.Duration).String(),
	)
	return record
}

// runInProcess executes a registered runner. Its structured outcome is
// authoritative; textual output, when present, is classified the same way
// subprocess output is.
func (r *JobRunner) runInProcess(ctx context.Context, job domain.JobDescriptor, record *domain.JobExecutionRecord) {
	outcome, err := job.Runner.Run(ctx)
	if err != nil {
		record.Status = domain.StatusError
		record.ErrorMessage = truncateRunes(err.Error(), maxErrorRunes)
		record.ExitCode = -1
		return
	}

	record.ArticlesCollected = outcome.Collected
	if outcome.Output == "" {
		record.Status = domain.StatusSuccess
		return
	}

	result := classify.Classify(outcome.Output)
	record.Status = result.Verdict.Status()
	if result.ItemsCollected > 0 {
		record.ArticlesCollected = result.ItemsCollected
	}
}

func (r *JobRunner) runSubprocess(ctx context.Context, job domain.JobDescriptor, record *domain.JobExecutionRecord) {
	name, args := r.command(job)
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.cfg.WorkDir
	cmd.Env = append(os.Environ(), moduleSearchPath)

	stdout := &boundedBuffer{max: maxCaptureBytes}
	stderr := &boundedBuffer{max: maxCaptureBytes}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	runErr := cmd.Run()

	if runErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			record.Status = domain.StatusError
			record.ErrorMessage = truncateRunes(runErr.Error(), maxErrorRunes)
			record.ExitCode = -1
			return
		}
		record.ExitCode = exitErr.ExitCode()
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		record.Status = domain.StatusError
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			record.ErrorMessage = "timed out"
		} else {
			record.ErrorMessage = ctxErr.Error()
		}
		return
	}

	// The count stdout reports is kept even when the verdict below
	// overrides the classification.
	result := classify.Classify(stdout.String())
	record.ArticlesCollected = result.ItemsCollected

	// A bad exit with stderr output is a failure no matter what stdout
	// claims. Exit code alone is never authoritative.
	errText := strings.TrimSpace(stderr.String())
	if record.ExitCode != 0 && errText != "" {
		record.Status = domain.StatusFailed
		record.ErrorMessage = truncateRunes(errText, maxErrorRunes)
		return
	}

	record.Status = result.Verdict.Status()
	if record.Status == domain.StatusFailed && errText != "" {
		record.ErrorMessage = truncateRunes(errText, maxErrorRunes)
	}
}

// command resolves the executable and argument list for a subprocess job.
func (r *JobRunner) command(job domain.JobDescriptor) (string, []string) {
	if r.cfg.Interpreter == "" {
		return job.Path, job.Args
	}
	return r.cfg.Interpreter, append([]string{job.Path}, job.Args...)
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

// boundedBuffer keeps at most max bytes and silently drops the rest.
type boundedBuffer struct {
	buf bytes.Buffer
	max int
}

func (b *boundedBuffer) Write(p []byte) (int, error) {
	n := len(p)
	if remaining := b.max - b.buf.Len(); remaining > 0 {
		if len(p) > remaining {
			p = p[:remaining]
		}
		b.buf.Write(p)
	}
	return n, nil
}

func (b *boundedBuffer) String() string {
	return b.buf.String()
}
