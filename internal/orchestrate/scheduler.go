package orchestrate

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/robfig/cron/v3"

	"github.com/polibrief/newscrawl/internal/domain"
	"github.com/polibrief/newscrawl/internal/logger"
)

// ErrRunInProgress is returned when a run is requested while another run
// over the same jobs is still in flight.
var ErrRunInProgress = errors.New("a run is already in progress")

// Runner executes one full orchestration run. *Orchestrator satisfies it;
// so does any wrapper that adds its own single-run guard and reports a
// rejected start as ErrRunInProgress.
type Runner interface {
	Run(ctx context.Context) (*domain.RunReport, error)
}

// Scheduler re-runs the whole orchestration on a cron schedule. Runs never
// overlap: a tick that fires while the previous run is still going, or
// while the runner is busy on someone else's behalf, is skipped.
type Scheduler struct {
	runner  Runner
	log     logger.Interface
	cron    *cron.Cron
	running atomic.Bool
	handle  func(*domain.RunReport)
}

// NewScheduler creates a scheduler around a runner. handle receives every
// completed run's report; nil is allowed.
func NewScheduler(runner Runner, log logger.Interface, handle func(*domain.RunReport)) *Scheduler {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	return &Scheduler{
		runner: runner,
		log:    log,
		cron:   cron.New(cron.WithParser(parser), cron.WithChain(cron.Recover(cron.DefaultLogger))),
		handle: handle,
	}
}

// Start registers the schedule and starts the cron loop.
func (s *Scheduler) Start(ctx context.Context, schedule string) error {
	_, err := s.cron.AddFunc(schedule, func() { s.runOnce(ctx) })
	if err != nil {
		return fmt.Errorf("add schedule %q: %w", schedule, err)
	}

	s.cron.Start()
	s.log.Info("schedule started", "schedule", schedule)
	return nil
}

// Stop stops the cron loop and waits for an in-flight run to finish.
func (s *Scheduler) Stop() {
	cronCtx := s.cron.Stop()
	<-cronCtx.Done()
	s.log.Info("schedule stopped")
}

func (s *Scheduler) runOnce(ctx context.Context) {
	if !s.running.CompareAndSwap(false, true) {
		s.log.Warn("previous run still in progress, skipping tick")
		return
	}
	defer s.running.Store(false)

	report, err := s.runner.Run(ctx)
	if errors.Is(err, ErrRunInProgress) {
		s.log.Warn("runner busy with another run, skipping tick")
		return
	}
	if err != nil {
		s.log.Error("scheduled run aborted", "error", err.Error())
	}
	if s.handle != nil && report != nil {
		s.handle(report)
	}
}
