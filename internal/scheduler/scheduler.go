// Package scheduler runs recurring forecast refreshes on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/flowcast/internal/ingest"
	"github.com/yourusername/flowcast/internal/pipeline"
)

// SourceFetcher supplies fresh in-memory sources for a scheduled run. The
// scheduler stays out of the file-reading business the same way the core does.
type SourceFetcher func(ctx context.Context) (ingest.Table, *ingest.Table, error)

// Scheduler manages scheduled forecast refresh jobs
type Scheduler struct {
	cron      *cron.Cron
	runner    *pipeline.Runner
	fetch     SourceFetcher
	logger    *logrus.Logger
	mu        sync.RWMutex
	isRunning bool
	jobIDs    []cron.EntryID
}

// NewScheduler creates a new scheduler
func NewScheduler(runner *pipeline.Runner, fetch SourceFetcher, logger *logrus.Logger) *Scheduler {
	if logger == nil {
		logger = logrus.New()
	}
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(time.UTC)),
		runner: runner,
		fetch:  fetch,
		logger: logger,
		jobIDs: make([]cron.EntryID, 0),
	}
}

// ScheduleRefresh schedules a recurring full pipeline run
func (s *Scheduler) ScheduleRefresh(cronExpression string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()

		primary, secondary, err := s.fetch(ctx)
		if err != nil {
			s.logger.WithError(err).Error("Scheduled refresh: failed to fetch sources")
			return
		}

		report, err := s.runner.Run(ctx, primary, secondary)
		if err != nil {
			s.logger.WithError(err).Error("Scheduled refresh failed")
			return
		}
		s.logger.WithFields(logrus.Fields{
			"run_id":   report.RunID,
			"duration": report.Duration,
		}).Info("Scheduled refresh complete")
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("cron", cronExpression).Info("Scheduled forecast refresh")

	return nil
}

// Start begins executing scheduled jobs
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}
	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	return nil
}

// Stop halts job execution and waits for running jobs to finish
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	<-s.cron.Stop().Done()
	s.isRunning = false
}
