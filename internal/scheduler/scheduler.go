package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"fbm-tools-backend/internal/jobs"
	"fbm-tools-backend/internal/logger"
)

// Scheduler manages cron job scheduling
type Scheduler struct {
	cron *cron.Cron
	jobs *jobs.JobRunner
}

// NewScheduler creates a new scheduler with the provided job runner. It
// fails when a configured cron spec does not parse.
func NewScheduler(jobRunner *jobs.JobRunner) (*Scheduler, error) {
	// Create cron with UTC timezone and seconds precision
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
	)

	s := &Scheduler{
		cron: c,
		jobs: jobRunner,
	}

	if err := s.registerJobs(); err != nil {
		return nil, err
	}
	return s, nil
}

// registerJobs registers all scheduled jobs with the cron scheduler
func (s *Scheduler) registerJobs() error {
	cfg := s.jobs.Config().Scheduler

	// Nightly backup of the persisted ledger
	if _, err := s.cron.AddFunc(cfg.BackupSnapshot, s.jobs.BackupSnapshot); err != nil {
		logger.Error("Failed to register BackupSnapshot job", "error", err)
		return fmt.Errorf("register BackupSnapshot %q: %w", cfg.BackupSnapshot, err)
	}

	// Drop backups past the retention window
	if _, err := s.cron.AddFunc(cfg.PruneBackups, s.jobs.PruneBackups); err != nil {
		logger.Error("Failed to register PruneBackups job", "error", err)
		return fmt.Errorf("register PruneBackups %q: %w", cfg.PruneBackups, err)
	}

	logger.Info("All cron jobs registered successfully", "jobs", len(s.cron.Entries()))
	return nil
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	logger.Info("Starting cron scheduler...")
	s.cron.Start()
	logger.Info("Cron scheduler started successfully")
}

// Stop gracefully stops the cron scheduler
func (s *Scheduler) Stop() {
	logger.Info("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Cron scheduler stopped")
}

// IsRunning returns true if the scheduler is running
func (s *Scheduler) IsRunning() bool {
	return len(s.cron.Entries()) > 0
}

// NextRuns returns the next activation time of each registered job
func (s *Scheduler) NextRuns() []time.Time {
	entries := s.cron.Entries()
	out := make([]time.Time, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Schedule.Next(time.Now()))
	}
	return out
}
