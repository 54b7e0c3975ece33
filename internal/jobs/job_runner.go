package jobs

import (
	"fbm-tools-backend/internal/backup"
	"fbm-tools-backend/internal/config"
	"fbm-tools-backend/internal/logger"
	"fbm-tools-backend/internal/repository"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	repo    repository.SnapshotRepository
	backups *backup.Manager
	config  *config.Config
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(repo repository.SnapshotRepository, backups *backup.Manager, cfg *config.Config) *JobRunner {
	return &JobRunner{
		repo:    repo,
		backups: backups,
		config:  cfg,
	}
}

// Config returns the configuration the runner was built with
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// RunAllNightlyJobs runs all nightly jobs (for manual execution)
func (jr *JobRunner) RunAllNightlyJobs() {
	jr.BackupSnapshot()
	jr.PruneBackups()
}
