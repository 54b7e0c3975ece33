package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fbm-tools-backend/internal/backup"
	"fbm-tools-backend/internal/config"
	"fbm-tools-backend/internal/jobs"
	"fbm-tools-backend/internal/repository/filestore"
)

func newRunner(t *testing.T, sched config.SchedulerConfig) *jobs.JobRunner {
	cfg := &config.Config{Scheduler: sched, Backup: config.BackupConfig{RetentionDays: 30}}
	return jobs.NewJobRunner(filestore.New(t.TempDir()), backup.NewManager(t.TempDir(), nil), cfg)
}

func TestNewScheduler(t *testing.T) {
	s, err := NewScheduler(newRunner(t, config.SchedulerConfig{
		BackupSnapshot: "0 0 1 * * *",
		PruneBackups:   "0 30 1 * * *",
	}))
	require.NoError(t, err)
	assert.True(t, s.IsRunning())
	assert.Len(t, s.NextRuns(), 2)

	s.Start()
	s.Stop()
}

func TestNewScheduler_InvalidSpec(t *testing.T) {
	_, err := NewScheduler(newRunner(t, config.SchedulerConfig{
		BackupSnapshot: "every night",
		PruneBackups:   "0 30 1 * * *",
	}))
	assert.ErrorContains(t, err, "BackupSnapshot")
}
