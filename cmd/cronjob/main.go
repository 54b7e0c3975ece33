package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"fbm-tools-backend/internal/backup"
	"fbm-tools-backend/internal/clock"
	"fbm-tools-backend/internal/config"
	"fbm-tools-backend/internal/jobs"
	"fbm-tools-backend/internal/logger"
	"fbm-tools-backend/internal/scheduler"
	"fbm-tools-backend/internal/storage"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'backup', 'prune', 'all-nightly')")
	restorePath := flag.String("restore", "", "Replace the stored ledger with the given backup file and exit")
	flag.Parse()

	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting FBM Tools Cronjob Runner...", "log_level", cfg.Log.Level)

	// Initialize storage
	backend, err := storage.Open(context.Background(), cfg)
	if err != nil {
		logger.Error("Failed to initialize storage", "type", cfg.Storage.Type, "error", err)
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer backend.Close()

	// Initialize Job Runner
	backups := backup.NewManager(cfg.Backup.Dir, clock.System())
	jobRunner := jobs.NewJobRunner(backend.Repo, backups, cfg)

	if *restorePath != "" {
		if err := jobRunner.RestoreBackup(context.Background(), *restorePath); err != nil {
			backend.Close()
			log.Fatalf("Failed to restore backup: %v", err)
		}
		return
	}

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		if !runJobOnce(jobRunner, *runOnce) {
			backend.Close()
			os.Exit(1)
		}
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler, err := scheduler.NewScheduler(jobRunner)
	if err != nil {
		logger.Error("Failed to initialize scheduler", "error", err)
		backend.Close()
		log.Fatalf("Failed to initialize scheduler: %v", err)
	}

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once. It reports false for an unknown job.
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) bool {
	switch jobName {
	case "backup":
		jobRunner.BackupSnapshot()
	case "prune":
		jobRunner.PruneBackups()
	case "all-nightly":
		jobRunner.RunAllNightlyJobs()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - backup\n")
		fmt.Printf("  - prune\n")
		fmt.Printf("  - all-nightly\n")
		return false
	}
	return true
}
