package jobs

import (
	"context"
	"fmt"

	"fbm-tools-backend/internal/domain"
	"fbm-tools-backend/internal/logger"
)

// BackupSnapshot writes today's backup file from the persisted ledger
func (jr *JobRunner) BackupSnapshot() {
	jr.runWithRecovery("BackupSnapshot", func() {
		ctx := context.Background()

		snap, err := jr.repo.Load(ctx)
		if err != nil {
			logger.Error("Failed to load snapshot for backup", "error", err)
			return
		}
		if err := snap.Verify(); err != nil {
			logger.Warn("Backing up an inconsistent snapshot", "error", err)
		}

		path, err := jr.backups.Write(ctx, *snap)
		if err != nil {
			logger.Error("Failed to write backup", "error", err)
			return
		}
		logger.Info("Backup written", "path", path,
			"tools", len(snap.Tools), "customers", len(snap.Customers),
			"sites", len(snap.Sites), "rentals", len(snap.Rentals))
	})
}

// PruneBackups removes backups older than the retention window
func (jr *JobRunner) PruneBackups() {
	jr.runWithRecovery("PruneBackups", func() {
		ctx := context.Background()
		retention := jr.config.Backup.RetentionDays

		removed, err := jr.backups.Prune(ctx, retention)
		if err != nil {
			logger.Error("Failed to prune backups", "error", err, "removed", len(removed))
			return
		}
		logger.Info("Old backups pruned", "removed", len(removed), "retention_days", retention)
	})
}

// RestoreBackup replaces the persisted ledger with the backup at path. The
// backup must pass Verify; the store is left untouched otherwise.
func (jr *JobRunner) RestoreBackup(ctx context.Context, path string) error {
	logger.Info("Starting job", "job", "RestoreBackup", "path", path)

	snap, err := jr.backups.Read(path)
	if err != nil {
		logger.Error("Failed to read backup", "path", path, "error", err)
		return err
	}
	if err := snap.Verify(); err != nil {
		logger.Error("Refusing to restore an inconsistent backup", "path", path, "error", err)
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	if err := jr.repo.Save(ctx, &snap); err != nil {
		logger.Error("Failed to save restored snapshot", "path", path, "error", err)
		return fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}

	logger.Info("Backup restored", "path", path,
		"tools", len(snap.Tools), "customers", len(snap.Customers),
		"sites", len(snap.Sites), "rentals", len(snap.Rentals))
	return nil
}
