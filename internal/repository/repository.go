package repository

import (
	"context"

	"fbm-tools-backend/internal/domain"
)

// SnapshotRepository stores the whole ledger as one document. Save replaces
// the stored snapshot; there are no partial updates.
type SnapshotRepository interface {
	// Load returns the stored snapshot, with empty collections when nothing
	// has been stored yet.
	Load(ctx context.Context) (*domain.Snapshot, error)
	Save(ctx context.Context, snapshot *domain.Snapshot) error
}
