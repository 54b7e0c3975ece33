package service

import (
	"context"
	"fmt"

	"fbm-tools-backend/internal/domain"
	"fbm-tools-backend/internal/logger"
)

// ResetData clears the selected collections. Rentals cannot outlive their
// tool, customer or site, so clearing any of those clears rentals too, and
// every remaining tool gets its full stock back.
func (l *RentalLedger) ResetData(ctx context.Context, opts domain.ResetOptions) error {
	logger.EnterMethod("RentalLedger.ResetData", "tools", opts.Tools, "customers", opts.Customers,
		"sites", opts.Sites, "rentals", opts.Rentals)

	if !opts.ClearsRentals() {
		logger.ExitMethod("RentalLedger.ResetData", "cleared", "nothing")
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.state.Rentals = []domain.Rental{}
	for i := range l.state.Tools {
		l.state.Tools[i].AvailableQuantity = l.state.Tools[i].TotalQuantity
	}
	if opts.Tools {
		l.state.Tools = []domain.Tool{}
	}
	if opts.Customers {
		l.state.Customers = []domain.Customer{}
	}
	if opts.Sites {
		l.state.Sites = []domain.Site{}
	}
	l.commit(ctx, "ResetData")

	logger.ExitMethod("RentalLedger.ResetData")
	return nil
}

// Restore replaces the whole ledger with snap, typically read from a backup
// file. A snapshot that breaks any ledger invariant is rejected untouched.
func (l *RentalLedger) Restore(ctx context.Context, snap domain.Snapshot) error {
	logger.EnterMethod("RentalLedger.Restore", "tools", len(snap.Tools), "rentals", len(snap.Rentals))

	snap = snap.Clone()
	snap.Normalize()
	if err := snap.Verify(); err != nil {
		err = fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
		logger.ExitMethodWithError("RentalLedger.Restore", err)
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.replace(snap)
	l.commit(ctx, "Restore")

	logger.ExitMethod("RentalLedger.Restore")
	return nil
}
