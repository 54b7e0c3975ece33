package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"fbm-tools-backend/internal/clock"
	"fbm-tools-backend/internal/domain"
	"fbm-tools-backend/internal/logger"
	"fbm-tools-backend/internal/repository"
	"fbm-tools-backend/internal/utils"
)

func init() {
	logger.SetExpectedErrorClassifier(func(err error) bool {
		return domain.IsBusinessRule(err) || domain.IsNotFound(err) || errors.Is(err, domain.ErrInvalidInput)
	})
}

// RentalLedger owns the tools, customers, sites and rental line-items and
// keeps tool availability consistent with the outstanding rentals. Every
// mutation is applied in memory first and then handed to the repository as
// a whole snapshot.
type RentalLedger struct {
	mu     sync.Mutex
	repo   repository.SnapshotRepository
	clock  clock.Clock
	state  domain.Snapshot
	nextID int64

	// newMarker returns the invoice number given to transferred line-items.
	newMarker func() string
}

// Option configures a RentalLedger.
type Option func(*RentalLedger)

// WithTransferMarker overrides the invoice number generator used by
// TransferTool.
func WithTransferMarker(fn func() string) Option {
	return func(l *RentalLedger) {
		l.newMarker = fn
	}
}

// NewRentalLedger returns an empty ledger. Call Load to populate it from
// the repository.
func NewRentalLedger(repo repository.SnapshotRepository, clk clock.Clock, opts ...Option) *RentalLedger {
	if clk == nil {
		clk = clock.System()
	}
	l := &RentalLedger{
		repo:      repo,
		clock:     clk,
		nextID:    1,
		newMarker: transferMarker,
	}
	l.state.Normalize()
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func transferMarker() string {
	return "TRF-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// Load replaces the in-memory state with the stored snapshot. A snapshot
// that breaks the inventory invariant is still loaded; the problems are
// logged so an operator can repair the data.
func (l *RentalLedger) Load(ctx context.Context) error {
	logger.EnterMethod("RentalLedger.Load")

	snap, err := l.repo.Load(ctx)
	if err != nil {
		logger.ExitMethodWithError("RentalLedger.Load", err)
		return fmt.Errorf("%w: load snapshot: %v", domain.ErrPersistence, err)
	}
	snap.Normalize()
	if verr := snap.Verify(); verr != nil {
		logger.WarnContext(ctx, "Loaded snapshot is inconsistent", "error", verr)
	}

	l.mu.Lock()
	l.replace(*snap)
	l.mu.Unlock()

	logger.ExitMethod("RentalLedger.Load",
		"tools", len(snap.Tools), "customers", len(snap.Customers),
		"sites", len(snap.Sites), "rentals", len(snap.Rentals))
	return nil
}

// replace swaps in a new state. Callers hold l.mu.
func (l *RentalLedger) replace(snap domain.Snapshot) {
	snap.Normalize()
	l.state = snap
	l.nextID = snap.MaxID() + 1
}

// commit hands the current state to the repository. A failed save is
// logged and otherwise ignored: the in-memory state stays authoritative.
// Callers hold l.mu.
func (l *RentalLedger) commit(ctx context.Context, operation string) {
	snap := l.state.Clone()
	if err := l.repo.Save(ctx, &snap); err != nil {
		logger.WarnContext(ctx, "Snapshot save failed, keeping in-memory state",
			"operation", operation,
			"error", fmt.Errorf("%w: %v", domain.ErrPersistence, err))
	}
}

func (l *RentalLedger) allocateID() int64 {
	id := l.nextID
	l.nextID++
	return id
}

// today is the calendar date in the clock's own location.
func (l *RentalLedger) today() string {
	return utils.DateOf(l.clock.Now()).String()
}

func (l *RentalLedger) toolIndex(id int64) int {
	for i := range l.state.Tools {
		if l.state.Tools[i].ID == id {
			return i
		}
	}
	return -1
}

func (l *RentalLedger) findTool(id int64) (*domain.Tool, error) {
	i := l.toolIndex(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: tool %d", domain.ErrNotFound, id)
	}
	return &l.state.Tools[i], nil
}

func (l *RentalLedger) customerIndex(id int64) int {
	for i := range l.state.Customers {
		if l.state.Customers[i].ID == id {
			return i
		}
	}
	return -1
}

func (l *RentalLedger) siteIndex(id int64) int {
	for i := range l.state.Sites {
		if l.state.Sites[i].ID == id {
			return i
		}
	}
	return -1
}

func (l *RentalLedger) rentalIndex(id int64) int {
	for i := range l.state.Rentals {
		if l.state.Rentals[i].ID == id {
			return i
		}
	}
	return -1
}

func (l *RentalLedger) findRental(id int64) (*domain.Rental, error) {
	i := l.rentalIndex(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: rental %d", domain.ErrNotFound, id)
	}
	return &l.state.Rentals[i], nil
}

func (l *RentalLedger) requireCustomer(id int64) error {
	if l.customerIndex(id) < 0 {
		return fmt.Errorf("%w: customer %d", domain.ErrNotFound, id)
	}
	return nil
}

func (l *RentalLedger) requireSite(id int64) error {
	if l.siteIndex(id) < 0 {
		return fmt.Errorf("%w: site %d", domain.ErrNotFound, id)
	}
	return nil
}

// removeRentals drops every line-item matching fn.
func (l *RentalLedger) removeRentals(fn func(*domain.Rental) bool) {
	kept := l.state.Rentals[:0]
	for i := range l.state.Rentals {
		if !fn(&l.state.Rentals[i]) {
			kept = append(kept, l.state.Rentals[i])
		}
	}
	l.state.Rentals = kept
}

// hasOpenRental reports whether any line-item matching fn is not Returned.
func (l *RentalLedger) hasOpenRental(fn func(*domain.Rental) bool) bool {
	for i := range l.state.Rentals {
		r := &l.state.Rentals[i]
		if r.Status != domain.RentalStatusReturned && fn(r) {
			return true
		}
	}
	return false
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
