package service

import (
	"context"

	"fbm-tools-backend/internal/domain"
)

// LedgerService is the rental and inventory engine consumed by the HTTP
// adapter and the backup jobs.
type LedgerService interface {
	// Inventory
	AddTool(ctx context.Context, in domain.ToolInput) (*domain.Tool, error)
	EditTool(ctx context.Context, id int64, in domain.ToolInput) (*domain.Tool, error)
	DeleteTool(ctx context.Context, id int64) error
	AddCustomer(ctx context.Context, in domain.CustomerInput) (*domain.Customer, error)
	EditCustomer(ctx context.Context, id int64, in domain.CustomerInput) (*domain.Customer, error)
	DeleteCustomer(ctx context.Context, id int64) error
	AddSite(ctx context.Context, in domain.SiteInput) (*domain.Site, error)
	EditSite(ctx context.Context, id int64, in domain.SiteInput) (*domain.Site, error)
	DeleteSite(ctx context.Context, id int64) error

	// Rentals
	AddRental(ctx context.Context, items []domain.RentalItemInput, order domain.RentalOrderInput) ([]domain.Rental, error)
	EditRental(ctx context.Context, invoiceNumber string, items []domain.RentalItemInput, order domain.RentalOrderInput) ([]domain.Rental, error)
	ReturnTool(ctx context.Context, rentalID int64, quantity int) (*domain.Rental, error)
	ConfirmReturn(ctx context.Context, rentalID int64) (*domain.Rental, error)
	UndoReturn(ctx context.Context, rentalID int64) (*domain.Rental, error)
	TransferTool(ctx context.Context, in domain.TransferInput) (*domain.Rental, error)

	// Whole-state operations
	ResetData(ctx context.Context, opts domain.ResetOptions) error
	Restore(ctx context.Context, snapshot domain.Snapshot) error
	Snapshot() domain.Snapshot

	// Read models
	Tools() []domain.Tool
	Customers() []domain.Customer
	Sites() []domain.Site
	Rentals() []domain.Rental
	Invoice(invoiceNumber string) ([]domain.Rental, error)
	CustomerRentals(customerID int64) ([]domain.Rental, error)
	SiteRentals(siteID int64) ([]domain.Rental, error)
	ActiveHoldings() []domain.Holding
}

var _ LedgerService = (*RentalLedger)(nil)
