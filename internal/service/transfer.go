package service

import (
	"context"
	"fmt"
	"strings"

	"fbm-tools-backend/internal/domain"
	"fbm-tools-backend/internal/logger"
)

// TransferTool moves rented units of one tool from the given source
// line-items to another customer and site. Sources are drained in the order
// given and removed once empty. The units stay out, so the tool's
// availability does not change.
func (l *RentalLedger) TransferTool(ctx context.Context, in domain.TransferInput) (*domain.Rental, error) {
	logger.EnterMethod("RentalLedger.TransferTool", "toolID", in.ToolID, "quantity", in.Quantity,
		"customerID", in.NewCustomerID, "siteID", in.NewSiteID)

	if err := validateInput(in); err != nil {
		logger.ExitMethodWithError("RentalLedger.TransferTool", err, "toolID", in.ToolID)
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := l.findTool(in.ToolID); err != nil {
		logger.ExitMethodWithError("RentalLedger.TransferTool", err, "toolID", in.ToolID)
		return nil, err
	}
	if err := l.requireCustomer(in.NewCustomerID); err != nil {
		logger.ExitMethodWithError("RentalLedger.TransferTool", err, "toolID", in.ToolID)
		return nil, err
	}
	if err := l.requireSite(in.NewSiteID); err != nil {
		logger.ExitMethodWithError("RentalLedger.TransferTool", err, "toolID", in.ToolID)
		return nil, err
	}

	var sources []int64
	seen := make(map[int64]bool, len(in.RentalIDs))
	aggregate := 0
	for _, id := range in.RentalIDs {
		r, err := l.findRental(id)
		if err != nil {
			logger.ExitMethodWithError("RentalLedger.TransferTool", err, "toolID", in.ToolID)
			return nil, err
		}
		if seen[id] || r.Status != domain.RentalStatusRented || r.ToolID != in.ToolID {
			continue
		}
		seen[id] = true
		sources = append(sources, id)
		aggregate += r.Quantity
	}
	if in.Quantity > aggregate {
		err := fmt.Errorf("%w: %d rented across the given line-items, cannot transfer %d",
			domain.ErrInsufficientStock, aggregate, in.Quantity)
		logger.ExitMethodWithError("RentalLedger.TransferTool", err, "toolID", in.ToolID)
		return nil, err
	}

	remaining := in.Quantity
	var first *domain.Rental
	var fromInvoices []string
	drained := make(map[int64]bool)
	for _, id := range sources {
		if remaining == 0 {
			break
		}
		r, _ := l.findRental(id)
		take := min(remaining, r.Quantity)
		if first == nil {
			c := r.Clone()
			first = &c
		}
		fromInvoices = appendUnique(fromInvoices, r.InvoiceNumber)
		r.Quantity -= take
		remaining -= take
		if r.Quantity == 0 {
			drained[id] = true
		}
	}
	l.removeRentals(func(r *domain.Rental) bool { return drained[r.ID] })

	moved := domain.Rental{
		ID:            l.allocateID(),
		InvoiceNumber: l.newMarker(),
		ToolID:        in.ToolID,
		CustomerID:    in.NewCustomerID,
		SiteID:        in.NewSiteID,
		IssueDate:     l.today(),
		Status:        domain.RentalStatusRented,
		Quantity:      in.Quantity,
		Rate:          first.Rate,
		Comment:       "Transferred from invoice " + strings.Join(fromInvoices, ", "),
	}
	l.state.Rentals = append(l.state.Rentals, moved)
	l.commit(ctx, "TransferTool")

	logger.ExitMethod("RentalLedger.TransferTool", "rentalID", moved.ID, "invoice", moved.InvoiceNumber)
	return &moved, nil
}

func appendUnique(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}
