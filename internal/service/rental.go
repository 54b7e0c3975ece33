package service

import (
	"context"
	"fmt"
	"strings"

	"fbm-tools-backend/internal/domain"
	"fbm-tools-backend/internal/logger"
)

// AddRental issues a new invoice. Every item is checked against the
// current availability before any tool is touched, so either the whole
// order is applied or none of it.
func (l *RentalLedger) AddRental(ctx context.Context, items []domain.RentalItemInput, order domain.RentalOrderInput) ([]domain.Rental, error) {
	logger.EnterMethod("RentalLedger.AddRental", "invoice", order.InvoiceNumber, "items", len(items))

	invoice := strings.TrimSpace(order.InvoiceNumber)
	if err := validateOrder(items, order); err != nil {
		logger.ExitMethodWithError("RentalLedger.AddRental", err, "invoice", invoice)
		return nil, err
	}
	if invoice == "" {
		err := domain.ValidationError{Field: "invoice_number", Message: "is required"}
		logger.ExitMethodWithError("RentalLedger.AddRental", err)
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.invoiceExists(invoice) {
		err := fmt.Errorf("%w: invoice %q already exists", domain.ErrDuplicateName, invoice)
		logger.ExitMethodWithError("RentalLedger.AddRental", err, "invoice", invoice)
		return nil, err
	}
	if err := l.checkOrder(items, order, nil); err != nil {
		logger.ExitMethodWithError("RentalLedger.AddRental", err, "invoice", invoice)
		return nil, err
	}

	issueDate := order.IssueDate
	if issueDate == "" {
		issueDate = l.today()
	}
	created := l.issue(items, order, invoice, issueDate)
	l.commit(ctx, "AddRental")

	logger.ExitMethod("RentalLedger.AddRental", "invoice", invoice, "lineItems", len(created))
	return created, nil
}

// EditRental replaces the still-Rented line-items of an invoice with a new
// set. Items already returned, pending or confirmed, are left as they are.
func (l *RentalLedger) EditRental(ctx context.Context, invoiceNumber string, items []domain.RentalItemInput, order domain.RentalOrderInput) ([]domain.Rental, error) {
	invoiceNumber = strings.TrimSpace(invoiceNumber)
	logger.EnterMethod("RentalLedger.EditRental", "invoice", invoiceNumber, "items", len(items))

	if err := validateOrder(items, order); err != nil {
		logger.ExitMethodWithError("RentalLedger.EditRental", err, "invoice", invoiceNumber)
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.invoiceExists(invoiceNumber) {
		err := fmt.Errorf("%w: invoice %q", domain.ErrNotFound, invoiceNumber)
		logger.ExitMethodWithError("RentalLedger.EditRental", err, "invoice", invoiceNumber)
		return nil, err
	}
	target := strings.TrimSpace(order.InvoiceNumber)
	if target == "" {
		target = invoiceNumber
	}
	if target != invoiceNumber && l.invoiceExists(target) {
		err := fmt.Errorf("%w: invoice %q already exists", domain.ErrDuplicateName, target)
		logger.ExitMethodWithError("RentalLedger.EditRental", err, "invoice", invoiceNumber)
		return nil, err
	}

	isOpen := func(r *domain.Rental) bool {
		return r.InvoiceNumber == invoiceNumber && r.Status == domain.RentalStatusRented
	}
	held := make(map[int64]int)
	issueDate := order.IssueDate
	for i := range l.state.Rentals {
		r := &l.state.Rentals[i]
		if r.InvoiceNumber != invoiceNumber {
			continue
		}
		if issueDate == "" {
			issueDate = r.IssueDate
		}
		if isOpen(r) {
			held[r.ToolID] += r.Quantity
		}
	}
	if err := l.checkOrder(items, order, held); err != nil {
		logger.ExitMethodWithError("RentalLedger.EditRental", err, "invoice", invoiceNumber)
		return nil, err
	}

	for toolID, qty := range held {
		if tool, err := l.findTool(toolID); err == nil {
			tool.AvailableQuantity += qty
		}
	}
	l.removeRentals(isOpen)
	created := l.issue(items, order, target, issueDate)
	l.commit(ctx, "EditRental")

	logger.ExitMethod("RentalLedger.EditRental", "invoice", target, "lineItems", len(created))
	return created, nil
}

func validateOrder(items []domain.RentalItemInput, order domain.RentalOrderInput) error {
	if err := validateRentalItems(items); err != nil {
		return err
	}
	return validateInput(order)
}

// checkOrder verifies the customer, site and tools exist and that the
// summed quantity per tool fits. released holds units the order may reuse
// on top of the tool's availability.
func (l *RentalLedger) checkOrder(items []domain.RentalItemInput, order domain.RentalOrderInput, released map[int64]int) error {
	if err := l.requireCustomer(order.CustomerID); err != nil {
		return err
	}
	if err := l.requireSite(order.SiteID); err != nil {
		return err
	}

	demand := make(map[int64]int)
	var toolOrder []int64
	for _, item := range items {
		if _, seen := demand[item.ToolID]; !seen {
			toolOrder = append(toolOrder, item.ToolID)
		}
		demand[item.ToolID] += item.Quantity
	}
	for _, toolID := range toolOrder {
		tool, err := l.findTool(toolID)
		if err != nil {
			return err
		}
		if avail := tool.AvailableQuantity + released[toolID]; demand[toolID] > avail {
			return fmt.Errorf("%w: tool %q requested %d, available %d",
				domain.ErrInsufficientStock, tool.Name, demand[toolID], avail)
		}
	}
	return nil
}

// issue appends one Rented line-item per item and takes the units out of
// availability. The order must already have passed checkOrder.
func (l *RentalLedger) issue(items []domain.RentalItemInput, order domain.RentalOrderInput, invoice, issueDate string) []domain.Rental {
	created := make([]domain.Rental, 0, len(items))
	for _, item := range items {
		tool, _ := l.findTool(item.ToolID)
		rate := tool.Rate
		if item.Rate.Valid {
			rate = item.Rate.Decimal
		}
		r := domain.Rental{
			ID:            l.allocateID(),
			InvoiceNumber: invoice,
			ToolID:        item.ToolID,
			CustomerID:    order.CustomerID,
			SiteID:        order.SiteID,
			IssueDate:     issueDate,
			Status:        domain.RentalStatusRented,
			Quantity:      item.Quantity,
			Rate:          rate,
			Comment:       strings.TrimSpace(item.Comment),
		}
		tool.AvailableQuantity -= item.Quantity
		l.state.Rentals = append(l.state.Rentals, r)
		created = append(created, r.Clone())
	}
	return created
}

func (l *RentalLedger) invoiceExists(invoice string) bool {
	for i := range l.state.Rentals {
		if l.state.Rentals[i].InvoiceNumber == invoice {
			return true
		}
	}
	return false
}
