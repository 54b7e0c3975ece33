package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"fbm-tools-backend/internal/domain"
	"fbm-tools-backend/internal/logger"
	"fbm-tools-backend/internal/utils"
)

// ReturnTool records the return of quantity units of a Rented line-item
// as of today. A full return moves the item itself to Returned Pending; a
// partial return splits the returned units into a new pending item and
// leaves the remainder Rented. The returned item is the pending one.
func (l *RentalLedger) ReturnTool(ctx context.Context, rentalID int64, quantity int) (*domain.Rental, error) {
	logger.EnterMethod("RentalLedger.ReturnTool", "rentalID", rentalID, "quantity", quantity)

	if quantity <= 0 {
		err := domain.ValidationError{Field: "quantity", Message: "must be greater than 0"}
		logger.ExitMethodWithError("RentalLedger.ReturnTool", err, "rentalID", rentalID)
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	rental, err := l.findRental(rentalID)
	if err != nil {
		logger.ExitMethodWithError("RentalLedger.ReturnTool", err, "rentalID", rentalID)
		return nil, err
	}
	if !rental.Status.CanTransitionTo(domain.RentalStatusReturnedPending) {
		err := fmt.Errorf("%w: rental %d is %s", domain.ErrInvalidStateTransition, rentalID, rental.Status)
		logger.ExitMethodWithError("RentalLedger.ReturnTool", err, "rentalID", rentalID)
		return nil, err
	}
	if quantity > rental.Quantity {
		err := fmt.Errorf("%w: rental %d has %d outstanding, cannot return %d",
			domain.ErrInvalidStateTransition, rentalID, rental.Quantity, quantity)
		logger.ExitMethodWithError("RentalLedger.ReturnTool", err, "rentalID", rentalID)
		return nil, err
	}

	returnDate := l.today()
	fee, days, err := utils.CalculateRentalFee(rental.Rate, quantity, rental.IssueDate, returnDate)
	if err != nil {
		err = fmt.Errorf("%w: rental %d: %v", domain.ErrInvalidInput, rentalID, err)
		logger.ExitMethodWithError("RentalLedger.ReturnTool", err, "rentalID", rentalID)
		return nil, err
	}

	var pending domain.Rental
	if quantity == rental.Quantity {
		rental.Status = domain.RentalStatusReturnedPending
		rental.ReturnDate = &returnDate
		rental.TotalFee = decimal.NewNullDecimal(fee)
		pending = rental.Clone()
	} else {
		rental.Quantity -= quantity
		pending = rental.Clone()
		pending.ID = l.allocateID()
		pending.Quantity = quantity
		pending.Status = domain.RentalStatusReturnedPending
		pending.ReturnDate = &returnDate
		pending.TotalFee = decimal.NewNullDecimal(fee)
		l.state.Rentals = append(l.state.Rentals, pending.Clone())
	}

	if tool, err := l.findTool(pending.ToolID); err == nil {
		tool.AvailableQuantity += quantity
	}
	l.commit(ctx, "ReturnTool")

	logger.ExitMethod("RentalLedger.ReturnTool", "rentalID", rentalID,
		"pendingID", pending.ID, "days", days, "fee", fee.String())
	return &pending, nil
}

// ConfirmReturn finalizes a pending return.
func (l *RentalLedger) ConfirmReturn(ctx context.Context, rentalID int64) (*domain.Rental, error) {
	logger.EnterMethod("RentalLedger.ConfirmReturn", "rentalID", rentalID)

	l.mu.Lock()
	defer l.mu.Unlock()

	rental, err := l.findRental(rentalID)
	if err != nil {
		logger.ExitMethodWithError("RentalLedger.ConfirmReturn", err, "rentalID", rentalID)
		return nil, err
	}
	if !rental.Status.CanTransitionTo(domain.RentalStatusReturned) {
		err := fmt.Errorf("%w: rental %d is %s", domain.ErrInvalidStateTransition, rentalID, rental.Status)
		logger.ExitMethodWithError("RentalLedger.ConfirmReturn", err, "rentalID", rentalID)
		return nil, err
	}

	rental.Status = domain.RentalStatusReturned
	out := rental.Clone()
	l.commit(ctx, "ConfirmReturn")

	logger.ExitMethod("RentalLedger.ConfirmReturn", "rentalID", rentalID)
	return &out, nil
}

// UndoReturn puts a pending return back out on rent. When the Rented
// remainder of a partial return is still present on the same invoice the
// units are merged into it and the pending item disappears; otherwise the
// pending item reverts in place. The returned item is the Rented one.
func (l *RentalLedger) UndoReturn(ctx context.Context, rentalID int64) (*domain.Rental, error) {
	logger.EnterMethod("RentalLedger.UndoReturn", "rentalID", rentalID)

	l.mu.Lock()
	defer l.mu.Unlock()

	rental, err := l.findRental(rentalID)
	if err != nil {
		logger.ExitMethodWithError("RentalLedger.UndoReturn", err, "rentalID", rentalID)
		return nil, err
	}
	if !rental.Status.CanTransitionTo(domain.RentalStatusRented) {
		err := fmt.Errorf("%w: rental %d is %s", domain.ErrInvalidStateTransition, rentalID, rental.Status)
		logger.ExitMethodWithError("RentalLedger.UndoReturn", err, "rentalID", rentalID)
		return nil, err
	}

	tool, err := l.findTool(rental.ToolID)
	if err != nil {
		logger.ExitMethodWithError("RentalLedger.UndoReturn", err, "rentalID", rentalID)
		return nil, err
	}
	if rental.Quantity > tool.AvailableQuantity {
		err := fmt.Errorf("%w: tool %q has %d available, undo needs %d",
			domain.ErrInsufficientStock, tool.Name, tool.AvailableQuantity, rental.Quantity)
		logger.ExitMethodWithError("RentalLedger.UndoReturn", err, "rentalID", rentalID)
		return nil, err
	}

	tool.AvailableQuantity -= rental.Quantity
	var out domain.Rental
	if sibling := l.openSibling(rental); sibling != nil {
		sibling.Quantity += rental.Quantity
		out = sibling.Clone()
		l.removeRentals(func(r *domain.Rental) bool { return r.ID == rentalID })
	} else {
		rental.Status = domain.RentalStatusRented
		rental.ReturnDate = nil
		rental.TotalFee = decimal.NullDecimal{}
		out = rental.Clone()
	}
	l.commit(ctx, "UndoReturn")

	logger.ExitMethod("RentalLedger.UndoReturn", "rentalID", rentalID, "rentedID", out.ID, "quantity", out.Quantity)
	return &out, nil
}

// openSibling finds the Rented line-item of the same tool on the same
// invoice.
func (l *RentalLedger) openSibling(pending *domain.Rental) *domain.Rental {
	for i := range l.state.Rentals {
		r := &l.state.Rentals[i]
		if r.ID != pending.ID && r.Status == domain.RentalStatusRented &&
			r.ToolID == pending.ToolID && r.InvoiceNumber == pending.InvoiceNumber {
			return r
		}
	}
	return nil
}
