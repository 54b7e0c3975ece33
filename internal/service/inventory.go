package service

import (
	"context"
	"fmt"
	"strings"

	"fbm-tools-backend/internal/domain"
	"fbm-tools-backend/internal/logger"
)

func (l *RentalLedger) AddTool(ctx context.Context, in domain.ToolInput) (*domain.Tool, error) {
	logger.EnterMethod("RentalLedger.AddTool", "name", in.Name, "total", in.TotalQuantity)

	if err := validateToolInput(in); err != nil {
		logger.ExitMethodWithError("RentalLedger.AddTool", err, "name", in.Name)
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.checkToolName(in.Name, 0); err != nil {
		logger.ExitMethodWithError("RentalLedger.AddTool", err, "name", in.Name)
		return nil, err
	}

	tool := domain.Tool{
		ID:                l.allocateID(),
		Name:              strings.TrimSpace(in.Name),
		TotalQuantity:     in.TotalQuantity,
		AvailableQuantity: in.TotalQuantity,
		Rate:              in.Rate,
	}
	l.state.Tools = append(l.state.Tools, tool)
	l.commit(ctx, "AddTool")

	logger.ExitMethod("RentalLedger.AddTool", "toolID", tool.ID)
	return &tool, nil
}

// EditTool replaces the tool's name, total and rate. Availability moves by
// the change in total so the units held by rentals stay accounted for.
func (l *RentalLedger) EditTool(ctx context.Context, id int64, in domain.ToolInput) (*domain.Tool, error) {
	logger.EnterMethod("RentalLedger.EditTool", "toolID", id, "total", in.TotalQuantity)

	if err := validateToolInput(in); err != nil {
		logger.ExitMethodWithError("RentalLedger.EditTool", err, "toolID", id)
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	tool, err := l.findTool(id)
	if err != nil {
		logger.ExitMethodWithError("RentalLedger.EditTool", err, "toolID", id)
		return nil, err
	}
	if err := l.checkToolName(in.Name, id); err != nil {
		logger.ExitMethodWithError("RentalLedger.EditTool", err, "toolID", id)
		return nil, err
	}
	if rented := tool.RentedOut(); in.TotalQuantity < rented {
		err := fmt.Errorf("%w: tool %d has %d units rented out, cannot shrink total to %d",
			domain.ErrInsufficientStock, id, rented, in.TotalQuantity)
		logger.ExitMethodWithError("RentalLedger.EditTool", err, "toolID", id)
		return nil, err
	}

	tool.AvailableQuantity += in.TotalQuantity - tool.TotalQuantity
	tool.TotalQuantity = in.TotalQuantity
	tool.Name = strings.TrimSpace(in.Name)
	tool.Rate = in.Rate
	out := *tool
	l.commit(ctx, "EditTool")

	logger.ExitMethod("RentalLedger.EditTool", "toolID", id, "available", out.AvailableQuantity)
	return &out, nil
}

func (l *RentalLedger) DeleteTool(ctx context.Context, id int64) error {
	logger.EnterMethod("RentalLedger.DeleteTool", "toolID", id)

	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.toolIndex(id)
	if i < 0 {
		err := fmt.Errorf("%w: tool %d", domain.ErrNotFound, id)
		logger.ExitMethodWithError("RentalLedger.DeleteTool", err, "toolID", id)
		return err
	}
	if l.hasOpenRental(func(r *domain.Rental) bool { return r.ToolID == id }) {
		err := fmt.Errorf("%w: tool %d", domain.ErrReferentialBlock, id)
		logger.ExitMethodWithError("RentalLedger.DeleteTool", err, "toolID", id)
		return err
	}

	l.state.Tools = append(l.state.Tools[:i], l.state.Tools[i+1:]...)
	l.commit(ctx, "DeleteTool")

	logger.ExitMethod("RentalLedger.DeleteTool", "toolID", id)
	return nil
}

// checkToolName rejects a name already used by a tool other than selfID.
func (l *RentalLedger) checkToolName(name string, selfID int64) error {
	key := normalizeName(name)
	for _, t := range l.state.Tools {
		if t.ID != selfID && normalizeName(t.Name) == key {
			return fmt.Errorf("%w: %q is already used by tool %d", domain.ErrDuplicateName, strings.TrimSpace(name), t.ID)
		}
	}
	return nil
}

func (l *RentalLedger) AddCustomer(ctx context.Context, in domain.CustomerInput) (*domain.Customer, error) {
	logger.EnterMethod("RentalLedger.AddCustomer", "name", in.Name)

	if err := validateInput(in); err != nil {
		logger.ExitMethodWithError("RentalLedger.AddCustomer", err)
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	c := domain.Customer{
		ID:      l.allocateID(),
		Name:    strings.TrimSpace(in.Name),
		Phone:   strings.TrimSpace(in.Phone),
		Address: strings.TrimSpace(in.Address),
	}
	l.state.Customers = append(l.state.Customers, c)
	l.commit(ctx, "AddCustomer")

	logger.ExitMethod("RentalLedger.AddCustomer", "customerID", c.ID)
	return &c, nil
}

func (l *RentalLedger) EditCustomer(ctx context.Context, id int64, in domain.CustomerInput) (*domain.Customer, error) {
	logger.EnterMethod("RentalLedger.EditCustomer", "customerID", id)

	if err := validateInput(in); err != nil {
		logger.ExitMethodWithError("RentalLedger.EditCustomer", err, "customerID", id)
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.customerIndex(id)
	if i < 0 {
		err := fmt.Errorf("%w: customer %d", domain.ErrNotFound, id)
		logger.ExitMethodWithError("RentalLedger.EditCustomer", err, "customerID", id)
		return nil, err
	}
	c := &l.state.Customers[i]
	c.Name = strings.TrimSpace(in.Name)
	c.Phone = strings.TrimSpace(in.Phone)
	c.Address = strings.TrimSpace(in.Address)
	out := *c
	l.commit(ctx, "EditCustomer")

	logger.ExitMethod("RentalLedger.EditCustomer", "customerID", id)
	return &out, nil
}

// DeleteCustomer removes the customer with all of their line-items. Units
// still held by their Rented items go back to the tools first.
func (l *RentalLedger) DeleteCustomer(ctx context.Context, id int64) error {
	logger.EnterMethod("RentalLedger.DeleteCustomer", "customerID", id)

	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.customerIndex(id)
	if i < 0 {
		err := fmt.Errorf("%w: customer %d", domain.ErrNotFound, id)
		logger.ExitMethodWithError("RentalLedger.DeleteCustomer", err, "customerID", id)
		return err
	}

	released := 0
	for _, r := range l.state.Rentals {
		if r.CustomerID != id || r.Status != domain.RentalStatusRented {
			continue
		}
		if tool, err := l.findTool(r.ToolID); err == nil {
			tool.AvailableQuantity += r.Quantity
			released += r.Quantity
		}
	}
	l.removeRentals(func(r *domain.Rental) bool { return r.CustomerID == id })
	l.state.Customers = append(l.state.Customers[:i], l.state.Customers[i+1:]...)
	l.commit(ctx, "DeleteCustomer")

	logger.ExitMethod("RentalLedger.DeleteCustomer", "customerID", id, "released", released)
	return nil
}

func (l *RentalLedger) AddSite(ctx context.Context, in domain.SiteInput) (*domain.Site, error) {
	logger.EnterMethod("RentalLedger.AddSite", "name", in.Name)

	if err := validateInput(in); err != nil {
		logger.ExitMethodWithError("RentalLedger.AddSite", err)
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	s := domain.Site{ID: l.allocateID(), Name: strings.TrimSpace(in.Name)}
	l.state.Sites = append(l.state.Sites, s)
	l.commit(ctx, "AddSite")

	logger.ExitMethod("RentalLedger.AddSite", "siteID", s.ID)
	return &s, nil
}

func (l *RentalLedger) EditSite(ctx context.Context, id int64, in domain.SiteInput) (*domain.Site, error) {
	logger.EnterMethod("RentalLedger.EditSite", "siteID", id)

	if err := validateInput(in); err != nil {
		logger.ExitMethodWithError("RentalLedger.EditSite", err, "siteID", id)
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.siteIndex(id)
	if i < 0 {
		err := fmt.Errorf("%w: site %d", domain.ErrNotFound, id)
		logger.ExitMethodWithError("RentalLedger.EditSite", err, "siteID", id)
		return nil, err
	}
	l.state.Sites[i].Name = strings.TrimSpace(in.Name)
	out := l.state.Sites[i]
	l.commit(ctx, "EditSite")

	logger.ExitMethod("RentalLedger.EditSite", "siteID", id)
	return &out, nil
}

func (l *RentalLedger) DeleteSite(ctx context.Context, id int64) error {
	logger.EnterMethod("RentalLedger.DeleteSite", "siteID", id)

	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.siteIndex(id)
	if i < 0 {
		err := fmt.Errorf("%w: site %d", domain.ErrNotFound, id)
		logger.ExitMethodWithError("RentalLedger.DeleteSite", err, "siteID", id)
		return err
	}
	if l.hasOpenRental(func(r *domain.Rental) bool { return r.SiteID == id }) {
		err := fmt.Errorf("%w: site %d", domain.ErrReferentialBlock, id)
		logger.ExitMethodWithError("RentalLedger.DeleteSite", err, "siteID", id)
		return err
	}

	l.state.Sites = append(l.state.Sites[:i], l.state.Sites[i+1:]...)
	l.commit(ctx, "DeleteSite")

	logger.ExitMethod("RentalLedger.DeleteSite", "siteID", id)
	return nil
}
