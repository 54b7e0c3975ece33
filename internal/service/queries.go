package service

import (
	"fmt"
	"sort"

	"fbm-tools-backend/internal/domain"
)

// Snapshot returns a deep copy of the whole ledger.
func (l *RentalLedger) Snapshot() domain.Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.Clone()
}

func (l *RentalLedger) Tools() []domain.Tool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]domain.Tool{}, l.state.Tools...)
}

func (l *RentalLedger) Customers() []domain.Customer {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]domain.Customer{}, l.state.Customers...)
}

func (l *RentalLedger) Sites() []domain.Site {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]domain.Site{}, l.state.Sites...)
}

func (l *RentalLedger) Rentals() []domain.Rental {
	return l.filterRentals(func(*domain.Rental) bool { return true })
}

// Invoice returns the line-items of one invoice.
func (l *RentalLedger) Invoice(invoiceNumber string) ([]domain.Rental, error) {
	items := l.filterRentals(func(r *domain.Rental) bool { return r.InvoiceNumber == invoiceNumber })
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: invoice %q", domain.ErrNotFound, invoiceNumber)
	}
	return items, nil
}

func (l *RentalLedger) CustomerRentals(customerID int64) ([]domain.Rental, error) {
	l.mu.Lock()
	err := l.requireCustomer(customerID)
	l.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return l.filterRentals(func(r *domain.Rental) bool { return r.CustomerID == customerID }), nil
}

func (l *RentalLedger) SiteRentals(siteID int64) ([]domain.Rental, error) {
	l.mu.Lock()
	err := l.requireSite(siteID)
	l.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return l.filterRentals(func(r *domain.Rental) bool { return r.SiteID == siteID }), nil
}

// ActiveHoldings groups the Rented line-items by customer, site and tool.
// Each holding lists the line-items that TransferTool would draw from.
func (l *RentalLedger) ActiveHoldings() []domain.Holding {
	l.mu.Lock()
	defer l.mu.Unlock()

	type key struct{ customer, site, tool int64 }
	index := make(map[key]int)
	holdings := []domain.Holding{}
	for _, r := range l.state.Rentals {
		if r.Status != domain.RentalStatusRented {
			continue
		}
		k := key{r.CustomerID, r.SiteID, r.ToolID}
		i, ok := index[k]
		if !ok {
			i = len(holdings)
			index[k] = i
			holdings = append(holdings, domain.Holding{CustomerID: r.CustomerID, SiteID: r.SiteID, ToolID: r.ToolID})
		}
		holdings[i].Quantity += r.Quantity
		holdings[i].RentalIDs = append(holdings[i].RentalIDs, r.ID)
	}
	sort.SliceStable(holdings, func(a, b int) bool {
		ha, hb := holdings[a], holdings[b]
		if ha.CustomerID != hb.CustomerID {
			return ha.CustomerID < hb.CustomerID
		}
		if ha.SiteID != hb.SiteID {
			return ha.SiteID < hb.SiteID
		}
		return ha.ToolID < hb.ToolID
	})
	return holdings
}

func (l *RentalLedger) filterRentals(keep func(*domain.Rental) bool) []domain.Rental {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := []domain.Rental{}
	for i := range l.state.Rentals {
		if keep(&l.state.Rentals[i]) {
			out = append(out, l.state.Rentals[i].Clone())
		}
	}
	return out
}
