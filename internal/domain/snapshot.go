package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Snapshot is the whole ledger state as one document. It is the unit of
// persistence and the backup file format.
type Snapshot struct {
	Tools     []Tool     `json:"tools"`
	Customers []Customer `json:"customers"`
	Sites     []Site     `json:"sites"`
	Rentals   []Rental   `json:"rentals"`
}

// Normalize replaces nil collections with empty ones so the document always
// serializes four arrays.
func (s *Snapshot) Normalize() {
	if s.Tools == nil {
		s.Tools = []Tool{}
	}
	if s.Customers == nil {
		s.Customers = []Customer{}
	}
	if s.Sites == nil {
		s.Sites = []Site{}
	}
	if s.Rentals == nil {
		s.Rentals = []Rental{}
	}
}

// Clone returns a deep copy of the snapshot.
func (s *Snapshot) Clone() Snapshot {
	out := Snapshot{
		Tools:     append([]Tool{}, s.Tools...),
		Customers: append([]Customer{}, s.Customers...),
		Sites:     append([]Site{}, s.Sites...),
		Rentals:   make([]Rental, 0, len(s.Rentals)),
	}
	for _, r := range s.Rentals {
		out.Rentals = append(out.Rentals, r.Clone())
	}
	return out
}

// MaxID returns the largest id used by any entity in the snapshot.
func (s *Snapshot) MaxID() int64 {
	var highest int64
	bump := func(id int64) {
		if id > highest {
			highest = id
		}
	}
	for _, t := range s.Tools {
		bump(t.ID)
	}
	for _, c := range s.Customers {
		bump(c.ID)
	}
	for _, st := range s.Sites {
		bump(st.ID)
	}
	for _, r := range s.Rentals {
		bump(r.ID)
	}
	return highest
}

// Verify checks the ledger invariants and returns every violation joined,
// each wrapping ErrInconsistentSnapshot.
func (s *Snapshot) Verify() error {
	var problems []error
	fail := func(format string, args ...any) {
		problems = append(problems, fmt.Errorf("%w: "+format, append([]any{ErrInconsistentSnapshot}, args...)...))
	}

	tools := make(map[int64]*Tool, len(s.Tools))
	names := make(map[string]int64, len(s.Tools))
	for i := range s.Tools {
		t := &s.Tools[i]
		if _, dup := tools[t.ID]; dup {
			fail("duplicate tool id %d", t.ID)
		}
		tools[t.ID] = t
		key := strings.ToLower(strings.TrimSpace(t.Name))
		if other, dup := names[key]; dup {
			fail("tools %d and %d share the name %q", other, t.ID, t.Name)
		}
		names[key] = t.ID
		if t.AvailableQuantity < 0 || t.AvailableQuantity > t.TotalQuantity {
			fail("tool %d available quantity %d outside 0..%d", t.ID, t.AvailableQuantity, t.TotalQuantity)
		}
	}

	customers := make(map[int64]bool, len(s.Customers))
	for _, c := range s.Customers {
		customers[c.ID] = true
	}
	sites := make(map[int64]bool, len(s.Sites))
	for _, st := range s.Sites {
		sites[st.ID] = true
	}

	held := make(map[int64]int)
	seen := make(map[int64]bool, len(s.Rentals))
	for _, r := range s.Rentals {
		if seen[r.ID] {
			fail("duplicate rental id %d", r.ID)
		}
		seen[r.ID] = true
		if !r.Status.IsValid() {
			fail("rental %d has unknown status %q", r.ID, r.Status)
			continue
		}
		if r.Quantity <= 0 {
			fail("rental %d has non-positive quantity %d", r.ID, r.Quantity)
		}
		if r.TotalFee.Valid != (r.Status != RentalStatusRented) {
			fail("rental %d in status %q has inconsistent total fee", r.ID, r.Status)
		}
		if r.Status == RentalStatusReturned {
			continue
		}
		if _, ok := tools[r.ToolID]; !ok {
			fail("rental %d references missing tool %d", r.ID, r.ToolID)
		}
		if !customers[r.CustomerID] {
			fail("rental %d references missing customer %d", r.ID, r.CustomerID)
		}
		if !sites[r.SiteID] {
			fail("rental %d references missing site %d", r.ID, r.SiteID)
		}
		if r.Status == RentalStatusRented {
			held[r.ToolID] += r.Quantity
		}
	}

	for _, t := range s.Tools {
		if t.AvailableQuantity+held[t.ID] != t.TotalQuantity {
			fail("tool %d: available %d + rented %d != total %d", t.ID, t.AvailableQuantity, held[t.ID], t.TotalQuantity)
		}
	}

	return errors.Join(problems...)
}
