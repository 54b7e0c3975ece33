package domain

import "github.com/shopspring/decimal"

// DateLayout is the calendar date format used for issue and return dates.
const DateLayout = "2006-01-02"

type RentalStatus string

const (
	RentalStatusRented          RentalStatus = "Rented"
	RentalStatusReturnedPending RentalStatus = "Returned Pending"
	RentalStatusReturned        RentalStatus = "Returned"
)

// rentalTransitions lists every status change a line-item may make.
// Returned is terminal.
var rentalTransitions = map[RentalStatus][]RentalStatus{
	RentalStatusRented:          {RentalStatusReturnedPending},
	RentalStatusReturnedPending: {RentalStatusReturned, RentalStatusRented},
}

// IsValid reports whether s is one of the known statuses.
func (s RentalStatus) IsValid() bool {
	switch s {
	case RentalStatusRented, RentalStatusReturnedPending, RentalStatusReturned:
		return true
	}
	return false
}

// CanTransitionTo reports whether a line-item in status s may move to next.
func (s RentalStatus) CanTransitionTo(next RentalStatus) bool {
	for _, allowed := range rentalTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Rental is one line-item of an invoice. Line-items sharing an
// InvoiceNumber form one rental order.
type Rental struct {
	ID            int64        `json:"id"`
	InvoiceNumber string       `json:"invoice_number"`
	ToolID        int64        `json:"tool_id"`
	CustomerID    int64        `json:"customer_id"`
	SiteID        int64        `json:"site_id"`
	IssueDate     string       `json:"issue_date"`
	ReturnDate    *string      `json:"return_date"`
	Status        RentalStatus `json:"status"`
	// Quantity is the outstanding quantity while Rented and the returned
	// quantity once a return has been recorded.
	Quantity int             `json:"quantity"`
	Rate     decimal.Decimal `json:"rate"`
	// TotalFee is fixed when the return is recorded and never recomputed.
	TotalFee decimal.NullDecimal `json:"total_fee"`
	Comment  string              `json:"comment,omitempty"`
}

// Clone returns a copy that shares no pointers with r.
func (r Rental) Clone() Rental {
	if r.ReturnDate != nil {
		d := *r.ReturnDate
		r.ReturnDate = &d
	}
	return r
}

// RentalItemInput is one requested line-item. A Rate left null takes the
// tool's current rate; an explicit zero issues the item free of charge.
type RentalItemInput struct {
	ToolID   int64               `json:"tool_id" validate:"required"`
	Quantity int                 `json:"quantity" validate:"gt=0"`
	Rate     decimal.NullDecimal `json:"rate"`
	Comment  string              `json:"comment,omitempty" validate:"max=500"`
}

type RentalOrderInput struct {
	CustomerID    int64  `json:"customer_id" validate:"required"`
	SiteID        int64  `json:"site_id" validate:"required"`
	IssueDate     string `json:"issue_date" validate:"omitempty,datetime=2006-01-02"`
	InvoiceNumber string `json:"invoice_number" validate:"max=64"`
}

type TransferInput struct {
	RentalIDs     []int64 `json:"rental_ids" validate:"required,min=1"`
	ToolID        int64   `json:"tool_id" validate:"required"`
	Quantity      int     `json:"quantity" validate:"gt=0"`
	NewCustomerID int64   `json:"new_customer_id" validate:"required"`
	NewSiteID     int64   `json:"new_site_id" validate:"required"`
}

// Holding aggregates the Rented line-items one customer holds of one tool
// at one site.
type Holding struct {
	CustomerID int64   `json:"customer_id"`
	SiteID     int64   `json:"site_id"`
	ToolID     int64   `json:"tool_id"`
	Quantity   int     `json:"quantity"`
	RentalIDs  []int64 `json:"rental_ids"`
}

// ResetOptions selects the collections cleared by a reset. Clearing tools,
// customers or sites also clears rentals.
type ResetOptions struct {
	Tools     bool `json:"tools"`
	Customers bool `json:"customers"`
	Sites     bool `json:"sites"`
	Rentals   bool `json:"rentals"`
}

// ClearsRentals reports whether the reset wipes the rentals collection.
func (o ResetOptions) ClearsRentals() bool {
	return o.Rentals || o.Tools || o.Customers || o.Sites
}
