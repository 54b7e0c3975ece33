package domain

import "github.com/shopspring/decimal"

// Rates and fees are written as JSON numbers, matching the data files.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// Tool is a rentable inventory item. AvailableQuantity counts the units not
// held by any Rented line-item.
type Tool struct {
	ID                int64           `json:"id"`
	Name              string          `json:"name"`
	TotalQuantity     int             `json:"total_quantity"`
	AvailableQuantity int             `json:"available_quantity"`
	Rate              decimal.Decimal `json:"rate"`
}

// RentedOut returns the number of units currently held by rentals.
func (t *Tool) RentedOut() int {
	return t.TotalQuantity - t.AvailableQuantity
}

type ToolInput struct {
	Name          string          `json:"name" validate:"required,max=200"`
	TotalQuantity int             `json:"total_quantity" validate:"gte=0"`
	Rate          decimal.Decimal `json:"rate"`
}
