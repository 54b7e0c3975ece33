package service_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fbm-tools-backend/internal/domain"
)

func TestRentalLedger_AddRental(t *testing.T) {
	t.Run("multi tool invoice", func(t *testing.T) {
		f := newFixture(t)
		saw, err := f.ledger.AddTool(f.ctx, domain.ToolInput{Name: "Saw", TotalQuantity: 4, Rate: decimal.RequireFromString("22.50")})
		require.NoError(t, err)

		items, err := f.ledger.AddRental(f.ctx, []domain.RentalItemInput{
			{ToolID: f.tool.ID, Quantity: 2, Rate: decimal.NewNullDecimal(decimal.NewFromInt(12)), Comment: "discounted"},
			{ToolID: saw.ID, Quantity: 1},
		}, f.order("INV-7"))
		require.NoError(t, err)
		require.Len(t, items, 2)
		for _, item := range items {
			assert.Equal(t, "INV-7", item.InvoiceNumber)
			assert.Equal(t, f.customer.ID, item.CustomerID)
			assert.Equal(t, f.site.ID, item.SiteID)
			assert.Equal(t, "2024-03-15", item.IssueDate)
		}
		assert.True(t, decimal.NewFromInt(12).Equal(items[0].Rate))
		assert.Equal(t, "discounted", items[0].Comment)
		assert.True(t, decimal.RequireFromString("22.50").Equal(items[1].Rate), "rate defaults to the tool rate")
		assert.Equal(t, 8, f.available(t, f.tool.ID))
		assert.Equal(t, 3, f.available(t, saw.ID))
		assertConsistent(t, f.ledger)
	})

	t.Run("explicit zero rate is kept", func(t *testing.T) {
		f := newFixture(t)
		items, err := f.ledger.AddRental(f.ctx, []domain.RentalItemInput{
			{ToolID: f.tool.ID, Quantity: 1, Rate: decimal.NewNullDecimal(decimal.Zero), Comment: "loaner"},
		}, f.order("INV-FREE"))
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.True(t, items[0].Rate.IsZero())

		f.clock.AdvanceDays(2)
		pending, err := f.ledger.ReturnTool(f.ctx, items[0].ID, 1)
		require.NoError(t, err)
		assert.True(t, pending.TotalFee.Decimal.IsZero())
		assertConsistent(t, f.ledger)
	})

	t.Run("issue date defaults to today", func(t *testing.T) {
		f := newFixture(t)
		f.clock.AdvanceDays(3)
		order := f.order("INV-2")
		order.IssueDate = ""
		items, err := f.ledger.AddRental(f.ctx, []domain.RentalItemInput{{ToolID: f.tool.ID, Quantity: 1}}, order)
		require.NoError(t, err)
		assert.Equal(t, "2024-03-18", items[0].IssueDate)
	})

	t.Run("batch is rejected as a whole", func(t *testing.T) {
		f := newFixture(t)
		saw, err := f.ledger.AddTool(f.ctx, domain.ToolInput{Name: "Saw", TotalQuantity: 1})
		require.NoError(t, err)

		_, err = f.ledger.AddRental(f.ctx, []domain.RentalItemInput{
			{ToolID: f.tool.ID, Quantity: 2},
			{ToolID: saw.ID, Quantity: 2},
		}, f.order("INV-3"))
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)
		assert.Equal(t, 10, f.available(t, f.tool.ID))
		assert.Equal(t, 1, f.available(t, saw.ID))
		assert.Empty(t, f.ledger.Rentals())
	})

	t.Run("repeated tool is summed", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.ledger.AddRental(f.ctx, []domain.RentalItemInput{
			{ToolID: f.tool.ID, Quantity: 6},
			{ToolID: f.tool.ID, Quantity: 5},
		}, f.order("INV-4"))
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)
		assert.Equal(t, 10, f.available(t, f.tool.ID))
	})

	tests := []struct {
		name    string
		items   func(f *fixture) []domain.RentalItemInput
		order   func(f *fixture) domain.RentalOrderInput
		wantErr error
	}{
		{
			name:    "no items",
			items:   func(f *fixture) []domain.RentalItemInput { return nil },
			order:   func(f *fixture) domain.RentalOrderInput { return f.order("INV-5") },
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "zero quantity",
			items:   func(f *fixture) []domain.RentalItemInput { return []domain.RentalItemInput{{ToolID: f.tool.ID}} },
			order:   func(f *fixture) domain.RentalOrderInput { return f.order("INV-5") },
			wantErr: domain.ErrInvalidInput,
		},
		{
			name: "negative rate",
			items: func(f *fixture) []domain.RentalItemInput {
				return []domain.RentalItemInput{{ToolID: f.tool.ID, Quantity: 1, Rate: decimal.NewNullDecimal(decimal.NewFromInt(-1))}}
			},
			order:   func(f *fixture) domain.RentalOrderInput { return f.order("INV-5") },
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "missing invoice number",
			items:   func(f *fixture) []domain.RentalItemInput { return []domain.RentalItemInput{{ToolID: f.tool.ID, Quantity: 1}} },
			order:   func(f *fixture) domain.RentalOrderInput { return f.order("  ") },
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:  "malformed issue date",
			items: func(f *fixture) []domain.RentalItemInput { return []domain.RentalItemInput{{ToolID: f.tool.ID, Quantity: 1}} },
			order: func(f *fixture) domain.RentalOrderInput {
				o := f.order("INV-5")
				o.IssueDate = "15/03/2024"
				return o
			},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:  "unknown customer",
			items: func(f *fixture) []domain.RentalItemInput { return []domain.RentalItemInput{{ToolID: f.tool.ID, Quantity: 1}} },
			order: func(f *fixture) domain.RentalOrderInput {
				o := f.order("INV-5")
				o.CustomerID = 404
				return o
			},
			wantErr: domain.ErrNotFound,
		},
		{
			name:  "unknown site",
			items: func(f *fixture) []domain.RentalItemInput { return []domain.RentalItemInput{{ToolID: f.tool.ID, Quantity: 1}} },
			order: func(f *fixture) domain.RentalOrderInput {
				o := f.order("INV-5")
				o.SiteID = 404
				return o
			},
			wantErr: domain.ErrNotFound,
		},
		{
			name:    "unknown tool",
			items:   func(f *fixture) []domain.RentalItemInput { return []domain.RentalItemInput{{ToolID: 404, Quantity: 1}} },
			order:   func(f *fixture) domain.RentalOrderInput { return f.order("INV-5") },
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.ledger.AddRental(f.ctx, tt.items(f), tt.order(f))
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.ledger.Rentals())
			assert.Equal(t, 10, f.available(t, f.tool.ID))
		})
	}

	t.Run("validation error names the field", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.ledger.AddRental(f.ctx, []domain.RentalItemInput{{ToolID: f.tool.ID, Quantity: 0}}, f.order("INV-5"))
		var ve domain.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "items[0].quantity", ve.Field)
	})

	t.Run("invoice number already used", func(t *testing.T) {
		f := newFixture(t)
		f.rent(t, "INV-1", 1)
		_, err := f.ledger.AddRental(f.ctx, []domain.RentalItemInput{{ToolID: f.tool.ID, Quantity: 1}}, f.order("INV-1"))
		assert.ErrorIs(t, err, domain.ErrDuplicateName)
		assert.Equal(t, 9, f.available(t, f.tool.ID))
	})
}

func TestRentalLedger_EditRental(t *testing.T) {
	t.Run("replaces only the open items", func(t *testing.T) {
		f := newFixture(t)
		saw, err := f.ledger.AddTool(f.ctx, domain.ToolInput{Name: "Saw", TotalQuantity: 5, Rate: decimal.NewFromInt(9)})
		require.NoError(t, err)
		issued := f.rent(t, "INV-1", 4)
		pending, err := f.ledger.ReturnTool(f.ctx, issued.ID, 1)
		require.NoError(t, err)
		require.Equal(t, 7, f.available(t, f.tool.ID))

		items, err := f.ledger.EditRental(f.ctx, "INV-1", []domain.RentalItemInput{
			{ToolID: f.tool.ID, Quantity: 10},
			{ToolID: saw.ID, Quantity: 2},
		}, f.order(""))
		require.NoError(t, err)
		require.Len(t, items, 2)

		invoice, err := f.ledger.Invoice("INV-1")
		require.NoError(t, err)
		assert.Len(t, invoice, 3)
		kept, ok := f.rental(t, pending.ID)
		require.True(t, ok)
		assert.Equal(t, domain.RentalStatusReturnedPending, kept.Status)
		_, ok = f.rental(t, issued.ID)
		assert.False(t, ok)

		assert.Equal(t, 0, f.available(t, f.tool.ID))
		assert.Equal(t, 3, f.available(t, saw.ID))
		assertConsistent(t, f.ledger)
	})

	t.Run("open items count toward availability", func(t *testing.T) {
		f := newFixture(t)
		f.rent(t, "INV-1", 8)
		_, err := f.ledger.EditRental(f.ctx, "INV-1", []domain.RentalItemInput{{ToolID: f.tool.ID, Quantity: 10}}, f.order(""))
		require.NoError(t, err)
		assert.Equal(t, 0, f.available(t, f.tool.ID))

		_, err = f.ledger.EditRental(f.ctx, "INV-1", []domain.RentalItemInput{{ToolID: f.tool.ID, Quantity: 11}}, f.order(""))
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)
		assert.Equal(t, 0, f.available(t, f.tool.ID))
		assertConsistent(t, f.ledger)
	})

	t.Run("renames the invoice", func(t *testing.T) {
		f := newFixture(t)
		f.rent(t, "INV-1", 2)
		f.rent(t, "INV-2", 1)

		_, err := f.ledger.EditRental(f.ctx, "INV-1", []domain.RentalItemInput{{ToolID: f.tool.ID, Quantity: 3}}, f.order("INV-2"))
		assert.ErrorIs(t, err, domain.ErrDuplicateName)

		items, err := f.ledger.EditRental(f.ctx, "INV-1", []domain.RentalItemInput{{ToolID: f.tool.ID, Quantity: 3}}, f.order("INV-1B"))
		require.NoError(t, err)
		assert.Equal(t, "INV-1B", items[0].InvoiceNumber)
		_, err = f.ledger.Invoice("INV-1")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Equal(t, 6, f.available(t, f.tool.ID))
	})

	t.Run("keeps the original issue date", func(t *testing.T) {
		f := newFixture(t)
		f.rent(t, "INV-1", 2)
		f.clock.AdvanceDays(10)
		order := f.order("")
		order.IssueDate = ""

		items, err := f.ledger.EditRental(f.ctx, "INV-1", []domain.RentalItemInput{{ToolID: f.tool.ID, Quantity: 1}}, order)
		require.NoError(t, err)
		assert.Equal(t, "2024-03-15", items[0].IssueDate)
	})

	t.Run("invoice number is trimmed", func(t *testing.T) {
		f := newFixture(t)
		f.rent(t, "INV-1", 2)

		items, err := f.ledger.EditRental(f.ctx, "  INV-1 ", []domain.RentalItemInput{{ToolID: f.tool.ID, Quantity: 3}}, f.order(""))
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "INV-1", items[0].InvoiceNumber)
		assert.Equal(t, 7, f.available(t, f.tool.ID))
	})

	t.Run("unknown invoice", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.ledger.EditRental(f.ctx, "NOPE", []domain.RentalItemInput{{ToolID: f.tool.ID, Quantity: 1}}, f.order(""))
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
