package service_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fbm-tools-backend/internal/domain"
)

func TestRentalLedger_AddTool(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, "Drill", f.tool.Name)
	assert.Equal(t, 10, f.tool.AvailableQuantity)

	saw, err := f.ledger.AddTool(f.ctx, domain.ToolInput{Name: "  Saw ", TotalQuantity: 3, Rate: decimal.NewFromInt(5)})
	require.NoError(t, err)
	assert.Equal(t, "Saw", saw.Name)
	assert.NotEqual(t, f.tool.ID, saw.ID)

	_, err = f.ledger.AddTool(f.ctx, domain.ToolInput{Name: " DRILL", TotalQuantity: 1})
	assert.ErrorIs(t, err, domain.ErrDuplicateName)

	_, err = f.ledger.AddTool(f.ctx, domain.ToolInput{Name: "", TotalQuantity: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.ledger.AddTool(f.ctx, domain.ToolInput{Name: "Level", TotalQuantity: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.ledger.AddTool(f.ctx, domain.ToolInput{Name: "Level", TotalQuantity: 1, Rate: decimal.NewFromInt(-3)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.Len(t, f.ledger.Tools(), 2)
}

func TestRentalLedger_EditTool(t *testing.T) {
	t.Run("total change shifts availability", func(t *testing.T) {
		f := newFixture(t)
		f.rent(t, "INV-1", 4)

		tool, err := f.ledger.EditTool(f.ctx, f.tool.ID, domain.ToolInput{Name: "Hammer Drill", TotalQuantity: 12, Rate: decimal.NewFromInt(20)})
		require.NoError(t, err)
		assert.Equal(t, 12, tool.TotalQuantity)
		assert.Equal(t, 8, tool.AvailableQuantity)
		assert.Equal(t, "Hammer Drill", tool.Name)

		tool, err = f.ledger.EditTool(f.ctx, f.tool.ID, domain.ToolInput{Name: "Hammer Drill", TotalQuantity: 4, Rate: decimal.NewFromInt(20)})
		require.NoError(t, err)
		assert.Equal(t, 0, tool.AvailableQuantity)
		assertConsistent(t, f.ledger)
	})

	t.Run("cannot shrink below rented out", func(t *testing.T) {
		f := newFixture(t)
		f.rent(t, "INV-1", 4)

		_, err := f.ledger.EditTool(f.ctx, f.tool.ID, domain.ToolInput{Name: "Drill", TotalQuantity: 3})
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)
		assert.Equal(t, 6, f.available(t, f.tool.ID))
	})

	t.Run("rate change leaves rentals alone", func(t *testing.T) {
		f := newFixture(t)
		issued := f.rent(t, "INV-1", 1)

		_, err := f.ledger.EditTool(f.ctx, f.tool.ID, domain.ToolInput{Name: "Drill", TotalQuantity: 10, Rate: decimal.NewFromInt(99)})
		require.NoError(t, err)
		r, ok := f.rental(t, issued.ID)
		require.True(t, ok)
		assert.True(t, decimal.NewFromInt(15).Equal(r.Rate))
	})

	t.Run("rename onto another tool", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.ledger.AddTool(f.ctx, domain.ToolInput{Name: "Saw", TotalQuantity: 1})
		require.NoError(t, err)

		_, err = f.ledger.EditTool(f.ctx, f.tool.ID, domain.ToolInput{Name: "saw", TotalQuantity: 10})
		assert.ErrorIs(t, err, domain.ErrDuplicateName)

		_, err = f.ledger.EditTool(f.ctx, f.tool.ID, domain.ToolInput{Name: "DRILL", TotalQuantity: 10})
		assert.NoError(t, err, "keeping its own name in another case")
	})

	t.Run("unknown tool", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.ledger.EditTool(f.ctx, 404, domain.ToolInput{Name: "X", TotalQuantity: 1})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestRentalLedger_DeleteTool(t *testing.T) {
	t.Run("all returned", func(t *testing.T) {
		f := newFixture(t)
		issued := f.rent(t, "INV-1", 2)
		_, err := f.ledger.ReturnTool(f.ctx, issued.ID, 2)
		require.NoError(t, err)
		_, err = f.ledger.ConfirmReturn(f.ctx, issued.ID)
		require.NoError(t, err)

		require.NoError(t, f.ledger.DeleteTool(f.ctx, f.tool.ID))
		assert.Empty(t, f.ledger.Tools())
		assert.Len(t, f.ledger.Rentals(), 1, "returned history is kept")
		assertConsistent(t, f.ledger)
	})

	t.Run("rented", func(t *testing.T) {
		f := newFixture(t)
		f.rent(t, "INV-1", 2)
		assert.ErrorIs(t, f.ledger.DeleteTool(f.ctx, f.tool.ID), domain.ErrReferentialBlock)
	})

	t.Run("unknown", func(t *testing.T) {
		f := newFixture(t)
		assert.ErrorIs(t, f.ledger.DeleteTool(f.ctx, 404), domain.ErrNotFound)
	})
}

func TestRentalLedger_Customers(t *testing.T) {
	f := newFixture(t)

	edited, err := f.ledger.EditCustomer(f.ctx, f.customer.ID, domain.CustomerInput{Name: "Acme Ltd", Phone: "555-0199", Address: "1 Main St"})
	require.NoError(t, err)
	assert.Equal(t, f.customer.ID, edited.ID)
	assert.Equal(t, "Acme Ltd", edited.Name)

	second, err := f.ledger.AddCustomer(f.ctx, domain.CustomerInput{Name: "Acme Ltd"})
	require.NoError(t, err, "customer names need not be unique")
	assert.Len(t, f.ledger.Customers(), 2)

	_, err = f.ledger.EditCustomer(f.ctx, 404, domain.CustomerInput{Name: "X"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.ledger.AddCustomer(f.ctx, domain.CustomerInput{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	require.NoError(t, f.ledger.DeleteCustomer(f.ctx, second.ID))
	assert.Len(t, f.ledger.Customers(), 1)
	assert.ErrorIs(t, f.ledger.DeleteCustomer(f.ctx, second.ID), domain.ErrNotFound)
}

func TestRentalLedger_DeleteCustomerReleasesStock(t *testing.T) {
	f := newFixture(t)
	other, err := f.ledger.AddCustomer(f.ctx, domain.CustomerInput{Name: "Other"})
	require.NoError(t, err)

	issued := f.rent(t, "INV-1", 3)
	_, err = f.ledger.ReturnTool(f.ctx, issued.ID, 1)
	require.NoError(t, err)
	_, err = f.ledger.AddRental(f.ctx, []domain.RentalItemInput{{ToolID: f.tool.ID, Quantity: 2}},
		domain.RentalOrderInput{CustomerID: other.ID, SiteID: f.site.ID, InvoiceNumber: "INV-2"})
	require.NoError(t, err)
	require.Equal(t, 6, f.available(t, f.tool.ID))

	require.NoError(t, f.ledger.DeleteCustomer(f.ctx, f.customer.ID))
	assert.Equal(t, 8, f.available(t, f.tool.ID))
	rentals := f.ledger.Rentals()
	require.Len(t, rentals, 1)
	assert.Equal(t, other.ID, rentals[0].CustomerID)
	assertConsistent(t, f.ledger)
}

func TestRentalLedger_Sites(t *testing.T) {
	f := newFixture(t)

	edited, err := f.ledger.EditSite(f.ctx, f.site.ID, domain.SiteInput{Name: "North Yard"})
	require.NoError(t, err)
	assert.Equal(t, "North Yard", edited.Name)
	_, err = f.ledger.EditSite(f.ctx, 404, domain.SiteInput{Name: "X"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	issued := f.rent(t, "INV-1", 1)
	assert.ErrorIs(t, f.ledger.DeleteSite(f.ctx, f.site.ID), domain.ErrReferentialBlock)

	_, err = f.ledger.ReturnTool(f.ctx, issued.ID, 1)
	require.NoError(t, err)
	assert.ErrorIs(t, f.ledger.DeleteSite(f.ctx, f.site.ID), domain.ErrReferentialBlock, "pending returns still block")

	_, err = f.ledger.ConfirmReturn(f.ctx, issued.ID)
	require.NoError(t, err)
	require.NoError(t, f.ledger.DeleteSite(f.ctx, f.site.ID))
	assert.Empty(t, f.ledger.Sites())
	assert.ErrorIs(t, f.ledger.DeleteSite(f.ctx, f.site.ID), domain.ErrNotFound)
}
