package http

import (
	"context"
	"net/http"

	"fbm-tools-backend/internal/domain"
)

// ListTools handles GET /api/tools.
func (h *Handler) ListTools(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.ledger.Tools())
}

// AddTool handles POST /api/tools.
func (h *Handler) AddTool(w http.ResponseWriter, r *http.Request) {
	var in domain.ToolInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeLedgerError(w, r, err)
		return
	}
	tool, err := h.ledger.AddTool(r.Context(), in)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, tool)
}

// EditTool handles PUT /api/tools/{id}.
func (h *Handler) EditTool(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}
	var in domain.ToolInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeLedgerError(w, r, err)
		return
	}
	tool, err := h.ledger.EditTool(r.Context(), id, in)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tool)
}

// DeleteTool handles DELETE /api/tools/{id}.
func (h *Handler) DeleteTool(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, h.ledger.DeleteTool)
}

// ListCustomers handles GET /api/customers.
func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.ledger.Customers())
}

// AddCustomer handles POST /api/customers.
func (h *Handler) AddCustomer(w http.ResponseWriter, r *http.Request) {
	var in domain.CustomerInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeLedgerError(w, r, err)
		return
	}
	c, err := h.ledger.AddCustomer(r.Context(), in)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// EditCustomer handles PUT /api/customers/{id}.
func (h *Handler) EditCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}
	var in domain.CustomerInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeLedgerError(w, r, err)
		return
	}
	c, err := h.ledger.EditCustomer(r.Context(), id, in)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// DeleteCustomer handles DELETE /api/customers/{id}.
func (h *Handler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, h.ledger.DeleteCustomer)
}

// CustomerRentals handles GET /api/customers/{id}/rentals.
func (h *Handler) CustomerRentals(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}
	rentals, err := h.ledger.CustomerRentals(id)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rentals)
}

// ListSites handles GET /api/sites.
func (h *Handler) ListSites(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.ledger.Sites())
}

// AddSite handles POST /api/sites.
func (h *Handler) AddSite(w http.ResponseWriter, r *http.Request) {
	var in domain.SiteInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeLedgerError(w, r, err)
		return
	}
	s, err := h.ledger.AddSite(r.Context(), in)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, s)
}

// EditSite handles PUT /api/sites/{id}.
func (h *Handler) EditSite(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}
	var in domain.SiteInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeLedgerError(w, r, err)
		return
	}
	s, err := h.ledger.EditSite(r.Context(), id, in)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// DeleteSite handles DELETE /api/sites/{id}.
func (h *Handler) DeleteSite(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, h.ledger.DeleteSite)
}

// SiteRentals handles GET /api/sites/{id}/rentals.
func (h *Handler) SiteRentals(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}
	rentals, err := h.ledger.SiteRentals(id)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rentals)
}

func (h *Handler) deleteByID(w http.ResponseWriter, r *http.Request, del func(ctx context.Context, id int64) error) {
	id, err := pathID(r)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}
	if err := del(r.Context(), id); err != nil {
		writeLedgerError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
