package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"fbm-tools-backend/internal/domain"
)

// rentalRequest is the body of POST /api/rentals and PUT /api/invoices/{invoice}.
type rentalRequest struct {
	domain.RentalOrderInput
	Items []domain.RentalItemInput `json:"items"`
}

type returnRequest struct {
	Quantity int `json:"quantity"`
}

// ListRentals handles GET /api/rentals.
func (h *Handler) ListRentals(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.ledger.Rentals())
}

// AddRental handles POST /api/rentals.
func (h *Handler) AddRental(w http.ResponseWriter, r *http.Request) {
	var req rentalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeLedgerError(w, r, err)
		return
	}
	items, err := h.ledger.AddRental(r.Context(), req.Items, req.RentalOrderInput)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, items)
}

// GetInvoice handles GET /api/invoices/{invoice}.
func (h *Handler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	items, err := h.ledger.Invoice(mux.Vars(r)["invoice"])
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// EditRental handles PUT /api/invoices/{invoice}.
func (h *Handler) EditRental(w http.ResponseWriter, r *http.Request) {
	var req rentalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeLedgerError(w, r, err)
		return
	}
	items, err := h.ledger.EditRental(r.Context(), mux.Vars(r)["invoice"], req.Items, req.RentalOrderInput)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// ReturnTool handles POST /api/rentals/{id}/return.
func (h *Handler) ReturnTool(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}
	var req returnRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeLedgerError(w, r, err)
		return
	}
	item, err := h.ledger.ReturnTool(r.Context(), id, req.Quantity)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// ConfirmReturn handles POST /api/rentals/{id}/confirm.
func (h *Handler) ConfirmReturn(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}
	item, err := h.ledger.ConfirmReturn(r.Context(), id)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// UndoReturn handles POST /api/rentals/{id}/undo.
func (h *Handler) UndoReturn(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}
	item, err := h.ledger.UndoReturn(r.Context(), id)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// ActiveHoldings handles GET /api/holdings.
func (h *Handler) ActiveHoldings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.ledger.ActiveHoldings())
}

// TransferTool handles POST /api/transfers.
func (h *Handler) TransferTool(w http.ResponseWriter, r *http.Request) {
	var in domain.TransferInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeLedgerError(w, r, err)
		return
	}
	item, err := h.ledger.TransferTool(r.Context(), in)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}
