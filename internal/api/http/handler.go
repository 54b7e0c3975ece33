// Package http exposes the rental ledger as a JSON API.
package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"fbm-tools-backend/internal/clock"
	"fbm-tools-backend/internal/service"
)

// Handler serves the ledger operations over HTTP.
type Handler struct {
	ledger service.LedgerService
	clock  clock.Clock
}

func NewHandler(ledger service.LedgerService, clk clock.Clock) *Handler {
	if clk == nil {
		clk = clock.System()
	}
	return &Handler{ledger: ledger, clock: clk}
}

// NewRouter builds the router with all API routes and the standard
// middleware chain.
func NewRouter(ledger service.LedgerService, clk clock.Clock) http.Handler {
	router := mux.NewRouter()
	RegisterRoutes(router, NewHandler(ledger, clk))
	router.Use(RequestID, Logger, Recoverer)
	return router
}

// RegisterRoutes registers the ledger HTTP endpoints
func RegisterRoutes(router *mux.Router, h *Handler) {
	api := router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	api.HandleFunc("/data", h.GetData).Methods(http.MethodGet)
	api.HandleFunc("/data", h.RestoreData).Methods(http.MethodPost)
	api.HandleFunc("/reset", h.Reset).Methods(http.MethodPost)

	api.HandleFunc("/tools", h.ListTools).Methods(http.MethodGet)
	api.HandleFunc("/tools", h.AddTool).Methods(http.MethodPost)
	api.HandleFunc("/tools/{id:[0-9]+}", h.EditTool).Methods(http.MethodPut)
	api.HandleFunc("/tools/{id:[0-9]+}", h.DeleteTool).Methods(http.MethodDelete)

	api.HandleFunc("/customers", h.ListCustomers).Methods(http.MethodGet)
	api.HandleFunc("/customers", h.AddCustomer).Methods(http.MethodPost)
	api.HandleFunc("/customers/{id:[0-9]+}", h.EditCustomer).Methods(http.MethodPut)
	api.HandleFunc("/customers/{id:[0-9]+}", h.DeleteCustomer).Methods(http.MethodDelete)
	api.HandleFunc("/customers/{id:[0-9]+}/rentals", h.CustomerRentals).Methods(http.MethodGet)

	api.HandleFunc("/sites", h.ListSites).Methods(http.MethodGet)
	api.HandleFunc("/sites", h.AddSite).Methods(http.MethodPost)
	api.HandleFunc("/sites/{id:[0-9]+}", h.EditSite).Methods(http.MethodPut)
	api.HandleFunc("/sites/{id:[0-9]+}", h.DeleteSite).Methods(http.MethodDelete)
	api.HandleFunc("/sites/{id:[0-9]+}/rentals", h.SiteRentals).Methods(http.MethodGet)

	api.HandleFunc("/rentals", h.ListRentals).Methods(http.MethodGet)
	api.HandleFunc("/rentals", h.AddRental).Methods(http.MethodPost)
	api.HandleFunc("/rentals/{id:[0-9]+}/return", h.ReturnTool).Methods(http.MethodPost)
	api.HandleFunc("/rentals/{id:[0-9]+}/confirm", h.ConfirmReturn).Methods(http.MethodPost)
	api.HandleFunc("/rentals/{id:[0-9]+}/undo", h.UndoReturn).Methods(http.MethodPost)
	api.HandleFunc("/invoices/{invoice}", h.GetInvoice).Methods(http.MethodGet)
	api.HandleFunc("/invoices/{invoice}", h.EditRental).Methods(http.MethodPut)

	api.HandleFunc("/holdings", h.ActiveHoldings).Methods(http.MethodGet)
	api.HandleFunc("/transfers", h.TransferTool).Methods(http.MethodPost)
}

// Health handles GET /api/health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
