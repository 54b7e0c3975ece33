package http

import (
	"bytes"
	"net/http"

	"fbm-tools-backend/internal/backup"
	"fbm-tools-backend/internal/domain"
)

// GetData handles GET /api/data. With ?download=1 the snapshot is served as
// a dated backup file attachment.
func (h *Handler) GetData(w http.ResponseWriter, r *http.Request) {
	snap := h.ledger.Snapshot()

	var buf bytes.Buffer
	if err := backup.Encode(&buf, snap); err != nil {
		writeLedgerError(w, r, err)
		return
	}
	if r.URL.Query().Get("download") != "" {
		w.Header().Set("Content-Disposition", `attachment; filename="`+backup.FileName(h.clock.Now())+`"`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// RestoreData handles POST /api/data, replacing the whole ledger.
func (h *Handler) RestoreData(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	snap, err := backup.Decode(r.Body)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}
	if err := h.ledger.Restore(r.Context(), snap); err != nil {
		writeLedgerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Reset handles POST /api/reset.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	var opts domain.ResetOptions
	if err := decodeJSON(w, r, &opts); err != nil {
		writeLedgerError(w, r, err)
		return
	}
	if err := h.ledger.ResetData(r.Context(), opts); err != nil {
		writeLedgerError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
