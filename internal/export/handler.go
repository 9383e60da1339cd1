package export

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/paytracker/paytracker/internal/shared"
	"github.com/paytracker/paytracker/internal/stats"
	"github.com/paytracker/paytracker/internal/store"
)

type Handler struct {
	logger *slog.Logger
	store  *store.Store
}

func NewHandler(logger *slog.Logger, st *store.Store) *Handler {
	return &Handler{logger: logger, store: st}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/clients", h.Clients)
	r.Get("/payments", h.Payments)
	r.Get("/source", h.Source)
}

func (h *Handler) Clients(w http.ResponseWriter, r *http.Request) {
	snap := h.store.Snapshot(r.Context())
	rows := stats.ClientsWithStats(snap, time.Now())
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="clients-report.csv"`)
	if err := WriteClientsCSV(w, rows); err != nil {
		h.logger.Error("export clients csv", slog.Any("error", err))
	}
}

func (h *Handler) Payments(w http.ResponseWriter, r *http.Request) {
	snap := h.store.Snapshot(r.Context())
	rows := stats.PaymentsWithClients(snap)
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="payments-report.csv"`)
	if err := WritePaymentsCSV(w, rows); err != nil {
		h.logger.Error("export payments csv", slog.Any("error", err))
	}
}

// Source mirrors the offline variant: packaging a source archive is not
// supported here.
func (h *Handler) Source(w http.ResponseWriter, r *http.Request) {
	shared.RespondError(w, http.StatusNotImplemented, "Source download is unavailable")
}
