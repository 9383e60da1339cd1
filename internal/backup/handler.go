package backup

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/paytracker/paytracker/internal/shared"
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
	r.Get("/backup", h.Export)
	r.Post("/restore", h.Restore)
}

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	data, err := Marshal(h.store.Snapshot(r.Context()))
	if err != nil {
		h.logger.Error("export backup", slog.Any("error", err))
		shared.RespondError(w, http.StatusInternalServerError, "Failed to export backup")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+DefaultFilename+`"`)
	_, _ = w.Write(data)
}

func (h *Handler) Restore(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	data, err := io.ReadAll(r.Body)
	if err != nil {
		shared.RespondError(w, http.StatusBadRequest, "Failed to read backup body")
		return
	}
	snap, err := Parse(data)
	if err != nil {
		shared.RespondError(w, http.StatusBadRequest, "Invalid backup data")
		return
	}
	imported, err := h.store.Import(r.Context(), snap)
	if err != nil {
		h.logger.Error("restore backup", slog.Any("error", err))
		shared.RespondError(w, http.StatusInternalServerError, "Failed to restore backup")
		return
	}
	shared.RespondJSON(w, http.StatusOK, map[string]int{"imported": imported})
}
