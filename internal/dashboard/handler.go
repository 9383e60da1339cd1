package dashboard

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/singleflight"

	"github.com/paytracker/paytracker/internal/domain"
	"github.com/paytracker/paytracker/internal/shared"
	"github.com/paytracker/paytracker/internal/stats"
	"github.com/paytracker/paytracker/internal/store"
)

type Handler struct {
	logger *slog.Logger
	store  *store.Store
	group  singleflight.Group
}

func NewHandler(logger *slog.Logger, st *store.Store) *Handler {
	return &Handler{logger: logger, store: st}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/stats", h.Stats)
	r.Get("/recent-payments", h.RecentPayments)
	r.Get("/overdue-payments", h.OverduePayments)
}

// Stats recomputes dashboard aggregates from the live store. Concurrent
// identical requests are collapsed; results are never cached.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	result, err, _ := h.singleflightDo(r.Context(), "dashboard-stats", func(ctx context.Context) (any, error) {
		return stats.Dashboard(h.store.Snapshot(ctx), time.Now()), nil
	})
	if err != nil {
		h.logger.Error("dashboard stats failed", slog.Any("error", err))
		shared.RespondError(w, http.StatusInternalServerError, "Failed to fetch dashboard stats")
		return
	}
	shared.RespondJSON(w, http.StatusOK, result.(domain.DashboardStats))
}

func (h *Handler) RecentPayments(w http.ResponseWriter, r *http.Request) {
	limit := stats.DefaultRecentLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	snap := h.store.Snapshot(r.Context())
	shared.RespondJSON(w, http.StatusOK, stats.RecentPayments(snap, limit))
}

func (h *Handler) OverduePayments(w http.ResponseWriter, r *http.Request) {
	snap := h.store.Snapshot(r.Context())
	shared.RespondJSON(w, http.StatusOK, stats.OverduePayments(snap, time.Now()))
}

func (h *Handler) singleflightDo(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error, bool) {
	resultChan := h.group.DoChan(key, func() (any, error) {
		return fn(ctx)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err(), false
	case res := <-resultChan:
		return res.Val, res.Err, res.Shared
	}
}
