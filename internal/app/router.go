package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/paytracker/paytracker/internal/backup"
	"github.com/paytracker/paytracker/internal/clients"
	"github.com/paytracker/paytracker/internal/dashboard"
	"github.com/paytracker/paytracker/internal/export"
	"github.com/paytracker/paytracker/internal/payments"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	ClientHandler    *clients.Handler
	PaymentHandler   *payments.Handler
	DashboardHandler *dashboard.Handler
	ExportHandler    *export.Handler
	BackupHandler    *backup.Handler
}

// NewRouter constructs the chi.Router serving the API route table. The same
// handler backs both the network server and the in-process client, so the
// two can never diverge.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(params.Config) {
		r.Use(mw)
	}
	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/dashboard", params.DashboardHandler.MountRoutes)
		r.Route("/clients", params.ClientHandler.MountRoutes)
		r.Route("/payments", params.PaymentHandler.MountRoutes)
		r.Route("/export", params.ExportHandler.MountRoutes)
		params.BackupHandler.MountRoutes(r)
	})

	return r
}
