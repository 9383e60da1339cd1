package clients

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/paytracker/paytracker/internal/shared"
	"github.com/paytracker/paytracker/internal/stats"
	"github.com/paytracker/paytracker/internal/store"
)

type Handler struct {
	logger    *slog.Logger
	store     *store.Store
	validator *validator.Validate
}

func NewHandler(logger *slog.Logger, st *store.Store) *Handler {
	return &Handler{
		logger:    logger,
		store:     st,
		validator: validator.New(),
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	snap := h.store.Snapshot(r.Context())
	shared.RespondJSON(w, http.StatusOK, stats.ClientsWithStats(snap, time.Now()))
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	client, err := h.store.GetClient(r.Context(), id)
	if err != nil {
		shared.RespondError(w, http.StatusNotFound, "Client not found")
		return
	}
	payments := h.store.PaymentsByClient(r.Context(), id)
	shared.RespondJSON(w, http.StatusOK, stats.ClientStats(client, payments, time.Now()))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateClientRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "Invalid client data")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fieldErr := range err.(validator.ValidationErrors) {
			fields[fieldErr.Field()] = fieldErr.Error()
		}
		shared.RespondValidationError(w, "Invalid client data", fields)
		return
	}

	client, err := h.store.CreateClient(r.Context(), req.fields())
	if err != nil {
		if errors.Is(err, shared.ErrDuplicateEmail) {
			shared.RespondError(w, http.StatusConflict, "Email already in use")
			return
		}
		h.logger.Error("create client failed", slog.Any("error", err))
		shared.RespondError(w, http.StatusInternalServerError, "Failed to create client")
		return
	}
	shared.RespondJSON(w, http.StatusCreated, client)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req UpdateClientRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "Invalid client data")
		return
	}
	if fields := h.validatePatch(req); len(fields) > 0 {
		shared.RespondValidationError(w, "Invalid client data", fields)
		return
	}

	client, err := h.store.UpdateClient(r.Context(), id, req.patch())
	if err != nil {
		switch {
		case errors.Is(err, shared.ErrNotFound):
			shared.RespondError(w, http.StatusNotFound, "Client not found")
		case errors.Is(err, shared.ErrDuplicateEmail):
			shared.RespondError(w, http.StatusConflict, "Email already in use")
		default:
			h.logger.Error("update client failed", slog.Any("error", err), slog.String("id", id))
			shared.RespondError(w, http.StatusInternalServerError, "Failed to update client")
		}
		return
	}
	shared.RespondJSON(w, http.StatusOK, client)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := h.store.DeleteClient(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, shared.ErrNotFound):
			shared.RespondError(w, http.StatusNotFound, "Client not found")
		case errors.Is(err, shared.ErrHasPayments):
			shared.RespondError(w, http.StatusConflict, "Client still has payments")
		default:
			h.logger.Error("delete client failed", slog.Any("error", err), slog.String("id", id))
			shared.RespondError(w, http.StatusInternalServerError, "Failed to delete client")
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Payments(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.store.GetClient(r.Context(), id); err != nil {
		shared.RespondError(w, http.StatusNotFound, "Client not found")
		return
	}
	shared.RespondJSON(w, http.StatusOK, h.store.PaymentsByClient(r.Context(), id))
}

// validatePatch checks only the fields present in the body. null is rejected
// for required fields and accepted as "clear" for nullable ones.
func (h *Handler) validatePatch(req UpdateClientRequest) map[string]string {
	fields := make(map[string]string)
	if req.Name.Set {
		if !req.Name.Valid || req.Name.Value == "" {
			fields["name"] = "name must not be empty"
		}
	}
	if req.Email.Set {
		if !req.Email.Valid {
			fields["email"] = "email must not be null"
		} else if err := h.validator.Var(req.Email.Value, "required,email"); err != nil {
			fields["email"] = "email must be a valid address"
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}
