package payments

import (
	"errors"
	"log/slog"
	"net/http"

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

// List returns every payment with its client name resolved.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	snap := h.store.Snapshot(r.Context())
	shared.RespondJSON(w, http.StatusOK, stats.PaymentsWithClients(snap))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreatePaymentRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "Invalid payment data")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fieldErr := range err.(validator.ValidationErrors) {
			fields[fieldErr.Field()] = fieldErr.Error()
		}
		shared.RespondValidationError(w, "Invalid payment data", fields)
		return
	}
	fields, fieldErrs := req.fields()
	if fieldErrs != nil {
		shared.RespondValidationError(w, "Invalid payment data", fieldErrs)
		return
	}

	payment, err := h.store.CreatePayment(r.Context(), fields)
	if err != nil {
		if errors.Is(err, shared.ErrUnknownClient) {
			shared.RespondValidationError(w, "Invalid payment data", map[string]string{"clientId": "client does not exist"})
			return
		}
		h.logger.Error("create payment failed", slog.Any("error", err))
		shared.RespondError(w, http.StatusInternalServerError, "Failed to create payment")
		return
	}
	shared.RespondJSON(w, http.StatusCreated, payment)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req UpdatePaymentRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "Invalid payment data")
		return
	}
	patch, fieldErrs := req.patch()
	if fieldErrs != nil {
		shared.RespondValidationError(w, "Invalid payment data", fieldErrs)
		return
	}

	payment, err := h.store.UpdatePayment(r.Context(), id, patch)
	if err != nil {
		switch {
		case errors.Is(err, shared.ErrNotFound):
			shared.RespondError(w, http.StatusNotFound, "Payment not found")
		case errors.Is(err, shared.ErrUnknownClient):
			shared.RespondValidationError(w, "Invalid payment data", map[string]string{"clientId": "client does not exist"})
		default:
			h.logger.Error("update payment failed", slog.Any("error", err), slog.String("id", id))
			shared.RespondError(w, http.StatusInternalServerError, "Failed to update payment")
		}
		return
	}
	shared.RespondJSON(w, http.StatusOK, payment)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := h.store.DeletePayment(r.Context(), id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			shared.RespondError(w, http.StatusNotFound, "Payment not found")
			return
		}
		h.logger.Error("delete payment failed", slog.Any("error", err), slog.String("id", id))
		shared.RespondError(w, http.StatusInternalServerError, "Failed to delete payment")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
