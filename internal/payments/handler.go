package payments

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"aura-backend/internal/httpx"
	"aura-backend/internal/middleware"
	"aura-backend/internal/transport"
	"aura-backend/internal/validation"

	"github.com/go-chi/chi/v5"
)

const maxWebhookBody = 1 << 16

type Handler struct {
	service *Service
	val     *validation.Validator
	log     *slog.Logger
}

func NewHandler(service *Service, val *validation.Validator, log *slog.Logger) *Handler {
	return &Handler{
		service: service,
		val:     val,
		log:     log,
	}
}

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var req CheckoutRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("payments checkout: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		log.Warn("payments checkout: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	resp, err := h.service.Checkout(ctx, req)
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			transport.WriteError(w, http.StatusNotFound, "appointment not found", nil)
			return
		}
		log.Error("payments checkout: error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "checkout error", nil)
		return
	}

	log.Info("payments checkout: ok",
		slog.String("payment_id", resp.Payment.ID),
		slog.String("method", string(resp.Payment.Method)))
	transport.WriteJSON(w, http.StatusCreated, resp)
}

// Webhook receives gateway notifications. The raw body is needed intact for
// signature verification, so this skips the usual JSON decoding helper.
func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		transport.WriteError(w, http.StatusBadRequest, "unreadable body", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := h.service.HandleWebhook(ctx, payload, r.Header.Get("Stripe-Signature")); err != nil {
		if errors.Is(err, ErrNotFound) {
			// Unknown payment ids are acknowledged so the gateway stops retrying.
			log.Warn("payments webhook: unknown payment")
			transport.WriteJSON(w, http.StatusOK, map[string]interface{}{"received": true})
			return
		}
		log.Error("payments webhook: error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusBadRequest, "webhook error", nil)
		return
	}

	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{"received": true})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, func(ctx context.Context, limit, offset int64) ([]Payment, int64, error) {
		return h.service.List(ctx, limit, offset)
	})
}

func (h *Handler) ListByPatient(w http.ResponseWriter, r *http.Request) {
	patientID := strings.TrimSpace(chi.URLParam(r, "patientId"))
	if patientID == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing patient id", nil)
		return
	}
	h.list(w, r, func(ctx context.Context, limit, offset int64) ([]Payment, int64, error) {
		return h.service.ListByPatient(ctx, patientID, limit, offset)
	})
}

func (h *Handler) ListByDoctor(w http.ResponseWriter, r *http.Request) {
	doctorID := strings.TrimSpace(chi.URLParam(r, "doctorId"))
	if doctorID == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing doctor id", nil)
		return
	}
	h.list(w, r, func(ctx context.Context, limit, offset int64) ([]Payment, int64, error) {
		return h.service.ListByDoctor(ctx, doctorID, limit, offset)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, fetch func(ctx context.Context, limit, offset int64) ([]Payment, int64, error)) {
	log := h.logWithRequest(r)
	limit, offset, err := httpx.ParseLimitOffset(r.URL.Query(), 50, 200)
	if err != nil {
		transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	items, total, err := fetch(ctx, limit, offset)
	if err != nil {
		log.Error("payments list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"items":  items,
		"limit":  limit,
		"offset": offset,
		"total":  total,
	})
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	payment, err := h.service.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			transport.WriteError(w, http.StatusNotFound, "payment not found", nil)
			return
		}
		log.Error("payments get: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	transport.WriteJSON(w, http.StatusOK, payment)
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	var req UpdateStatusRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("payments status: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		log.Warn("payments status: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	payment, err := h.service.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidStatus):
			transport.WriteError(w, http.StatusBadRequest, "invalid status", nil)
		case errors.Is(err, ErrNotFound):
			transport.WriteError(w, http.StatusNotFound, "payment not found", nil)
		default:
			log.Error("payments status: database error", slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		}
		return
	}

	log.Info("payments status: ok", slog.String("payment_id", id), slog.String("status", string(payment.Status)))
	transport.WriteJSON(w, http.StatusOK, payment)
}

func (h *Handler) logWithRequest(r *http.Request) *slog.Logger {
	if r == nil {
		return h.log
	}
	if id := middleware.RequestIDFromContext(r.Context()); id != "" {
		return h.log.With(slog.String("request_id", id))
	}
	return h.log
}
