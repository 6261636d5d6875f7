package appointments

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"aura-backend/internal/httpx"
	"aura-backend/internal/middleware"
	"aura-backend/internal/schedule"
	"aura-backend/internal/transport"
	"aura-backend/internal/validation"

	"github.com/go-chi/chi/v5"
)

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

// AvailableSlots answers GET /appointments/slots?doctorId=...&date=YYYY-MM-DD.
func (h *Handler) AvailableSlots(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	doctorID := strings.TrimSpace(r.URL.Query().Get("doctorId"))
	date := strings.TrimSpace(r.URL.Query().Get("date"))
	if doctorID == "" || date == "" {
		transport.WriteError(w, http.StatusBadRequest, "doctorId and date are required", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	slots, err := h.service.AvailableSlots(ctx, doctorID, date)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrInvalidDate):
			transport.WriteError(w, http.StatusBadRequest, "invalid date", nil)
		case errors.Is(err, ErrDoctorNotFound):
			transport.WriteError(w, http.StatusNotFound, "doctor not found", nil)
		default:
			log.Error("appointments slots: error", slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusInternalServerError, "slots error", nil)
		}
		return
	}

	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"doctorId": doctorID,
		"date":     date,
		"slots":    slots,
	})
}

// SlotsForDoctor is the same planner pipeline addressed by path:
// GET /doctors/{id}/slots?date=YYYY-MM-DD.
func (h *Handler) SlotsForDoctor(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	doctorID := strings.TrimSpace(chi.URLParam(r, "id"))
	date := strings.TrimSpace(r.URL.Query().Get("date"))
	if doctorID == "" || date == "" {
		transport.WriteError(w, http.StatusBadRequest, "doctor id and date are required", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	slots, err := h.service.AvailableSlots(ctx, doctorID, date)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrInvalidDate):
			transport.WriteError(w, http.StatusBadRequest, "invalid date", nil)
		case errors.Is(err, ErrDoctorNotFound):
			transport.WriteError(w, http.StatusNotFound, "doctor not found", nil)
		default:
			log.Error("appointments slots: error", slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusInternalServerError, "slots error", nil)
		}
		return
	}

	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"doctorId": doctorID,
		"date":     date,
		"slots":    slots,
	})
}

// ListByPatient and ListByDoctor are the scoped listings the dashboards
// reach through the id-mapping endpoints.
func (h *Handler) ListByPatient(w http.ResponseWriter, r *http.Request) {
	patientID := strings.TrimSpace(chi.URLParam(r, "id"))
	if patientID == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing patient id", nil)
		return
	}
	h.listFiltered(w, r, ListFilter{PatientID: patientID})
}

func (h *Handler) ListByDoctor(w http.ResponseWriter, r *http.Request) {
	doctorID := strings.TrimSpace(chi.URLParam(r, "id"))
	if doctorID == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing doctor id", nil)
		return
	}
	h.listFiltered(w, r, ListFilter{DoctorID: doctorID})
}

func (h *Handler) listFiltered(w http.ResponseWriter, r *http.Request, filter ListFilter) {
	log := h.logWithRequest(r)
	limit, offset, err := httpx.ParseLimitOffset(r.URL.Query(), 50, 200)
	if err != nil {
		transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	items, total, err := h.service.List(ctx, filter, limit, offset)
	if err != nil {
		log.Error("appointments list: database error", slog.String("error", err.Error()))
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

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var req CreateRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("appointments create: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		log.Warn("appointments create: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	appt, err := h.service.Create(ctx, req)
	if err != nil {
		h.writeBookingError(w, log, "appointments create", err)
		return
	}

	log.Info("appointments create: ok",
		slog.String("appointment_id", appt.ID),
		slog.String("doctor_id", appt.DoctorID),
		slog.String("date", appt.AppointmentDate),
		slog.String("start", appt.StartTime))
	transport.WriteJSON(w, http.StatusCreated, appt)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	limit, offset, err := httpx.ParseLimitOffset(r.URL.Query(), 50, 200)
	if err != nil {
		transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	filter := ListFilter{
		DoctorID:  strings.TrimSpace(r.URL.Query().Get("doctorId")),
		PatientID: strings.TrimSpace(r.URL.Query().Get("patientId")),
		Status:    strings.TrimSpace(r.URL.Query().Get("status")),
		Date:      strings.TrimSpace(r.URL.Query().Get("date")),
	}
	if filter.Status != "" {
		if _, ok := ParseStatus(filter.Status); !ok {
			transport.WriteError(w, http.StatusBadRequest, "invalid status filter", nil)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	items, total, err := h.service.List(ctx, filter, limit, offset)
	if err != nil {
		log.Error("appointments list: database error", slog.String("error", err.Error()))
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

	appt, err := h.service.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			transport.WriteError(w, http.StatusNotFound, "appointment not found", nil)
			return
		}
		log.Error("appointments get: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"appointment": appt,
		"badge":       BadgeFor(appt.Status),
	})
}

func (h *Handler) Reschedule(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	var req RescheduleRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("appointments reschedule: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		log.Warn("appointments reschedule: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	appt, err := h.service.Reschedule(ctx, id, req)
	if err != nil {
		h.writeBookingError(w, log, "appointments reschedule", err)
		return
	}

	log.Info("appointments reschedule: ok",
		slog.String("appointment_id", appt.ID),
		slog.String("date", appt.AppointmentDate),
		slog.String("start", appt.StartTime))
	transport.WriteJSON(w, http.StatusOK, appt)
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
		log.Warn("appointments status: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		log.Warn("appointments status: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	appt, err := h.service.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidStatus):
			transport.WriteError(w, http.StatusBadRequest, "invalid status", nil)
		case errors.Is(err, ErrNotFound):
			transport.WriteError(w, http.StatusNotFound, "appointment not found", nil)
		default:
			log.Error("appointments status: database error", slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		}
		return
	}

	log.Info("appointments status: ok", slog.String("appointment_id", id), slog.String("status", string(appt.Status)))
	transport.WriteJSON(w, http.StatusOK, appt)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.service.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			transport.WriteError(w, http.StatusNotFound, "appointment not found", nil)
			return
		}
		log.Error("appointments delete: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("appointments delete: ok", slog.String("appointment_id", id))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{"message": "appointment deleted"})
}

func (h *Handler) writeBookingError(w http.ResponseWriter, log *slog.Logger, op string, err error) {
	switch {
	case errors.Is(err, ErrDoctorNotFound):
		transport.WriteError(w, http.StatusNotFound, "doctor not found", nil)
	case errors.Is(err, ErrNotFound):
		transport.WriteError(w, http.StatusNotFound, "appointment not found", nil)
	case errors.Is(err, ErrDoctorUnavailable):
		transport.WriteError(w, http.StatusConflict, "doctor is not accepting appointments", nil)
	case errors.Is(err, ErrDateInPast):
		transport.WriteError(w, http.StatusBadRequest, "appointment date is in the past", nil)
	case errors.Is(err, ErrDateNotBookable):
		transport.WriteError(w, http.StatusBadRequest, "doctor has no availability on that day", nil)
	case errors.Is(err, ErrSlotUnavailable):
		transport.WriteError(w, http.StatusBadRequest, "requested time is not an offered slot", nil)
	case errors.Is(err, ErrSlotTaken):
		transport.WriteError(w, http.StatusConflict, "slot already booked", nil)
	case errors.Is(err, schedule.ErrInvalidDate), errors.Is(err, schedule.ErrInvalidTime):
		transport.WriteError(w, http.StatusBadRequest, "invalid date or time", nil)
	default:
		log.Error(op+": error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "booking error", nil)
	}
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
