package appointments

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/oakpointclinic/booking-ai/internal/api/respond"
	"github.com/oakpointclinic/booking-ai/pkg/logging"
)

// Handler exposes the admin appointment endpoints.
type Handler struct {
	repo   *Repository
	logger *logging.Logger
}

// NewHandler creates an appointments handler.
func NewHandler(repo *Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

// List handles GET /api/admin/appointments.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := ListFilter{
		Status:   q.Get("status"),
		FromDate: q.Get("from"),
		ToDate:   q.Get("to"),
		Page:     queryInt(r, "page", 1),
		PageSize: queryInt(r, "pageSize", 20),
	}
	if raw := q.Get("doctorId"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			filter.DoctorID = id
		}
	}
	if filter.Status != "" && !ValidStatus(filter.Status) {
		respond.Error(w, http.StatusBadRequest, "unknown status filter")
		return
	}

	list, total, err := h.repo.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list appointments", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to list appointments")
		return
	}
	respond.Page(w, list, respond.Pagination{Page: filter.Page, PageSize: filter.PageSize, Total: total})
}

// UpdateStatus handles PUT /api/admin/appointments/{appointmentID}/status.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "appointmentID"), 10, 64)
	if err != nil || id < 1 {
		respond.Error(w, http.StatusBadRequest, "invalid appointment id")
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.repo.UpdateStatus(r.Context(), id, req.Status); err != nil {
		switch {
		case errors.Is(err, ErrAppointmentNotFound):
			respond.Error(w, http.StatusNotFound, "appointment not found")
		case errors.Is(err, ErrInvalidTransition):
			respond.Error(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("failed to update appointment status", "error", err, "id", id)
			respond.Error(w, http.StatusInternalServerError, "failed to update appointment")
		}
		return
	}
	h.logger.Info("appointment status updated", "id", id, "status", req.Status)
	respond.OK(w, map[string]any{"id": id, "status": req.Status})
}

func queryInt(r *http.Request, key string, def int) int {
	if raw := r.URL.Query().Get(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			return v
		}
	}
	return def
}
