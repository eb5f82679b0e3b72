package doctors

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/oakpointclinic/booking-ai/internal/api/respond"
	"github.com/oakpointclinic/booking-ai/pkg/logging"
)

// Handler exposes the admin doctor CRUD endpoints.
type Handler struct {
	repo   *Repository
	logger *logging.Logger
}

// NewHandler creates a doctors handler.
func NewHandler(repo *Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

// List handles GET /api/admin/doctors.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{
		Specialty: r.URL.Query().Get("specialty"),
		Page:      queryInt(r, "page", 1),
		PageSize:  queryInt(r, "pageSize", 20),
	}
	if r.URL.Query().Get("active") == "true" {
		filter.ActiveOnly = true
	}

	list, total, err := h.repo.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list doctors", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to list doctors")
		return
	}
	respond.Page(w, list, respond.Pagination{Page: filter.Page, PageSize: filter.PageSize, Total: total})
}

// Create handles POST /api/admin/doctors.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req UpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	doctor, err := h.repo.Create(r.Context(), &req)
	if err != nil {
		if verr := req.Validate(); verr != nil {
			respond.Error(w, http.StatusBadRequest, verr.Error())
			return
		}
		h.logger.Error("failed to create doctor", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to create doctor")
		return
	}
	h.logger.Info("doctor created", "id", doctor.ID, "name", doctor.Name)
	respond.Created(w, doctor)
}

// Update handles PUT /api/admin/doctors/{doctorID}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := doctorIDParam(w, r)
	if !ok {
		return
	}
	var req UpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	doctor, err := h.repo.Update(r.Context(), id, &req)
	if err != nil {
		if errors.Is(err, ErrDoctorNotFound) {
			respond.Error(w, http.StatusNotFound, "doctor not found")
			return
		}
		h.logger.Error("failed to update doctor", "error", err, "id", id)
		respond.Error(w, http.StatusInternalServerError, "failed to update doctor")
		return
	}
	respond.OK(w, doctor)
}

// Delete handles DELETE /api/admin/doctors/{doctorID}. Doctors holding future
// appointments are deactivated rather than removed.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := doctorIDParam(w, r)
	if !ok {
		return
	}
	soft, err := h.repo.Delete(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrDoctorNotFound) {
			respond.Error(w, http.StatusNotFound, "doctor not found")
			return
		}
		h.logger.Error("failed to delete doctor", "error", err, "id", id)
		respond.Error(w, http.StatusInternalServerError, "failed to delete doctor")
		return
	}
	respond.OK(w, map[string]any{"deleted": true, "deactivated": soft})
}

func doctorIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "doctorID"), 10, 64)
	if err != nil || id < 1 {
		respond.Error(w, http.StatusBadRequest, "invalid doctor id")
		return 0, false
	}
	return id, true
}

func queryInt(r *http.Request, key string, def int) int {
	if raw := r.URL.Query().Get(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			return v
		}
	}
	return def
}
