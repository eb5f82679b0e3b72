package patients

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/oakpointclinic/booking-ai/internal/api/respond"
	"github.com/oakpointclinic/booking-ai/pkg/logging"
)

// Handler exposes the admin patient endpoints.
type Handler struct {
	repo   *Repository
	logger *logging.Logger
}

// NewHandler creates a patients handler.
func NewHandler(repo *Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

// List handles GET /api/admin/patients.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	pageSize := queryInt(r, "pageSize", 20)
	list, total, err := h.repo.List(r.Context(), r.URL.Query().Get("search"), page, pageSize)
	if err != nil {
		h.logger.Error("failed to list patients", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to list patients")
		return
	}
	respond.Page(w, list, respond.Pagination{Page: page, PageSize: pageSize, Total: total})
}

// Create handles POST /api/admin/patients.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req UpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	patient, err := h.repo.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create patient", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to create patient")
		return
	}
	respond.Created(w, patient)
}

// Update handles PUT /api/admin/patients/{patientID}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "patientID"), 10, 64)
	if err != nil || id < 1 {
		respond.Error(w, http.StatusBadRequest, "invalid patient id")
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
	patient, err := h.repo.Update(r.Context(), id, &req)
	if err != nil {
		if errors.Is(err, ErrPatientNotFound) {
			respond.Error(w, http.StatusNotFound, "patient not found")
			return
		}
		h.logger.Error("failed to update patient", "error", err, "id", id)
		respond.Error(w, http.StatusInternalServerError, "failed to update patient")
		return
	}
	respond.OK(w, patient)
}

func queryInt(r *http.Request, key string, def int) int {
	if raw := r.URL.Query().Get(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			return v
		}
	}
	return def
}
