package calendar

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/oakpointclinic/booking-ai/internal/api/respond"
	"github.com/oakpointclinic/booking-ai/pkg/logging"
)

type Handler struct {
	repo   *Repository
	logger *logging.Logger
	now    func() time.Time
}

func NewHandler(repo *Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger, now: time.Now}
}

// Download serves the appointment as an .ics attachment.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "appointmentID"), 10, 64)
	if err != nil || id < 1 {
		respond.Error(w, http.StatusBadRequest, "invalid appointment id")
		return
	}

	ev, err := h.repo.EventByAppointmentID(r.Context(), id)
	if errors.Is(err, ErrEventNotFound) {
		respond.Error(w, http.StatusNotFound, "appointment not found")
		return
	}
	if err != nil {
		h.logger.Error("calendar lookup failed", "appointment_id", id, "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to load appointment")
		return
	}

	body, err := BuildICS(ev, h.now())
	if err != nil {
		h.logger.Error("calendar render failed", "appointment_id", id, "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to build calendar")
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=appointment-%d.ics", id))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}
