package booking

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/oakpointclinic/booking-ai/internal/api/respond"
	"github.com/oakpointclinic/booking-ai/internal/doctors"
	"github.com/oakpointclinic/booking-ai/pkg/logging"
)

// Handler exposes the direct (non-conversational) booking endpoint.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a booking handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// conflictPayload is the 200 success:false body carrying alternatives so the
// client can render them inline.
type conflictPayload struct {
	Success      bool   `json:"success"`
	Available    bool   `json:"available"`
	Message      string `json:"message"`
	Alternatives []any  `json:"alternatives"`
}

// Book handles POST /api/book-appointment.
func (h *Handler) Book(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	confirmation, err := h.service.Book(r.Context(), &req)
	if err != nil {
		var conflict *ConflictError
		switch {
		case errors.Is(err, doctors.ErrDoctorNotFound):
			respond.Error(w, http.StatusNotFound, "doctor not found")
		case errors.As(err, &conflict):
			WriteConflict(w, conflict)
		default:
			h.logger.Error("booking failed", "error", err)
			respond.Error(w, http.StatusInternalServerError, "booking failed")
		}
		return
	}
	respond.OK(w, confirmation)
}

// WriteConflict renders the shared conflict shape: HTTP 200 with
// success:false, available:false, and alternative open slots.
func WriteConflict(w http.ResponseWriter, conflict *ConflictError) {
	alts := make([]any, 0, len(conflict.Alternatives))
	for _, s := range conflict.Alternatives {
		alts = append(alts, s)
	}
	respond.JSON(w, http.StatusOK, conflictPayload{
		Success:      false,
		Available:    false,
		Message:      "That time was just taken. Here are the next open times.",
		Alternatives: alts,
	})
}
