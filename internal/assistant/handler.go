package assistant

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/oakpointclinic/booking-ai/internal/api/respond"
	"github.com/oakpointclinic/booking-ai/internal/availability"
	"github.com/oakpointclinic/booking-ai/internal/booking"
	"github.com/oakpointclinic/booking-ai/internal/doctors"
	"github.com/oakpointclinic/booking-ai/pkg/logging"
)

// chatEnvelope wraps every conversational reply.
type chatEnvelope struct {
	Success  bool     `json:"success"`
	Response Response `json:"response"`
}

type Handler struct {
	svc    *Service
	logger *logging.Logger
}

func NewHandler(svc *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

func writeChat(w http.ResponseWriter, success bool, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(chatEnvelope{Success: success, Response: resp})
}

// Chat handles POST /api/chat.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		respond.Error(w, http.StatusBadRequest, "message is required")
		return
	}

	resp, err := h.svc.Chat(r.Context(), req)
	if err != nil {
		h.logger.Error("chat turn failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to process message")
		return
	}
	writeChat(w, true, resp)
}

// SelectDoctor handles POST /api/select-doctor.
func (h *Handler) SelectDoctor(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DoctorID int64 `json:"doctorId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.DoctorID < 1 {
		respond.Error(w, http.StatusBadRequest, "doctorId is required")
		return
	}

	resp, err := h.svc.SelectDoctor(r.Context(), req.DoctorID)
	if err != nil {
		h.logger.Error("select doctor failed", "doctor_id", req.DoctorID, "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to load doctor availability")
		return
	}
	writeChat(w, true, resp)
}

// SelectAppointment handles POST /api/select-appointment.
func (h *Handler) SelectAppointment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AppointmentData string `json:"appointmentData"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, ok, err := h.svc.SelectAppointment(r.Context(), req.AppointmentData)
	if errors.Is(err, availability.ErrBadSlotRef) {
		respond.Error(w, http.StatusBadRequest, "invalid appointment reference")
		return
	}
	if err != nil {
		h.logger.Error("select appointment failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to load slot")
		return
	}
	writeChat(w, ok, resp)
}

// CompleteBooking handles POST /api/complete-booking.
func (h *Handler) CompleteBooking(w http.ResponseWriter, r *http.Request) {
	var req CompleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, ok, err := h.svc.CompleteBooking(r.Context(), req)
	switch {
	case errors.Is(err, availability.ErrBadSlotRef):
		respond.Error(w, http.StatusBadRequest, "invalid appointment reference")
		return
	case errors.Is(err, doctors.ErrDoctorNotFound):
		respond.Error(w, http.StatusNotFound, "doctor not found")
		return
	case errors.Is(err, booking.ErrInvalidRequest):
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		h.logger.Error("complete booking failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to complete booking")
		return
	}
	writeChat(w, ok, resp)
}
