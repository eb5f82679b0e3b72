package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/oakpointclinic/booking-ai/internal/availability"
	"github.com/oakpointclinic/booking-ai/internal/doctors"
	"github.com/oakpointclinic/booking-ai/internal/notify"
	"github.com/oakpointclinic/booking-ai/internal/observability/metrics"
	"github.com/oakpointclinic/booking-ai/internal/patients"
	"github.com/oakpointclinic/booking-ai/pkg/logging"
)

const alternativeCount = 5

// slotChecker re-validates availability and proposes alternatives.
type slotChecker interface {
	IsSlotOpen(ctx context.Context, ref availability.Ref) (bool, error)
	Alternatives(ctx context.Context, doctorID int64, from time.Time, limit int) ([]availability.Slot, error)
}

// patientDirectory finds or creates the patient record for a booking.
type patientDirectory interface {
	FindOrCreateByEmail(ctx context.Context, name, email, phone string) (*patients.Patient, bool, error)
}

// doctorDirectory resolves doctor ids.
type doctorDirectory interface {
	GetByID(ctx context.Context, id int64) (*doctors.Doctor, error)
}

// appointmentWriter inserts the appointment row.
type appointmentWriter interface {
	Insert(ctx context.Context, patientID int64, ref availability.Ref, typeID int64, reason, confirmationCode string) (int64, error)
}

// Request is a direct booking submission.
type Request struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	DoctorID int64  `json:"doctorId"`
	TypeID   int64  `json:"appointmentTypeId"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Reason   string `json:"reason"`
}

// ErrInvalidRequest marks a submission with missing required fields.
var ErrInvalidRequest = errors.New("booking: invalid request")

// Validate reports the missing required fields, if any.
func (r *Request) Validate() error {
	var missing []string
	if strings.TrimSpace(r.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(r.Email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(r.Phone) == "" {
		missing = append(missing, "phone")
	}
	if r.DoctorID < 1 {
		missing = append(missing, "doctorId")
	}
	if strings.TrimSpace(r.Date) == "" {
		missing = append(missing, "date")
	}
	if strings.TrimSpace(r.Time) == "" {
		missing = append(missing, "time")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required fields: %s", ErrInvalidRequest, strings.Join(missing, ", "))
	}
	return nil
}

// Confirmation is returned for a successful booking.
type Confirmation struct {
	AppointmentID    int64            `json:"appointmentId"`
	ConfirmationCode string           `json:"confirmationId"`
	DoctorName       string           `json:"doctorName"`
	Slot             availability.Ref `json:"-"`
	Date             string           `json:"date"`
	Time             string           `json:"time"`
	PatientID        int64            `json:"patientId"`
	NewPatient       bool             `json:"newPatient"`
}

// ConflictError rejects a booking whose slot is no longer open and carries
// alternative open slots for the same doctor.
type ConflictError struct {
	Alternatives []availability.Slot
}

func (e *ConflictError) Error() string {
	return "booking: slot no longer available"
}

// Service runs the booking workflow: re-validate the slot, find or create the
// patient, insert the appointment, send the confirmation email.
type Service struct {
	slots    slotChecker
	patients patientDirectory
	doctors  doctorDirectory
	writer   appointmentWriter
	mailer   notify.EmailSender
	metrics  *metrics.BookingMetrics
	logger   *logging.Logger
	now      func() time.Time
}

// NewService wires the booking workflow. mailer and m may be nil.
func NewService(slots slotChecker, patientDir patientDirectory, doctorDir doctorDirectory, writer appointmentWriter, mailer notify.EmailSender, m *metrics.BookingMetrics, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		slots:    slots,
		patients: patientDir,
		doctors:  doctorDir,
		writer:   writer,
		mailer:   mailer,
		metrics:  m,
		logger:   logger,
		now:      time.Now,
	}
}

// Book validates and persists a booking. It returns ErrDoctorNotFound for an
// unknown doctor, a ConflictError when the slot is not open, and a
// Confirmation on success.
func (s *Service) Book(ctx context.Context, req *Request) (*Confirmation, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	clock, err := availability.NormalizeTime(req.Time)
	if err != nil {
		return nil, fmt.Errorf("booking: invalid time: %w", err)
	}
	ref := availability.Ref{DoctorID: req.DoctorID, Date: req.Date, Time: clock}
	if _, err := ref.Weekday(); err != nil {
		return nil, fmt.Errorf("booking: invalid date: %w", err)
	}

	doctor, err := s.doctors.GetByID(ctx, req.DoctorID)
	if err != nil {
		return nil, err
	}
	if !doctor.IsActive {
		// Soft-deleted doctors keep their history but take no new bookings.
		return nil, doctors.ErrDoctorNotFound
	}

	open, err := s.slots.IsSlotOpen(ctx, ref)
	if err != nil {
		s.metrics.ObserveBooking("error")
		return nil, err
	}
	if !open {
		return nil, s.conflict(ctx, ref.DoctorID)
	}

	patient, created, err := s.patients.FindOrCreateByEmail(ctx, req.Name, req.Email, req.Phone)
	if err != nil {
		s.metrics.ObserveBooking("error")
		return nil, err
	}

	code := uuid.NewString()
	apptID, err := s.writer.Insert(ctx, patient.ID, ref, req.TypeID, req.Reason, code)
	if err != nil {
		if errors.Is(err, ErrSlotTaken) {
			// Lost the race to a concurrent booking that passed the same
			// re-check; the unique index picked the winner.
			return nil, s.conflict(ctx, ref.DoctorID)
		}
		s.metrics.ObserveBooking("error")
		return nil, err
	}

	s.metrics.ObserveBooking("booked")
	s.logger.Info("appointment booked",
		"appointment_id", apptID,
		"doctor_id", ref.DoctorID,
		"date", ref.Date,
		"time", ref.Time,
		"new_patient", created,
	)

	if s.mailer != nil {
		msg := notify.BookingConfirmationEmail(patient.Name, patient.Email, doctor.Name, ref.Date, ref.Time, code)
		if err := s.mailer.Send(ctx, msg); err != nil {
			s.logger.Warn("confirmation email failed", "error", err, "appointment_id", apptID)
		}
	}

	return &Confirmation{
		AppointmentID:    apptID,
		ConfirmationCode: code,
		DoctorName:       doctor.Name,
		Slot:             ref,
		Date:             ref.Date,
		Time:             ref.Time,
		PatientID:        patient.ID,
		NewPatient:       created,
	}, nil
}

func (s *Service) conflict(ctx context.Context, doctorID int64) error {
	s.metrics.ObserveBooking("conflict")
	alts, err := s.slots.Alternatives(ctx, doctorID, s.now(), alternativeCount)
	if err != nil {
		s.logger.Warn("failed to load alternative slots", "error", err, "doctor_id", doctorID)
		alts = nil
	}
	return &ConflictError{Alternatives: alts}
}
