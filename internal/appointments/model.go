package appointments

import (
	"errors"
	"time"
)

// Statuses an appointment moves through. Only scheduled and confirmed count
// toward slot conflicts.
const (
	StatusScheduled = "scheduled"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusNoShow    = "no_show"
)

// ErrAppointmentNotFound indicates the appointment id does not exist.
var ErrAppointmentNotFound = errors.New("appointments: not found")

// ErrInvalidTransition indicates a status change the lifecycle does not allow.
var ErrInvalidTransition = errors.New("appointments: invalid status transition")

// Appointment joins the stored row with doctor and patient display names for
// the admin list.
type Appointment struct {
	ID               int64     `json:"id"`
	PatientID        int64     `json:"patientId"`
	PatientName      string    `json:"patientName"`
	DoctorID         int64     `json:"doctorId"`
	DoctorName       string    `json:"doctorName"`
	Date             string    `json:"date"`
	Time             string    `json:"time"`
	Status           string    `json:"status"`
	Reason           string    `json:"reason"`
	ConfirmationCode string    `json:"confirmationCode"`
	CreatedAt        time.Time `json:"createdAt"`
}

// ListFilter narrows and pages the admin appointment list.
type ListFilter struct {
	DoctorID int64
	Status   string
	FromDate string
	ToDate   string
	Page     int
	PageSize int
}

var transitions = map[string][]string{
	StatusScheduled: {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusNoShow, StatusCancelled},
}

// CanTransition reports whether the lifecycle allows moving from one status to
// another. Completed, cancelled and no-show are terminal.
func CanTransition(from, to string) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// ValidStatus reports whether s is a known appointment status.
func ValidStatus(s string) bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}
