package patients

import (
	"errors"
	"strings"
	"time"
)

// Patient is a clinic patient record, created on first booking.
type Patient struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"createdAt"`
}

// ErrPatientNotFound indicates the patient id or email does not exist.
var ErrPatientNotFound = errors.New("patients: not found")

// UpsertRequest carries the admin create/update payload.
type UpsertRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Validate checks required fields.
func (r *UpsertRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("patients: name is required")
	}
	if !strings.Contains(r.Email, "@") {
		return errors.New("patients: valid email is required")
	}
	return nil
}
