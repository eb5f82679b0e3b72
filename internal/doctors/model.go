package doctors

import (
	"errors"
	"strings"
	"time"
)

// Doctor is a clinic practitioner patients can book with.
type Doctor struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Specialty string    `json:"specialty"`
	Location  string    `json:"location"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// ErrDoctorNotFound indicates the doctor id does not exist.
var ErrDoctorNotFound = errors.New("doctors: not found")

// UpsertRequest carries the admin create/update payload.
type UpsertRequest struct {
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
	Location  string `json:"location"`
	IsActive  *bool  `json:"isActive"`
}

// Validate checks required fields.
func (r *UpsertRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("doctors: name is required")
	}
	if strings.TrimSpace(r.Specialty) == "" {
		return errors.New("doctors: specialty is required")
	}
	return nil
}

// ListFilter narrows and pages the admin doctor list.
type ListFilter struct {
	Specialty  string
	ActiveOnly bool
	Page       int
	PageSize   int
}
