// Package handlers hosts the HTTP endpoints that sit outside the core
// booking packages: the admin overview and the public landing page.
package handlers

import (
	"database/sql"
	"net/http"

	"github.com/oakpointclinic/booking-ai/internal/api/respond"
	"github.com/oakpointclinic/booking-ai/pkg/logging"
)

// AdminStatsHandler serves the admin dashboard overview counters.
type AdminStatsHandler struct {
	db     *sql.DB
	logger *logging.Logger
}

func NewAdminStatsHandler(db *sql.DB, logger *logging.Logger) *AdminStatsHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &AdminStatsHandler{db: db, logger: logger}
}

// StatsResponse contains the dashboard overview counters.
type StatsResponse struct {
	Appointments AppointmentStats `json:"appointments"`
	Patients     PatientStats     `json:"patients"`
	Doctors      DoctorStats      `json:"doctors"`
}

type AppointmentStats struct {
	Total     int `json:"total"`
	Today     int `json:"today"`
	Upcoming  int `json:"upcoming"`
	Cancelled int `json:"cancelled"`
}

type PatientStats struct {
	Total int `json:"total"`
}

type DoctorStats struct {
	Active int `json:"active"`
}

// GetStats returns the dashboard overview.
// GET /api/admin/stats
func (h *AdminStatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	var stats StatsResponse

	// Each counter is best effort so one failed query does not blank
	// the whole dashboard.
	h.db.QueryRowContext(r.Context(),
		`SELECT COUNT(*) FROM appointments`,
	).Scan(&stats.Appointments.Total)

	h.db.QueryRowContext(r.Context(),
		`SELECT COUNT(*) FROM appointments WHERE date = CURRENT_DATE AND status IN ('scheduled', 'confirmed')`,
	).Scan(&stats.Appointments.Today)

	h.db.QueryRowContext(r.Context(),
		`SELECT COUNT(*) FROM appointments WHERE date > CURRENT_DATE AND status IN ('scheduled', 'confirmed')`,
	).Scan(&stats.Appointments.Upcoming)

	h.db.QueryRowContext(r.Context(),
		`SELECT COUNT(*) FROM appointments WHERE status = 'cancelled'`,
	).Scan(&stats.Appointments.Cancelled)

	h.db.QueryRowContext(r.Context(),
		`SELECT COUNT(*) FROM patients`,
	).Scan(&stats.Patients.Total)

	h.db.QueryRowContext(r.Context(),
		`SELECT COUNT(*) FROM doctors WHERE is_active`,
	).Scan(&stats.Doctors.Active)

	respond.OK(w, stats)
}
