package calendar

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrEventNotFound is returned when no appointment matches the requested ID.
var ErrEventNotFound = errors.New("calendar event not found")

type pgxDB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository loads the joined appointment data needed to render an event.
type Repository struct {
	db       pgxDB
	location string
}

func NewRepository(pool *pgxpool.Pool, location string) *Repository {
	return &Repository{db: pool, location: location}
}

func NewRepositoryWithDB(db pgxDB, location string) *Repository {
	return &Repository{db: db, location: location}
}

func (r *Repository) EventByAppointmentID(ctx context.Context, appointmentID int64) (Event, error) {
	const q = `
		SELECT a.id, a.confirmation_code,
			to_char(a.date, 'YYYY-MM-DD'),
			to_char(a.time, 'HH24:MI:SS'),
			COALESCE(t.duration_minutes, 30),
			d.name, d.specialty,
			p.name, COALESCE(a.reason, '')
		FROM appointments a
		JOIN doctors d ON d.id = a.doctor_id
		JOIN patients p ON p.id = a.patient_id
		LEFT JOIN appointment_types t ON t.id = a.type_id
		WHERE a.id = $1`

	var ev Event
	err := r.db.QueryRow(ctx, q, appointmentID).Scan(
		&ev.AppointmentID, &ev.ConfirmationCode, &ev.Date, &ev.Time,
		&ev.DurationMinutes, &ev.DoctorName, &ev.Specialty,
		&ev.PatientName, &ev.Reason,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Event{}, ErrEventNotFound
	}
	if err != nil {
		return Event{}, err
	}
	ev.Location = r.location
	return ev, nil
}
