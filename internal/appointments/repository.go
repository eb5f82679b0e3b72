package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pgxDB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Repository reads and mutates appointment rows.
type Repository struct {
	db pgxDB
}

// NewRepository creates a repository backed by a pgx pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	if pool == nil {
		panic("appointments: pgx pool required")
	}
	return &Repository{db: pool}
}

// NewRepositoryWithDB allows injecting a mock database for testing.
func NewRepositoryWithDB(db pgxDB) *Repository {
	return &Repository{db: db}
}

const listColumns = `a.id, a.patient_id, p.name, a.doctor_id, d.name,
	to_char(a.date, 'YYYY-MM-DD'), to_char(a.time, 'HH24:MI:SS'),
	a.status, a.reason, a.confirmation_code, a.created_at`

// List returns a filtered page of appointments with doctor and patient names.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]Appointment, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	where := ` WHERE 1=1`
	args := []any{}
	idx := 1
	if filter.DoctorID > 0 {
		where += fmt.Sprintf(` AND a.doctor_id = $%d`, idx)
		args = append(args, filter.DoctorID)
		idx++
	}
	if filter.Status != "" {
		where += fmt.Sprintf(` AND a.status = $%d`, idx)
		args = append(args, filter.Status)
		idx++
	}
	if filter.FromDate != "" {
		where += fmt.Sprintf(` AND a.date >= $%d`, idx)
		args = append(args, filter.FromDate)
		idx++
	}
	if filter.ToDate != "" {
		where += fmt.Sprintf(` AND a.date <= $%d`, idx)
		args = append(args, filter.ToDate)
		idx++
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM appointments a` + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("appointments: count: %w", err)
	}

	query := `SELECT ` + listColumns + `
		FROM appointments a
		JOIN patients p ON p.id = a.patient_id
		JOIN doctors d ON d.id = a.doctor_id` + where +
		fmt.Sprintf(` ORDER BY a.date DESC, a.time DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, filter.PageSize, (filter.Page-1)*filter.PageSize)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("appointments: list: %w", err)
	}
	defer rows.Close()

	var list []Appointment
	for rows.Next() {
		var a Appointment
		if err := rows.Scan(&a.ID, &a.PatientID, &a.PatientName, &a.DoctorID, &a.DoctorName,
			&a.Date, &a.Time, &a.Status, &a.Reason, &a.ConfirmationCode, &a.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("appointments: scan: %w", err)
		}
		list = append(list, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("appointments: rows: %w", err)
	}
	return list, total, nil
}

// GetStatus returns the current status of an appointment.
func (r *Repository) GetStatus(ctx context.Context, id int64) (string, error) {
	var status string
	err := r.db.QueryRow(ctx, `SELECT status FROM appointments WHERE id = $1`, id).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrAppointmentNotFound
		}
		return "", fmt.Errorf("appointments: select status: %w", err)
	}
	return status, nil
}

// UpdateStatus moves an appointment through its lifecycle. The transition is
// validated against the current stored status.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, to string) error {
	if !ValidStatus(to) {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, to)
	}
	current, err := r.GetStatus(ctx, id)
	if err != nil {
		return err
	}
	if !CanTransition(current, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, to)
	}
	tag, err := r.db.Exec(ctx, `UPDATE appointments SET status = $1 WHERE id = $2`, to, id)
	if err != nil {
		return fmt.Errorf("appointments: update status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}
