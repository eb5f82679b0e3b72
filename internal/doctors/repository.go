package doctors

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgxDB is the subset of pgxpool.Pool the repository needs; pgxmock satisfies
// it in tests.
type pgxDB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Repository persists doctors in Postgres.
type Repository struct {
	db pgxDB
}

// NewRepository creates a repository backed by a pgx pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	if pool == nil {
		panic("doctors: pgx pool required")
	}
	return &Repository{db: pool}
}

// NewRepositoryWithDB allows injecting a mock database for testing.
func NewRepositoryWithDB(db pgxDB) *Repository {
	return &Repository{db: db}
}

const doctorColumns = `id, name, specialty, location, is_active, created_at`

// List returns a page of doctors plus the unpaged total.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]Doctor, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	where := ` WHERE 1=1`
	args := []any{}
	idx := 1
	if filter.Specialty != "" {
		where += fmt.Sprintf(` AND specialty ILIKE $%d`, idx)
		args = append(args, filter.Specialty)
		idx++
	}
	if filter.ActiveOnly {
		where += ` AND is_active`
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM doctors`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("doctors: count: %w", err)
	}

	query := `SELECT ` + doctorColumns + ` FROM doctors` + where +
		fmt.Sprintf(` ORDER BY name LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, filter.PageSize, (filter.Page-1)*filter.PageSize)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("doctors: list: %w", err)
	}
	defer rows.Close()

	list, err := scanDoctors(rows)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListActive returns every active doctor, ordered by name.
func (r *Repository) ListActive(ctx context.Context) ([]Doctor, error) {
	rows, err := r.db.Query(ctx, `SELECT `+doctorColumns+` FROM doctors WHERE is_active ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("doctors: list active: %w", err)
	}
	defer rows.Close()
	return scanDoctors(rows)
}

// GetByID fetches a single doctor.
func (r *Repository) GetByID(ctx context.Context, id int64) (*Doctor, error) {
	row := r.db.QueryRow(ctx, `SELECT `+doctorColumns+` FROM doctors WHERE id = $1`, id)
	var d Doctor
	if err := row.Scan(&d.ID, &d.Name, &d.Specialty, &d.Location, &d.IsActive, &d.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDoctorNotFound
		}
		return nil, fmt.Errorf("doctors: select: %w", err)
	}
	return &d, nil
}

// Create inserts a new doctor and returns it.
func (r *Repository) Create(ctx context.Context, req *UpsertRequest) (*Doctor, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	d := Doctor{Name: req.Name, Specialty: req.Specialty, Location: req.Location, IsActive: active}
	err := r.db.QueryRow(ctx,
		`INSERT INTO doctors (name, specialty, location, is_active) VALUES ($1, $2, $3, $4) RETURNING id, created_at`,
		req.Name, req.Specialty, req.Location, active,
	).Scan(&d.ID, &d.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("doctors: insert: %w", err)
	}
	return &d, nil
}

// Update rewrites a doctor row.
func (r *Repository) Update(ctx context.Context, id int64, req *UpsertRequest) (*Doctor, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	row := r.db.QueryRow(ctx,
		`UPDATE doctors SET name = $1, specialty = $2, location = $3, is_active = $4
		 WHERE id = $5 RETURNING `+doctorColumns,
		req.Name, req.Specialty, req.Location, active, id,
	)
	var d Doctor
	if err := row.Scan(&d.ID, &d.Name, &d.Specialty, &d.Location, &d.IsActive, &d.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDoctorNotFound
		}
		return nil, fmt.Errorf("doctors: update: %w", err)
	}
	return &d, nil
}

// Delete removes a doctor. Doctors with future appointments are deactivated
// instead so booked patients keep a valid reference.
func (r *Repository) Delete(ctx context.Context, id int64) (softDeleted bool, err error) {
	var futureCount int64
	err = r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM appointments
		 WHERE doctor_id = $1 AND date >= CURRENT_DATE AND status IN ('scheduled','confirmed')`,
		id,
	).Scan(&futureCount)
	if err != nil {
		return false, fmt.Errorf("doctors: count future appointments: %w", err)
	}

	if futureCount > 0 {
		tag, err := r.db.Exec(ctx, `UPDATE doctors SET is_active = FALSE WHERE id = $1`, id)
		if err != nil {
			return false, fmt.Errorf("doctors: deactivate: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return false, ErrDoctorNotFound
		}
		return true, nil
	}

	tag, err := r.db.Exec(ctx, `DELETE FROM doctors WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("doctors: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, ErrDoctorNotFound
	}
	return false, nil
}

func scanDoctors(rows pgx.Rows) ([]Doctor, error) {
	var list []Doctor
	for rows.Next() {
		var d Doctor
		if err := rows.Scan(&d.ID, &d.Name, &d.Specialty, &d.Location, &d.IsActive, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("doctors: scan: %w", err)
		}
		list = append(list, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("doctors: rows: %w", err)
	}
	return list, nil
}
