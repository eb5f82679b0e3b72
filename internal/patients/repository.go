package patients

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pgxDB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Repository persists patients in Postgres.
type Repository struct {
	db pgxDB
}

// NewRepository creates a repository backed by a pgx pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	if pool == nil {
		panic("patients: pgx pool required")
	}
	return &Repository{db: pool}
}

// NewRepositoryWithDB allows injecting a mock database for testing.
func NewRepositoryWithDB(db pgxDB) *Repository {
	return &Repository{db: db}
}

const patientColumns = `id, name, email, phone, created_at`

// FindOrCreateByEmail reuses the patient with the given email or inserts a new
// record. Emails are matched case-insensitively and stored lowercased so the
// same address never produces duplicate rows.
func (r *Repository) FindOrCreateByEmail(ctx context.Context, name, email, phone string) (*Patient, bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, false, errors.New("patients: email is required")
	}

	var p Patient
	err := r.db.QueryRow(ctx, `SELECT `+patientColumns+` FROM patients WHERE lower(email) = $1`, email).
		Scan(&p.ID, &p.Name, &p.Email, &p.Phone, &p.CreatedAt)
	if err == nil {
		return &p, false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, fmt.Errorf("patients: lookup by email: %w", err)
	}

	p = Patient{Name: name, Email: email, Phone: phone}
	err = r.db.QueryRow(ctx,
		`INSERT INTO patients (name, email, phone) VALUES ($1, $2, $3) RETURNING id, created_at`,
		name, email, phone,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return nil, false, fmt.Errorf("patients: insert: %w", err)
	}
	return &p, true, nil
}

// GetByID fetches a single patient.
func (r *Repository) GetByID(ctx context.Context, id int64) (*Patient, error) {
	var p Patient
	err := r.db.QueryRow(ctx, `SELECT `+patientColumns+` FROM patients WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Email, &p.Phone, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPatientNotFound
		}
		return nil, fmt.Errorf("patients: select: %w", err)
	}
	return &p, nil
}

// List returns a page of patients plus the unpaged total. An optional search
// term matches name or email.
func (r *Repository) List(ctx context.Context, search string, page, pageSize int) ([]Patient, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	where := ``
	args := []any{}
	idx := 1
	if search = strings.TrimSpace(search); search != "" {
		where = fmt.Sprintf(` WHERE name ILIKE $%d OR email ILIKE $%d`, idx, idx)
		args = append(args, "%"+search+"%")
		idx++
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM patients`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("patients: count: %w", err)
	}

	query := `SELECT ` + patientColumns + ` FROM patients` + where +
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("patients: list: %w", err)
	}
	defer rows.Close()

	var list []Patient
	for rows.Next() {
		var p Patient
		if err := rows.Scan(&p.ID, &p.Name, &p.Email, &p.Phone, &p.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("patients: scan: %w", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("patients: rows: %w", err)
	}
	return list, total, nil
}

// Create inserts a patient from the admin surface.
func (r *Repository) Create(ctx context.Context, req *UpsertRequest) (*Patient, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	p := Patient{Name: req.Name, Email: strings.ToLower(req.Email), Phone: req.Phone}
	err := r.db.QueryRow(ctx,
		`INSERT INTO patients (name, email, phone) VALUES ($1, $2, $3) RETURNING id, created_at`,
		p.Name, p.Email, p.Phone,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("patients: insert: %w", err)
	}
	return &p, nil
}

// Update rewrites a patient row.
func (r *Repository) Update(ctx context.Context, id int64, req *UpsertRequest) (*Patient, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	row := r.db.QueryRow(ctx,
		`UPDATE patients SET name = $1, email = $2, phone = $3 WHERE id = $4 RETURNING `+patientColumns,
		req.Name, strings.ToLower(req.Email), req.Phone, id,
	)
	var p Patient
	if err := row.Scan(&p.ID, &p.Name, &p.Email, &p.Phone, &p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPatientNotFound
		}
		return nil, fmt.Errorf("patients: update: %w", err)
	}
	return &p, nil
}
