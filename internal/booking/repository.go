package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oakpointclinic/booking-ai/internal/availability"
)

// ErrSlotTaken indicates the store rejected the insert because another active
// appointment already holds the slot.
var ErrSlotTaken = errors.New("booking: slot already taken")

type pgxDB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository inserts appointment rows.
type Repository struct {
	db pgxDB
}

// NewRepository creates a repository backed by a pgx pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	if pool == nil {
		panic("booking: pgx pool required")
	}
	return &Repository{db: pool}
}

// NewRepositoryWithDB allows injecting a mock database for testing.
func NewRepositoryWithDB(db pgxDB) *Repository {
	return &Repository{db: db}
}

// Insert creates a scheduled appointment and returns its id. A unique
// violation on the active-slot index is mapped to ErrSlotTaken so concurrent
// bookings that both passed the availability re-check still resolve to a
// single winner.
func (r *Repository) Insert(ctx context.Context, patientID int64, ref availability.Ref, typeID int64, reason, confirmationCode string) (int64, error) {
	if typeID < 1 {
		typeID = 1
	}
	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO appointments (patient_id, doctor_id, type_id, date, time, status, reason, confirmation_code)
		 VALUES ($1, $2, $3, $4, $5, 'scheduled', $6, $7)
		 RETURNING id`,
		patientID, ref.DoctorID, typeID, ref.Date, ref.Time, reason, confirmationCode,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, ErrSlotTaken
		}
		return 0, fmt.Errorf("booking: insert appointment: %w", err)
	}
	return id, nil
}
