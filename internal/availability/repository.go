package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pgxDB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository loads availability inputs and answers slot queries.
type Repository struct {
	db pgxDB
}

// NewRepository creates a repository backed by a pgx pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	if pool == nil {
		panic("availability: pgx pool required")
	}
	return &Repository{db: pool}
}

// NewRepositoryWithDB allows injecting a mock database for testing.
func NewRepositoryWithDB(db pgxDB) *Repository {
	return &Repository{db: db}
}

// WindowsForDoctor loads the doctor's active recurring windows.
func (r *Repository) WindowsForDoctor(ctx context.Context, doctorID int64) ([]Window, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, doctor_id, day_of_week, to_char(start_time, 'HH24:MI:SS'), to_char(end_time, 'HH24:MI:SS'), is_active
		 FROM availability_windows
		 WHERE doctor_id = $1 AND is_active
		 ORDER BY day_of_week, start_time`,
		doctorID,
	)
	if err != nil {
		return nil, fmt.Errorf("availability: load windows: %w", err)
	}
	defer rows.Close()

	var windows []Window
	for rows.Next() {
		var w Window
		var dow int
		if err := rows.Scan(&w.ID, &w.DoctorID, &dow, &w.StartTime, &w.EndTime, &w.IsActive); err != nil {
			return nil, fmt.Errorf("availability: scan window: %w", err)
		}
		w.DayOfWeek = time.Weekday(dow)
		windows = append(windows, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("availability: window rows: %w", err)
	}
	return windows, nil
}

// takenSlots loads (date, time) pairs held by non-cancelled appointments in
// the inclusive date range.
func (r *Repository) takenSlots(ctx context.Context, doctorID int64, fromDate, toDate string) ([]TakenSlot, error) {
	rows, err := r.db.Query(ctx,
		`SELECT to_char(date, 'YYYY-MM-DD'), to_char(time, 'HH24:MI:SS')
		 FROM appointments
		 WHERE doctor_id = $1 AND date BETWEEN $2 AND $3 AND status IN ('scheduled','confirmed')`,
		doctorID, fromDate, toDate,
	)
	if err != nil {
		return nil, fmt.Errorf("availability: load appointments: %w", err)
	}
	defer rows.Close()

	var taken []TakenSlot
	for rows.Next() {
		var ts TakenSlot
		if err := rows.Scan(&ts.Date, &ts.Time); err != nil {
			return nil, fmt.Errorf("availability: scan appointment: %w", err)
		}
		taken = append(taken, ts)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("availability: appointment rows: %w", err)
	}
	return taken, nil
}

// blocksInRange loads blocked ranges for the inclusive date range.
func (r *Repository) blocksInRange(ctx context.Context, doctorID int64, fromDate, toDate string) ([]Block, error) {
	rows, err := r.db.Query(ctx,
		`SELECT to_char(date, 'YYYY-MM-DD'), to_char(start_time, 'HH24:MI:SS'), to_char(end_time, 'HH24:MI:SS')
		 FROM blocked_slots
		 WHERE doctor_id = $1 AND date BETWEEN $2 AND $3`,
		doctorID, fromDate, toDate,
	)
	if err != nil {
		return nil, fmt.Errorf("availability: load blocks: %w", err)
	}
	defer rows.Close()

	var blocks []Block
	for rows.Next() {
		var b Block
		if err := rows.Scan(&b.Date, &b.StartTime, &b.EndTime); err != nil {
			return nil, fmt.Errorf("availability: scan block: %w", err)
		}
		blocks = append(blocks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("availability: block rows: %w", err)
	}
	return blocks, nil
}

// OpenSlots computes the doctor's open slots over a rolling window of days
// starting at from. A doctor with no active windows yields an empty set.
func (r *Repository) OpenSlots(ctx context.Context, doctorID int64, from time.Time, days, limit int) ([]Slot, error) {
	if days <= 0 {
		days = DefaultWindowDays
	}
	windows, err := r.WindowsForDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if len(windows) == 0 {
		return []Slot{}, nil
	}

	fromDate := from.Format(dateLayout)
	toDate := from.AddDate(0, 0, days-1).Format(dateLayout)
	taken, err := r.takenSlots(ctx, doctorID, fromDate, toDate)
	if err != nil {
		return nil, err
	}
	blocks, err := r.blocksInRange(ctx, doctorID, fromDate, toDate)
	if err != nil {
		return nil, err
	}

	return ComputeOpenSlots(doctorID, windows, taken, blocks, from, days, limit), nil
}

// IsSlotOpen re-validates a single slot at booking time: the requested time
// must fall inside an active window for that weekday (bounds inclusive), must
// not be held by a non-cancelled appointment, and must not sit inside a
// blocked range.
func (r *Repository) IsSlotOpen(ctx context.Context, ref Ref) (bool, error) {
	weekday, err := ref.Weekday()
	if err != nil {
		return false, err
	}

	var windowCount int64
	err = r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM availability_windows
		 WHERE doctor_id = $1 AND day_of_week = $2 AND is_active
		   AND start_time <= $3 AND end_time >= $3`,
		ref.DoctorID, int(weekday), ref.Time,
	).Scan(&windowCount)
	if err != nil {
		return false, fmt.Errorf("availability: check window: %w", err)
	}
	if windowCount == 0 {
		return false, nil
	}

	var heldCount int64
	err = r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM appointments
		 WHERE doctor_id = $1 AND date = $2 AND time = $3 AND status IN ('scheduled','confirmed')`,
		ref.DoctorID, ref.Date, ref.Time,
	).Scan(&heldCount)
	if err != nil {
		return false, fmt.Errorf("availability: check appointment: %w", err)
	}
	if heldCount > 0 {
		return false, nil
	}

	var blockCount int64
	err = r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM blocked_slots
		 WHERE doctor_id = $1 AND date = $2 AND start_time <= $3 AND end_time >= $3`,
		ref.DoctorID, ref.Date, ref.Time,
	).Scan(&blockCount)
	if err != nil {
		return false, fmt.Errorf("availability: check block: %w", err)
	}
	return blockCount == 0, nil
}

// Alternatives returns the next few open slots for a doctor, used when a
// requested slot turns out to be taken.
func (r *Repository) Alternatives(ctx context.Context, doctorID int64, from time.Time, limit int) ([]Slot, error) {
	if limit <= 0 {
		limit = 5
	}
	return r.OpenSlots(ctx, doctorID, from, DefaultWindowDays, limit)
}
