package booking

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"

	"github.com/oakpointclinic/booking-ai/internal/availability"
)

func TestInsert_ReturnsAppointmentID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	ref := availability.Ref{DoctorID: 1, Date: "2025-09-16", Time: "14:00:00"}
	mock.ExpectQuery(`INSERT INTO appointments`).
		WithArgs(int64(12), int64(1), int64(1), "2025-09-16", "14:00:00", "checkup", "code-1").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(301)))

	repo := NewRepositoryWithDB(mock)
	id, err := repo.Insert(context.Background(), 12, ref, 0, "checkup", "code-1")
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if id != 301 {
		t.Errorf("expected id 301, got %d", id)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestInsert_MapsUniqueViolationToErrSlotTaken(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	ref := availability.Ref{DoctorID: 1, Date: "2025-09-16", Time: "14:00:00"}
	mock.ExpectQuery(`INSERT INTO appointments`).
		WithArgs(int64(12), int64(1), int64(1), "2025-09-16", "14:00:00", "", "code-2").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "uq_appointments_active_slot"})

	repo := NewRepositoryWithDB(mock)
	_, err = repo.Insert(context.Background(), 12, ref, 1, "", "code-2")
	if !errors.Is(err, ErrSlotTaken) {
		t.Fatalf("expected ErrSlotTaken, got %v", err)
	}
}
