package doctors

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
)

func TestRepository_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	created := time.Now().UTC()
	mock.ExpectQuery(`SELECT id, name, specialty, location, is_active, created_at FROM doctors WHERE id = \$1`).
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "specialty", "location", "is_active", "created_at"}).
			AddRow(int64(7), "Dr. Maya Chen", "Cardiology", "Suite 210", true, created))

	repo := NewRepositoryWithDB(mock)
	doctor, err := repo.GetByID(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if doctor.Name != "Dr. Maya Chen" || doctor.Specialty != "Cardiology" {
		t.Errorf("unexpected doctor: %+v", doctor)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT id, name, specialty, location, is_active, created_at FROM doctors WHERE id = \$1`).
		WithArgs(int64(99)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "specialty", "location", "is_active", "created_at"}))

	repo := NewRepositoryWithDB(mock)
	if _, err := repo.GetByID(context.Background(), 99); !errors.Is(err, ErrDoctorNotFound) {
		t.Fatalf("expected ErrDoctorNotFound, got %v", err)
	}
}

func TestRepository_Delete_SoftDeletesWithFutureAppointments(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM appointments`).
		WithArgs(int64(3)).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(2)))
	mock.ExpectExec(`UPDATE doctors SET is_active = FALSE WHERE id = \$1`).
		WithArgs(int64(3)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	repo := NewRepositoryWithDB(mock)
	soft, err := repo.Delete(context.Background(), 3)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if !soft {
		t.Error("expected soft delete when future appointments exist")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRepository_Delete_HardDeletesWithoutFutureAppointments(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM appointments`).
		WithArgs(int64(4)).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(0)))
	mock.ExpectExec(`DELETE FROM doctors WHERE id = \$1`).
		WithArgs(int64(4)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	repo := NewRepositoryWithDB(mock)
	soft, err := repo.Delete(context.Background(), 4)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if soft {
		t.Error("expected hard delete when no future appointments exist")
	}
}

func TestRepository_Create_RequiresName(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	repo := NewRepositoryWithDB(mock)
	if _, err := repo.Create(context.Background(), &UpsertRequest{Specialty: "Dermatology"}); err == nil {
		t.Fatal("expected validation error for missing name")
	}
}
