package patients

import (
	"context"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
)

func TestFindOrCreateByEmail_ReusesExistingPatient(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	created := time.Now().UTC()
	mock.ExpectQuery(`SELECT id, name, email, phone, created_at FROM patients WHERE lower\(email\) = \$1`).
		WithArgs("jane@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "email", "phone", "created_at"}).
			AddRow(int64(12), "Jane Roe", "jane@example.com", "555-0101", created))

	repo := NewRepositoryWithDB(mock)
	patient, createdNew, err := repo.FindOrCreateByEmail(context.Background(), "Jane Roe", "Jane@Example.com", "555-0101")
	if err != nil {
		t.Fatalf("FindOrCreateByEmail failed: %v", err)
	}
	if createdNew {
		t.Error("expected existing patient to be reused, not created")
	}
	if patient.ID != 12 {
		t.Errorf("expected existing patient id 12, got %d", patient.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestFindOrCreateByEmail_CreatesNewPatient(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	created := time.Now().UTC()
	mock.ExpectQuery(`SELECT id, name, email, phone, created_at FROM patients WHERE lower\(email\) = \$1`).
		WithArgs("new@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "email", "phone", "created_at"}))
	mock.ExpectQuery(`INSERT INTO patients \(name, email, phone\) VALUES \(\$1, \$2, \$3\) RETURNING id, created_at`).
		WithArgs("New Patient", "new@example.com", "555-0102").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(42), created))

	repo := NewRepositoryWithDB(mock)
	patient, createdNew, err := repo.FindOrCreateByEmail(context.Background(), "New Patient", "new@example.com", "555-0102")
	if err != nil {
		t.Fatalf("FindOrCreateByEmail failed: %v", err)
	}
	if !createdNew {
		t.Error("expected a new patient record")
	}
	if patient.ID != 42 {
		t.Errorf("expected new patient id 42, got %d", patient.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestFindOrCreateByEmail_RequiresEmail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	repo := NewRepositoryWithDB(mock)
	if _, _, err := repo.FindOrCreateByEmail(context.Background(), "No Email", "  ", ""); err == nil {
		t.Fatal("expected error for empty email")
	}
}
