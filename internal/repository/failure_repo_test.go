package repository

import (
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"machine_efficiency/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestFailureAppend_Success_WithDefaults(t *testing.T) {
	t.Parallel()

	db, mock := newMock(t)
	repo := NewFailureSQLite(db)

	mock.ExpectExec(regexp.QuoteMeta(`
		INSERT INTO failures (id, machine_id, failure_type, timestamp, downtime_minutes, resolution)
		VALUES (?, ?, ?, ?, ?, ?)
	`)).
		WithArgs(sqlmock.AnyArg(), "M001", "Overheating", sqlmock.AnyArg(), 45.0, "Cooled down system").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Append(ctx(t), models.FailureLog{
		MachineID:       "M001",
		FailureType:     "  Overheating ",
		DowntimeMinutes: 45,
		Resolution:      "Cooled down system",
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestFailureAppend_DBError(t *testing.T) {
	t.Parallel()

	db, mock := newMock(t)
	repo := NewFailureSQLite(db)

	mock.ExpectExec("INSERT INTO failures").
		WillReturnError(errors.New("locked"))

	err := repo.Append(ctx(t), models.FailureLog{MachineID: "M001"})
	if err == nil || !strings.Contains(err.Error(), "locked") {
		t.Fatalf("expected error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestFailureList_WithFilters(t *testing.T) {
	t.Parallel()

	db, mock := newMock(t)
	repo := NewFailureSQLite(db)

	from := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 8, 31, 23, 59, 59, 0, time.UTC)

	query := `SELECT id, machine_id, failure_type, timestamp, downtime_minutes, resolution FROM failures WHERE machine_id = ? AND timestamp >= ? AND timestamp <= ? ORDER BY timestamp ASC`

	rows := sqlmock.NewRows([]string{"id", "machine_id", "failure_type", "timestamp", "downtime_minutes", "resolution"}).
		AddRow("f1", "M001", "Sensor Malfunction", from.Add(2*time.Hour), 30.0, "Cleaned sensors").
		AddRow("f2", "M001", "Material Jam", from.Add(26*time.Hour), 15.0, nil)

	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs("M001", from.UTC(), to.UTC()).
		WillReturnRows(rows)

	got, err := repo.List(ctx(t), RecordFilter{MachineID: "M001", From: from, To: to})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0].FailureID != "f1" || got[1].FailureID != "f2" {
		t.Fatalf("unexpected results: %+v", got)
	}
	if got[1].Resolution != "" {
		t.Fatalf("expected empty resolution, got %q", got[1].Resolution)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestFailureList_QueryError(t *testing.T) {
	t.Parallel()

	db, mock := newMock(t)
	repo := NewFailureSQLite(db)

	mock.ExpectQuery("SELECT id, machine_id, failure_type").
		WillReturnError(errors.New("down"))

	_, err := repo.List(ctx(t), RecordFilter{})
	if err == nil || !strings.Contains(err.Error(), "down") {
		t.Fatalf("expected error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}
