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

func TestMachineSave_Upsert(t *testing.T) {
	t.Parallel()

	db, mock := newMock(t)
	repo := NewMachineSQLite(db)

	mock.ExpectExec(regexp.QuoteMeta(`
		INSERT OR REPLACE INTO machines (machine_id, machine_name, machine_type, location, created_at)
		VALUES (?, ?, ?, ?, ?)
	`)).
		WithArgs("M001", "CNC Machine 1", "CNC", "Floor A, Section 1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Save(ctx(t), models.Machine{
		MachineID:   "M001",
		MachineName: "CNC Machine 1",
		MachineType: "CNC",
		Location:    "Floor A, Section 1",
		// CreatedAt zero -> repo sets UTC now
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestMachineGetByID_NotFound(t *testing.T) {
	t.Parallel()

	db, mock := newMock(t)
	repo := NewMachineSQLite(db)

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT machine_id, machine_name, machine_type, location, created_at
		FROM machines WHERE machine_id = ?
	`)).
		WithArgs("M404").
		WillReturnRows(sqlmock.NewRows([]string{"machine_id", "machine_name", "machine_type", "location", "created_at"}))

	m, err := repo.GetByID(ctx(t), "M404")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if m != nil {
		t.Fatalf("expected nil machine, got %+v", m)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestMachineList(t *testing.T) {
	t.Parallel()

	db, mock := newMock(t)
	repo := NewMachineSQLite(db)

	created := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"machine_id", "machine_name", "machine_type", "location", "created_at"}).
		AddRow("M001", "CNC Machine 1", "CNC", "Floor A", created).
		AddRow("M002", "Press Machine 2", "Press", "Floor B", created)

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT machine_id, machine_name, machine_type, location, created_at
		FROM machines ORDER BY machine_id ASC
	`)).
		WillReturnRows(rows)

	got, err := repo.List(ctx(t))
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0].MachineID != "M001" || got[1].MachineID != "M002" {
		t.Fatalf("unexpected machines: %+v", got)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestMachineDelete_CascadesInTransaction(t *testing.T) {
	t.Parallel()

	db, mock := newMock(t)
	repo := NewMachineSQLite(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM machine_logs WHERE machine_id = ?`)).
		WithArgs("M001").WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM failures WHERE machine_id = ?`)).
		WithArgs("M001").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM machines WHERE machine_id = ?`)).
		WithArgs("M001").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.Delete(ctx(t), "M001"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestMachineDelete_RollsBackOnError(t *testing.T) {
	t.Parallel()

	db, mock := newMock(t)
	repo := NewMachineSQLite(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM machine_logs WHERE machine_id = ?`)).
		WithArgs("M001").WillReturnError(errors.New("locked"))
	mock.ExpectRollback()

	err := repo.Delete(ctx(t), "M001")
	if err == nil || !strings.Contains(err.Error(), "locked") {
		t.Fatalf("expected error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}
