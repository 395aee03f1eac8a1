package repository

import (
	"context"
	"database/sql"
	"time"

	"machine_efficiency/internal/models"
)

// RecordFilter scopes log/failure reads by machine and date range.
// Zero-valued fields mean "no constraint".
type RecordFilter struct {
	MachineID string
	From      time.Time
	To        time.Time
}

type Authorization interface {
	Create(username, hash string) (int, error)
	GetByUsername(username string) (*models.User, error)
}

type MachineRepo interface {
	Save(ctx context.Context, m models.Machine) error
	GetByID(ctx context.Context, machineID string) (*models.Machine, error)
	List(ctx context.Context) ([]models.Machine, error)
	Delete(ctx context.Context, machineID string) error
}

type LogRepo interface {
	Append(ctx context.Context, l models.StatusLog) error
	List(ctx context.Context, f RecordFilter) ([]models.StatusLog, error)
}

type FailureRepo interface {
	Append(ctx context.Context, f models.FailureLog) error
	List(ctx context.Context, f RecordFilter) ([]models.FailureLog, error)
}

type Repository struct {
	Machines MachineRepo
	Logs     LogRepo
	Failures FailureRepo
	Auth     Authorization
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Machines: NewMachineSQLite(db),
		Logs:     NewLogSQLite(db),
		Failures: NewFailureSQLite(db),
		Auth:     NewUserRepository(db),
	}
}
