package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"machine_efficiency/internal/models"

	"github.com/google/uuid"
)

type FailureSQLite struct {
	db *sql.DB
}

func NewFailureSQLite(db *sql.DB) *FailureSQLite { return &FailureSQLite{db: db} }

var _ FailureRepo = (*FailureSQLite)(nil)

// Append inserts a new failure record. If FailureID or Timestamp are
// empty, they're set.
func (r *FailureSQLite) Append(ctx context.Context, f models.FailureLog) error {
	if f.FailureID == "" {
		f.FailureID = uuid.NewString()
	}
	if f.Timestamp.IsZero() {
		f.Timestamp = time.Now().UTC()
	} else {
		f.Timestamp = f.Timestamp.UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO failures (id, machine_id, failure_type, timestamp, downtime_minutes, resolution)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		f.FailureID,
		f.MachineID,
		strings.TrimSpace(f.FailureType),
		f.Timestamp.Format(sqliteTimeLayout),
		f.DowntimeMinutes,
		f.Resolution,
	)

	return err
}

// List returns failures matching the filter, ordered by timestamp ASC.
func (r *FailureSQLite) List(ctx context.Context, filter RecordFilter) ([]models.FailureLog, error) {
	conds, args := buildRecordConds(filter)

	q := `SELECT id, machine_id, failure_type, timestamp, downtime_minutes, resolution FROM failures`
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY timestamp ASC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.FailureLog, 0, 32)
	for rows.Next() {
		var (
			f          models.FailureLog
			resolution sql.NullString
		)
		if err := rows.Scan(&f.FailureID, &f.MachineID, &f.FailureType, &f.Timestamp, &f.DowntimeMinutes, &resolution); err != nil {
			return nil, err
		}
		f.Timestamp = f.Timestamp.UTC()
		f.Resolution = resolution.String
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
