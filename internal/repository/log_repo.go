package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"machine_efficiency/internal/models"

	"github.com/google/uuid"
)

// SQLite TIMESTAMP format "YYYY-MM-DD HH:MM:SS"
const sqliteTimeLayout = "2006-01-02 15:04:05"

type LogSQLite struct {
	db *sql.DB
}

func NewLogSQLite(db *sql.DB) *LogSQLite { return &LogSQLite{db: db} }

var _ LogRepo = (*LogSQLite)(nil)

// Append inserts a new status log. If LogID or Timestamp are empty,
// they're set.
func (r *LogSQLite) Append(ctx context.Context, l models.StatusLog) error {
	if l.LogID == "" {
		l.LogID = uuid.NewString()
	}
	if l.Timestamp.IsZero() {
		l.Timestamp = time.Now().UTC()
	} else {
		l.Timestamp = l.Timestamp.UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO machine_logs (id, machine_id, status, timestamp, duration_minutes, production_count, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		l.LogID,
		l.MachineID,
		strings.ToUpper(strings.TrimSpace(l.Status)),
		l.Timestamp.Format(sqliteTimeLayout),
		l.DurationMinutes,
		l.ProductionCount,
		l.Notes,
	)

	return err
}

// List returns status logs matching the filter, ordered by timestamp ASC.
func (r *LogSQLite) List(ctx context.Context, f RecordFilter) ([]models.StatusLog, error) {
	conds, args := buildRecordConds(f)

	q := `SELECT id, machine_id, status, timestamp, duration_minutes, production_count, notes FROM machine_logs`
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY timestamp ASC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.StatusLog, 0, 64)
	for rows.Next() {
		var (
			l     models.StatusLog
			notes sql.NullString
		)
		if err := rows.Scan(&l.LogID, &l.MachineID, &l.Status, &l.Timestamp, &l.DurationMinutes, &l.ProductionCount, &notes); err != nil {
			return nil, err
		}
		l.Timestamp = l.Timestamp.UTC()
		l.Notes = notes.String
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// buildRecordConds turns a RecordFilter into WHERE fragments and args,
// shared by log and failure queries (both tables use the same columns).
func buildRecordConds(f RecordFilter) ([]string, []any) {
	var (
		conds []string
		args  []any
	)

	if id := strings.TrimSpace(f.MachineID); id != "" {
		conds = append(conds, "machine_id = ?")
		args = append(args, id)
	}
	if !f.From.IsZero() {
		conds = append(conds, "timestamp >= ?")
		args = append(args, f.From.UTC())
	}
	if !f.To.IsZero() {
		conds = append(conds, "timestamp <= ?")
		args = append(args, f.To.UTC())
	}
	return conds, args
}
