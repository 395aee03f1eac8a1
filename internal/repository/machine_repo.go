package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"machine_efficiency/internal/models"
)

type MachineSQLite struct {
	db *sql.DB
}

func NewMachineSQLite(db *sql.DB) *MachineSQLite { return &MachineSQLite{db: db} }

var _ MachineRepo = (*MachineSQLite)(nil)

const (
	upsertMachineSQL = `
		INSERT OR REPLACE INTO machines (machine_id, machine_name, machine_type, location, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	selectMachineSQL = `
		SELECT machine_id, machine_name, machine_type, location, created_at
		FROM machines WHERE machine_id = ?
	`

	listMachinesSQL = `
		SELECT machine_id, machine_name, machine_type, location, created_at
		FROM machines ORDER BY machine_id ASC
	`
)

// Save inserts or replaces a machine. CreatedAt defaults to now (UTC).
func (r *MachineSQLite) Save(ctx context.Context, m models.Machine) error {
	created := m.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	} else {
		created = created.UTC()
	}

	_, err := r.db.ExecContext(ctx, upsertMachineSQL,
		m.MachineID,
		m.MachineName,
		m.MachineType,
		m.Location,
		created.Format(sqliteTimeLayout),
	)
	if err != nil {
		return fmt.Errorf("save machine %q: %w", m.MachineID, err)
	}
	return nil
}

// GetByID fetches a machine. Returns (nil, nil) if not found.
func (r *MachineSQLite) GetByID(ctx context.Context, machineID string) (*models.Machine, error) {
	row := r.db.QueryRowContext(ctx, selectMachineSQL, machineID)

	var m models.Machine
	if err := row.Scan(&m.MachineID, &m.MachineName, &m.MachineType, &m.Location, &m.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select machine %q: %w", machineID, err)
	}
	m.CreatedAt = m.CreatedAt.UTC()
	return &m, nil
}

// List returns all machines ordered by id.
func (r *MachineSQLite) List(ctx context.Context) ([]models.Machine, error) {
	rows, err := r.db.QueryContext(ctx, listMachinesSQL)
	if err != nil {
		return nil, fmt.Errorf("list machines: %w", err)
	}
	defer rows.Close()

	out := make([]models.Machine, 0, 16)
	for rows.Next() {
		var m models.Machine
		if err := rows.Scan(&m.MachineID, &m.MachineName, &m.MachineType, &m.Location, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.CreatedAt = m.CreatedAt.UTC()
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a machine and all of its logs and failures in one
// transaction.
func (r *MachineSQLite) Delete(ctx context.Context, machineID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete machine %q: %w", machineID, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, stmt := range []string{
		`DELETE FROM machine_logs WHERE machine_id = ?`,
		`DELETE FROM failures WHERE machine_id = ?`,
		`DELETE FROM machines WHERE machine_id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, stmt, machineID); err != nil {
			return fmt.Errorf("delete machine %q: %w", machineID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete machine %q: %w", machineID, err)
	}
	return nil
}
