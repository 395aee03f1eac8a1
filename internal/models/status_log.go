package models

import "time"

// Machine status vocabulary. This is a closed set shared with the storage
// and display layers; display labels/icons live outside this package.
const (
	StatusRunning     = "RUNNING"
	StatusIdle        = "IDLE"
	StatusMaintenance = "MAINTENANCE"
	StatusFailed      = "FAILED"
	StatusOffline     = "OFFLINE"
)

// AllStatuses lists every valid machine status.
var AllStatuses = []string{
	StatusRunning,
	StatusIdle,
	StatusMaintenance,
	StatusFailed,
	StatusOffline,
}

// ValidStatus reports whether s is a member of the closed status set.
func ValidStatus(s string) bool {
	switch s {
	case StatusRunning, StatusIdle, StatusMaintenance, StatusFailed, StatusOffline:
		return true
	}
	return false
}

// StatusLog is a single recorded status interval for a machine.
type StatusLog struct {
	LogID           string    `json:"log_id"`
	MachineID       string    `json:"machine_id"`
	Status          string    `json:"status"` // RUNNING | IDLE | MAINTENANCE | FAILED | OFFLINE
	Timestamp       time.Time `json:"timestamp"`
	DurationMinutes float64   `json:"duration_minutes"`
	ProductionCount int       `json:"production_count"`
	Notes           string    `json:"notes,omitempty"`
}
