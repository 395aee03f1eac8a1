package models

import "time"

// FailureLog is a single recorded failure event and its repair outcome.
type FailureLog struct {
	FailureID       string    `json:"failure_id"`
	MachineID       string    `json:"machine_id"`
	FailureType     string    `json:"failure_type"` // free-text category, e.g. "Overheating"
	Timestamp       time.Time `json:"timestamp"`
	DowntimeMinutes float64   `json:"downtime_minutes"`
	Resolution      string    `json:"resolution,omitempty"`
}
