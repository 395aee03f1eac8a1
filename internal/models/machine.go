package models

import "time"

// Machine is a registered piece of production equipment.
type Machine struct {
	MachineID   string    `json:"machine_id"`
	MachineName string    `json:"machine_name"`
	MachineType string    `json:"machine_type,omitempty"` // e.g. CNC, Lathe, Press
	Location    string    `json:"location,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
