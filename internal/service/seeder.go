package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"machine_efficiency/internal/models"
	"machine_efficiency/internal/repository"
)

// Seeding defaults, matching a small demo fleet.
const (
	defaultSeedMachines   = 5
	defaultSeedDays       = 7
	defaultSeedLogsPerDay = 15
	failuresPerMachine    = 3
)

// Sample vocabularies for generated records.
var (
	seedMachineTypes = []string{"CNC", "Lathe", "Mill", "Press", "Assembly", "Packaging"}
	seedLocations    = []string{
		"Floor A, Section 1", "Floor A, Section 2",
		"Floor B, Section 1", "Floor B, Section 2",
		"Warehouse", "Assembly Line",
	}
	seedFailureTypes = []string{
		"Mechanical Failure", "Electrical Issue", "Sensor Malfunction",
		"Software Error", "Overheating", "Calibration Error",
		"Material Jam", "Power Outage",
	}
	seedResolutions = []string{
		"Replaced part", "Reset system", "Cleaned sensors",
		"Updated software", "Cooled down system", "Recalibrated",
		"Cleared jam", "Restored power",
	}
	// RUNNING weighted heaviest so generated fleets look busy.
	seedStatusChoices = []string{
		models.StatusRunning, models.StatusRunning, models.StatusRunning, models.StatusRunning,
		models.StatusIdle, models.StatusIdle,
		models.StatusMaintenance,
		models.StatusFailed,
	}
)

// SeedParams control how much synthetic data to generate. Non-positive
// fields fall back to defaults.
type SeedParams struct {
	Machines   int `json:"machines"`
	Days       int `json:"days"`
	LogsPerDay int `json:"logs_per_day"`
	Failures   int `json:"failures"`
}

// SeedSummary reports what was generated.
type SeedSummary struct {
	Machines int `json:"machines"`
	Logs     int `json:"logs"`
	Failures int `json:"failures"`
}

// SeederService writes synthetic machines, status logs, and failures in
// the same shape real ingestion produces. Demo/testing convenience; the
// metrics layer has no coupling to it.
type SeederService struct {
	machineRepo repository.MachineRepo
	logRepo     repository.LogRepo
	failureRepo repository.FailureRepo
	rng         *rand.Rand
}

func NewSeederService(machineRepo repository.MachineRepo, logRepo repository.LogRepo, failureRepo repository.FailureRepo) *SeederService {
	return &SeederService{
		machineRepo: machineRepo,
		logRepo:     logRepo,
		failureRepo: failureRepo,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Seed generates a complete dataset: machines, weighted-status logs
// spread over the past days, and failures.
func (s *SeederService) Seed(ctx context.Context, p SeedParams) (SeedSummary, error) {
	p = seedDefaults(p)

	machineIDs := make([]string, 0, p.Machines)
	for i := 1; i <= p.Machines; i++ {
		machineType := pick(s.rng, seedMachineTypes)
		m := models.Machine{
			MachineID:   fmt.Sprintf("M%03d", i),
			MachineName: fmt.Sprintf("%s Machine %d", machineType, i),
			MachineType: machineType,
			Location:    pick(s.rng, seedLocations),
		}
		if err := s.machineRepo.Save(ctx, m); err != nil {
			return SeedSummary{}, fmt.Errorf("seed machine %s: %w", m.MachineID, err)
		}
		machineIDs = append(machineIDs, m.MachineID)
	}

	summary := SeedSummary{Machines: len(machineIDs)}
	now := time.Now().UTC()

	for _, id := range machineIDs {
		for day := 0; day < p.Days; day++ {
			base := now.AddDate(0, 0, -(p.Days - day))
			for i := 0; i < p.LogsPerDay; i++ {
				entry := s.randomLog(id, base)
				if err := s.logRepo.Append(ctx, entry); err != nil {
					return summary, fmt.Errorf("seed log for %s: %w", id, err)
				}
				summary.Logs++
			}
		}
	}

	for i := 0; i < p.Failures; i++ {
		f := models.FailureLog{
			MachineID:       pick(s.rng, machineIDs),
			FailureType:     pick(s.rng, seedFailureTypes),
			Timestamp:       now.Add(-time.Duration(s.rng.Intn(p.Days*24)) * time.Hour),
			DowntimeMinutes: uniform(s.rng, 15, 240),
			Resolution:      pick(s.rng, seedResolutions),
		}
		if err := s.failureRepo.Append(ctx, f); err != nil {
			return summary, fmt.Errorf("seed failure: %w", err)
		}
		summary.Failures++
	}

	return summary, nil
}

// randomLog builds one status entry with duration and production drawn
// from per-status ranges.
func (s *SeederService) randomLog(machineID string, base time.Time) models.StatusLog {
	status := pick(s.rng, seedStatusChoices)

	var (
		duration   float64
		production int
	)
	switch status {
	case models.StatusRunning:
		duration = uniform(s.rng, 30, 180)
		production = 20 + s.rng.Intn(131) // 20-150 units
	case models.StatusIdle:
		duration = uniform(s.rng, 10, 60)
	case models.StatusMaintenance:
		duration = uniform(s.rng, 60, 240)
	default: // FAILED
		duration = uniform(s.rng, 30, 120)
	}

	return models.StatusLog{
		MachineID:       machineID,
		Status:          status,
		Timestamp:       base.Add(time.Duration(s.rng.Intn(24*60)) * time.Minute),
		DurationMinutes: duration,
		ProductionCount: production,
	}
}

func seedDefaults(p SeedParams) SeedParams {
	if p.Machines <= 0 {
		p.Machines = defaultSeedMachines
	}
	if p.Days <= 0 {
		p.Days = defaultSeedDays
	}
	if p.LogsPerDay <= 0 {
		p.LogsPerDay = defaultSeedLogsPerDay
	}
	if p.Failures <= 0 {
		p.Failures = p.Machines * failuresPerMachine
	}
	return p
}

func pick(rng *rand.Rand, options []string) string {
	return options[rng.Intn(len(options))]
}

func uniform(rng *rand.Rand, low, high float64) float64 {
	return low + rng.Float64()*(high-low)
}
