package service

import (
	"context"
	"time"

	"machine_efficiency/internal/models"
	"machine_efficiency/internal/repository"
)

type Authorization interface {
	SignUp(username, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Machines exposes the machine registry.
type Machines interface {
	CreateMachine(ctx context.Context, m models.Machine) error
	ListMachines(ctx context.Context) ([]models.Machine, error)
	GetMachine(ctx context.Context, machineID string) (*models.Machine, error)
	DeleteMachine(ctx context.Context, machineID string) error
}

// Tracking exposes append-only status/failure records with filtered reads.
type Tracking interface {
	RecordStatus(ctx context.Context, l models.StatusLog) error
	RecordFailure(ctx context.Context, f models.FailureLog) error
	StatusLogs(ctx context.Context, q RecordQuery) ([]models.StatusLog, error)
	FailureLogs(ctx context.Context, q RecordQuery) ([]models.FailureLog, error)
}

// Metrics exposes derived KPI views for the dashboard.
type Metrics interface {
	MachineReport(ctx context.Context, machineID string, q RecordQuery, p OEEParams) (MachineReport, error)
	FleetOverview(ctx context.Context, q RecordQuery) (FleetOverview, error)
}

// Seeder generates synthetic machines, logs, and failures for demos.
type Seeder interface {
	Seed(ctx context.Context, p SeedParams) (SeedSummary, error)
}

// RecordQuery scopes reads by machine and date range. Zero fields mean
// "no constraint".
type RecordQuery struct {
	MachineID string
	From      time.Time
	To        time.Time
}

// Config carries service-level settings loaded in main.
type Config struct {
	SigningKey  string
	TokenTTL    time.Duration
	OEEDefaults OEEParams
}

//
// Root Service aggregates all sub-services.
//

type Service struct {
	Machines
	Tracking
	Metrics
	Seeder
	Authorization
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository, cfg Config) *Service {
	machines := NewMachineService(repos.Machines)
	return &Service{
		Machines:      machines,
		Tracking:      NewTrackingService(repos.Machines, repos.Logs, repos.Failures),
		Metrics:       NewMetricsService(repos.Machines, repos.Logs, repos.Failures, cfg.OEEDefaults),
		Seeder:        NewSeederService(repos.Machines, repos.Logs, repos.Failures),
		Authorization: NewAuthService(repos.Auth, cfg.SigningKey, cfg.TokenTTL),
	}
}
