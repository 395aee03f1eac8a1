package service

import (
	"context"
	"math"

	"machine_efficiency/internal/efficiency"
	"machine_efficiency/internal/models"
	"machine_efficiency/internal/repository"
)

// OEEParams parameterize the OEE computation. Non-positive fields fall
// back to the configured defaults.
type OEEParams struct {
	IdealCycleTimeMinutes        float64 `json:"ideal_cycle_time_minutes"`
	PlannedProductionTimeMinutes float64 `json:"planned_production_time_minutes"`
}

// MachineReport is the full KPI view for one machine over the queried
// range. Every field is populated; degenerate inputs yield zeros, never
// missing fields.
type MachineReport struct {
	MachineID          string                       `json:"machine_id"`
	RunningTimePct     float64                      `json:"running_time_pct"`
	IdleTimePct        float64                      `json:"idle_time_pct"`
	DowntimePct        float64                      `json:"downtime_pct"`
	StatusDistribution map[string]float64           `json:"status_distribution"`
	Productivity       efficiency.ProductivityStats `json:"productivity"`
	FailureRate        efficiency.FailureRateStats  `json:"failure_rate"`
	MTBFHours          float64                      `json:"mtbf_hours"`
	MTTRHours          float64                      `json:"mttr_hours"`
	OEE                efficiency.OEEStats          `json:"oee"`
	LogCount           int                          `json:"log_count"`
}

// MachineSummary is one dashboard row in the fleet overview.
type MachineSummary struct {
	Machine         models.Machine `json:"machine"`
	CurrentStatus   string         `json:"current_status"`
	RunningTimePct  float64        `json:"running_time_pct"`
	TotalProduction int            `json:"total_production"`
	FailureCount    int            `json:"failure_count"`
}

// FleetOverview aggregates the whole fleet for the dashboard header.
type FleetOverview struct {
	TotalMachines     int              `json:"total_machines"`
	AvgRunningTimePct float64          `json:"avg_running_time_pct"`
	AvgDailyFailures  float64          `json:"avg_daily_failures"`
	ProductionPerHour float64          `json:"production_per_hour"`
	Machines          []MachineSummary `json:"machines"`
}

// MetricsService assembles KPI reports: it pulls filtered records from
// the repositories and reduces them with the efficiency package. All
// heavy lifting is in the pure functions; this layer only fetches and
// composes.
type MetricsService struct {
	machineRepo repository.MachineRepo
	logRepo     repository.LogRepo
	failureRepo repository.FailureRepo
	oeeDefaults OEEParams
}

func NewMetricsService(machineRepo repository.MachineRepo, logRepo repository.LogRepo, failureRepo repository.FailureRepo, oeeDefaults OEEParams) *MetricsService {
	return &MetricsService{
		machineRepo: machineRepo,
		logRepo:     logRepo,
		failureRepo: failureRepo,
		oeeDefaults: oeeDefaults,
	}
}

// MachineReport computes every KPI for one machine over the query range.
// Returns ErrMachineNotFound for unknown machines.
func (s *MetricsService) MachineReport(ctx context.Context, machineID string, q RecordQuery, p OEEParams) (MachineReport, error) {
	m, err := s.machineRepo.GetByID(ctx, machineID)
	if err != nil {
		return MachineReport{}, err
	}
	if m == nil {
		return MachineReport{}, ErrMachineNotFound
	}

	q.MachineID = m.MachineID
	filter, err := normalizeQuery(q)
	if err != nil {
		return MachineReport{}, err
	}

	logs, err := s.logRepo.List(ctx, filter)
	if err != nil {
		return MachineReport{}, err
	}
	failures, err := s.failureRepo.List(ctx, filter)
	if err != nil {
		return MachineReport{}, err
	}

	p = s.withDefaults(p)
	productivity := efficiency.Productivity(logs)

	return MachineReport{
		MachineID:          m.MachineID,
		RunningTimePct:     efficiency.RunningTimePercentage(logs),
		IdleTimePct:        efficiency.IdleTimePercentage(logs),
		DowntimePct:        efficiency.DowntimePercentage(logs),
		StatusDistribution: efficiency.StatusDistribution(logs),
		Productivity:       productivity,
		FailureRate:        efficiency.DailyFailureRate(failures),
		MTBFHours:          efficiency.MTBF(failures, productivity.TotalRuntimeHours),
		MTTRHours:          efficiency.MTTR(failures),
		OEE:                efficiency.OEE(logs, failures, p.IdealCycleTimeMinutes, p.PlannedProductionTimeMinutes),
		LogCount:           len(logs),
	}, nil
}

// FleetOverview builds the dashboard header and one summary row per
// machine over the query range. The machine-id field of the query is
// ignored; the overview always spans the fleet.
func (s *MetricsService) FleetOverview(ctx context.Context, q RecordQuery) (FleetOverview, error) {
	machines, err := s.machineRepo.List(ctx)
	if err != nil {
		return FleetOverview{}, err
	}

	q.MachineID = ""
	filter, err := normalizeQuery(q)
	if err != nil {
		return FleetOverview{}, err
	}

	logs, err := s.logRepo.List(ctx, filter)
	if err != nil {
		return FleetOverview{}, err
	}
	failures, err := s.failureRepo.List(ctx, filter)
	if err != nil {
		return FleetOverview{}, err
	}

	logsByMachine := make(map[string][]models.StatusLog)
	for _, l := range logs {
		logsByMachine[l.MachineID] = append(logsByMachine[l.MachineID], l)
	}
	failuresByMachine := make(map[string]int)
	for _, f := range failures {
		failuresByMachine[f.MachineID]++
	}

	overview := FleetOverview{
		TotalMachines: len(machines),
		Machines:      make([]MachineSummary, 0, len(machines)),
	}

	var runningPctSum float64
	for _, m := range machines {
		mlogs := logsByMachine[m.MachineID]
		prod := efficiency.Productivity(mlogs)
		runningPct := efficiency.RunningTimePercentage(mlogs)
		runningPctSum += runningPct

		overview.Machines = append(overview.Machines, MachineSummary{
			Machine:         m,
			CurrentStatus:   latestStatus(mlogs),
			RunningTimePct:  runningPct,
			TotalProduction: prod.TotalProduction,
			FailureCount:    failuresByMachine[m.MachineID],
		})
	}

	if len(machines) > 0 {
		overview.AvgRunningTimePct = round2(runningPctSum / float64(len(machines)))
	}
	overview.AvgDailyFailures = efficiency.DailyFailureRate(failures).AvgFailuresPerDay
	overview.ProductionPerHour = efficiency.Productivity(logs).ProductionPerHour

	return overview, nil
}

// withDefaults fills non-positive OEE params from configuration.
func (s *MetricsService) withDefaults(p OEEParams) OEEParams {
	if p.IdealCycleTimeMinutes <= 0 {
		p.IdealCycleTimeMinutes = s.oeeDefaults.IdealCycleTimeMinutes
	}
	if p.PlannedProductionTimeMinutes <= 0 {
		p.PlannedProductionTimeMinutes = s.oeeDefaults.PlannedProductionTimeMinutes
	}
	return p
}

// latestStatus picks the status of the newest log entry; OFFLINE when a
// machine has no logs in range. Logs arrive sorted from the repository
// but the scan does not rely on it.
func latestStatus(logs []models.StatusLog) string {
	if len(logs) == 0 {
		return models.StatusOffline
	}
	latest := logs[0]
	for _, l := range logs[1:] {
		if l.Timestamp.After(latest.Timestamp) {
			latest = l
		}
	}
	return latest.Status
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
