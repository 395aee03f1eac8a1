package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"machine_efficiency/internal/efficiency"
	"machine_efficiency/internal/service"
)

func TestMachineReport_Handler(t *testing.T) {
	auth := &mockAuth{parseID: 1}
	metrics := &mockMetrics{reportResp: service.MachineReport{
		MachineID:      "M001",
		RunningTimePct: 66.67,
		IdleTimePct:    33.33,
		OEE:            efficiency.OEEStats{Availability: 93.75, Performance: 22.22, Quality: 100, OEE: 20.83},
	}}
	s := &service.Service{Authorization: auth, Metrics: metrics}
	r := newTestRouter(s)

	// OEE override params are forwarded
	w := doRequest(r, http.MethodGet, "/api/v1/machines/M001/report?ideal_cycle_time=1.5&planned_time=480", "", authHeader("tok"))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}
	if metrics.lastReportID != "M001" {
		t.Fatalf("report for %q", metrics.lastReportID)
	}
	if metrics.lastOEEParams.IdealCycleTimeMinutes != 1.5 || metrics.lastOEEParams.PlannedProductionTimeMinutes != 480 {
		t.Fatalf("params not forwarded: %+v", metrics.lastOEEParams)
	}

	var got service.MachineReport
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	if got.RunningTimePct != 66.67 || got.OEE.OEE != 20.83 {
		t.Fatalf("unexpected report: %+v", got)
	}

	// Bad override -> 400
	w = doRequest(r, http.MethodGet, "/api/v1/machines/M001/report?ideal_cycle_time=-2", "", authHeader("tok"))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for negative cycle time, got %d", w.Code)
	}

	// Unknown machine -> 404
	metrics.reportErr = service.ErrMachineNotFound
	w = doRequest(r, http.MethodGet, "/api/v1/machines/M404/report", "", authHeader("tok"))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestFleetOverview_Handler(t *testing.T) {
	auth := &mockAuth{parseID: 1}
	metrics := &mockMetrics{overviewResp: service.FleetOverview{
		TotalMachines:     2,
		AvgRunningTimePct: 75,
		ProductionPerHour: 40,
	}}
	s := &service.Service{Authorization: auth, Metrics: metrics}
	r := newTestRouter(s)

	w := doRequest(r, http.MethodGet, "/api/v1/overview?from=2025-08-01&to=2025-08-31", "", authHeader("tok"))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}
	var got service.FleetOverview
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	if got.TotalMachines != 2 || got.AvgRunningTimePct != 75 {
		t.Fatalf("unexpected overview: %+v", got)
	}
	if metrics.lastQuery.From.IsZero() || metrics.lastQuery.To.IsZero() {
		t.Fatalf("date range not forwarded: %+v", metrics.lastQuery)
	}
}

func TestSeedSampleData_Handler(t *testing.T) {
	auth := &mockAuth{parseID: 1}
	seeder := &mockSeeder{resp: service.SeedSummary{Machines: 5, Logs: 525, Failures: 15}}
	s := &service.Service{Authorization: auth, Seeder: seeder}
	r := newTestRouter(s)

	// Empty body uses defaults
	w := doRequest(r, http.MethodPost, "/api/v1/sample-data", "", authHeader("tok"))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}
	var got service.SeedSummary
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	if got.Machines != 5 || got.Logs != 525 {
		t.Fatalf("unexpected summary: %+v", got)
	}

	// Explicit params are forwarded
	w = doRequest(r, http.MethodPost, "/api/v1/sample-data", `{"machines":2,"days":3}`, authHeader("tok"))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}
	if seeder.lastParams.Machines != 2 || seeder.lastParams.Days != 3 {
		t.Fatalf("params not forwarded: %+v", seeder.lastParams)
	}
}
