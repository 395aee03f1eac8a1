package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"machine_efficiency/internal/models"
	"machine_efficiency/internal/service"
)

func TestRecordStatus_Mapping(t *testing.T) {
	auth := &mockAuth{parseID: 1}
	tracking := &mockTracking{}
	s := &service.Service{Authorization: auth, Tracking: tracking}
	r := newTestRouter(s)

	// Success: machine id comes from the path
	body := `{"status":"RUNNING","duration_minutes":90,"production_count":100}`
	w := doRequest(r, http.MethodPost, "/api/v1/machines/M001/logs", body, authHeader("tok"))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}
	if tracking.lastStatus.MachineID != "M001" || tracking.lastStatus.Status != "RUNNING" {
		t.Fatalf("unexpected entry: %+v", tracking.lastStatus)
	}
	if tracking.lastStatus.DurationMinutes != 90 || tracking.lastStatus.ProductionCount != 100 {
		t.Fatalf("unexpected numbers: %+v", tracking.lastStatus)
	}

	// Unknown machine -> 404
	tracking.statusErr = service.ErrMachineNotFound
	w = doRequest(r, http.MethodPost, "/api/v1/machines/M404/logs", body, authHeader("tok"))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}

	// Domain validation -> 400
	tracking.statusErr = service.ErrInvalidStatus
	w = doRequest(r, http.MethodPost, "/api/v1/machines/M001/logs", body, authHeader("tok"))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestRecordFailure_Mapping(t *testing.T) {
	auth := &mockAuth{parseID: 1}
	tracking := &mockTracking{}
	s := &service.Service{Authorization: auth, Tracking: tracking}
	r := newTestRouter(s)

	body := `{"failure_type":"Overheating","downtime_minutes":45,"resolution":"Cooled down system"}`
	w := doRequest(r, http.MethodPost, "/api/v1/machines/M001/failures", body, authHeader("tok"))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}
	if tracking.lastFailure.MachineID != "M001" || tracking.lastFailure.FailureType != "Overheating" {
		t.Fatalf("unexpected entry: %+v", tracking.lastFailure)
	}

	tracking.failureErr = service.ErrNegativeDowntime
	w = doRequest(r, http.MethodPost, "/api/v1/machines/M001/failures", body, authHeader("tok"))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestListLogs_FilterParsing(t *testing.T) {
	auth := &mockAuth{parseID: 1}
	now := time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC)
	tracking := &mockTracking{logsResp: []models.StatusLog{
		{LogID: "l1", MachineID: "M001", Status: "RUNNING", Timestamp: now, DurationMinutes: 60},
	}}
	s := &service.Service{Authorization: auth, Tracking: tracking}
	r := newTestRouter(s)

	// Invalid 'from' -> 400
	w := doRequest(r, http.MethodGet, "/api/v1/logs?from=notatime", "", authHeader("tok"))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 invalid 'from', got %d", w.Code)
	}

	// from > to -> 400
	w = doRequest(r, http.MethodGet, "/api/v1/logs?from=2025-08-10&to=2025-08-01", "", authHeader("tok"))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 inverted range, got %d", w.Code)
	}

	// Valid: date-only 'to' becomes end-of-day inclusive
	w = doRequest(r, http.MethodGet, "/api/v1/logs?machine_id=M001&from=2025-08-01&to=2025-08-07", "", authHeader("tok"))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}
	if tracking.lastQuery.MachineID != "M001" {
		t.Fatalf("machine filter not passed: %+v", tracking.lastQuery)
	}
	endOfDay := time.Date(2025, 8, 7, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)
	if !tracking.lastQuery.To.Equal(endOfDay) {
		t.Fatalf("'to' = %v, want end of day %v", tracking.lastQuery.To, endOfDay)
	}

	var out struct {
		Count int                `json:"count"`
		Logs  []models.StatusLog `json:"logs"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if out.Count != 1 || len(out.Logs) != 1 || out.Logs[0].LogID != "l1" {
		t.Fatalf("unexpected response: %+v", out)
	}
}

func TestListFailures(t *testing.T) {
	auth := &mockAuth{parseID: 1}
	now := time.Date(2025, 8, 2, 12, 0, 0, 0, time.UTC)
	tracking := &mockTracking{failsResp: []models.FailureLog{
		{FailureID: "f1", MachineID: "M001", FailureType: "Material Jam", Timestamp: now, DowntimeMinutes: 15},
	}}
	s := &service.Service{Authorization: auth, Tracking: tracking}
	r := newTestRouter(s)

	w := doRequest(r, http.MethodGet, "/api/v1/failures?machine_id=M001", "", authHeader("tok"))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}
	var out struct {
		Count    int                 `json:"count"`
		Failures []models.FailureLog `json:"failures"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if out.Count != 1 || out.Failures[0].FailureID != "f1" {
		t.Fatalf("unexpected response: %+v", out)
	}
}
