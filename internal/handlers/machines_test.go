package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"machine_efficiency/internal/models"
	"machine_efficiency/internal/service"
)

func doRequest(r http.Handler, method, target, body string, header http.Header) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, vv := range header {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	r.ServeHTTP(w, req)
	return w
}

func TestCreateMachine(t *testing.T) {
	auth := &mockAuth{parseID: 1}
	machines := &mockMachines{}
	s := &service.Service{Authorization: auth, Machines: machines}
	r := newTestRouter(s)

	// Unauthorized without token
	w := doRequest(r, http.MethodPost, "/api/v1/machines", `{"machine_id":"M001","machine_name":"CNC 1"}`, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}

	// Invalid body
	w = doRequest(r, http.MethodPost, "/api/v1/machines", `{`, authHeader("tok"))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad JSON, got %d", w.Code)
	}

	// Domain validation error -> 400
	machines.createErr = service.ErrMachineNameRequired
	w = doRequest(r, http.MethodPost, "/api/v1/machines", `{"machine_id":"M001"}`, authHeader("tok"))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for domain error, got %d", w.Code)
	}

	// Success
	machines.createErr = nil
	w = doRequest(r, http.MethodPost, "/api/v1/machines", `{"machine_id":"M001","machine_name":"CNC 1","machine_type":"CNC"}`, authHeader("tok"))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}
	if machines.lastCreated.MachineID != "M001" || machines.lastCreated.MachineType != "CNC" {
		t.Fatalf("unexpected payload: %+v", machines.lastCreated)
	}
}

func TestGetMachine_NotFoundAndSuccess(t *testing.T) {
	auth := &mockAuth{parseID: 1}
	machines := &mockMachines{getErr: service.ErrMachineNotFound}
	s := &service.Service{Authorization: auth, Machines: machines}
	r := newTestRouter(s)

	w := doRequest(r, http.MethodGet, "/api/v1/machines/M404", "", authHeader("tok"))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}

	machines.getErr = nil
	machines.getResp = &models.Machine{
		MachineID:   "M001",
		MachineName: "CNC 1",
		CreatedAt:   time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
	}
	w = doRequest(r, http.MethodGet, "/api/v1/machines/M001", "", authHeader("tok"))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}
	var got models.Machine
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	if got.MachineID != "M001" {
		t.Fatalf("unexpected machine: %+v", got)
	}
	if machines.lastGetID != "M001" {
		t.Fatalf("service called with %q", machines.lastGetID)
	}
}

func TestListMachines(t *testing.T) {
	auth := &mockAuth{parseID: 1}
	machines := &mockMachines{listResp: []models.Machine{
		{MachineID: "M001", MachineName: "CNC 1"},
		{MachineID: "M002", MachineName: "Press 2"},
	}}
	s := &service.Service{Authorization: auth, Machines: machines}
	r := newTestRouter(s)

	w := doRequest(r, http.MethodGet, "/api/v1/machines", "", authHeader("tok"))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}
	var out struct {
		Count    int              `json:"count"`
		Machines []models.Machine `json:"machines"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if out.Count != 2 || len(out.Machines) != 2 {
		t.Fatalf("unexpected response: %+v", out)
	}
}

func TestDeleteMachine(t *testing.T) {
	auth := &mockAuth{parseID: 1}
	machines := &mockMachines{deleteErr: service.ErrMachineNotFound}
	s := &service.Service{Authorization: auth, Machines: machines}
	r := newTestRouter(s)

	w := doRequest(r, http.MethodDelete, "/api/v1/machines/M404", "", authHeader("tok"))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}

	machines.deleteErr = nil
	w = doRequest(r, http.MethodDelete, "/api/v1/machines/M001", "", authHeader("tok"))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}
	if machines.lastDelID != "M001" {
		t.Fatalf("service called with %q", machines.lastDelID)
	}
}
