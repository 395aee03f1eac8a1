package handlers

import (
	"context"
	"net/http"

	"machine_efficiency/internal/models"
	"machine_efficiency/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockMachines struct {
	createErr error
	listResp  []models.Machine
	listErr   error
	getResp   *models.Machine
	getErr    error
	deleteErr error

	lastCreated models.Machine
	lastGetID   string
	lastDelID   string
}

func (m *mockMachines) CreateMachine(ctx context.Context, mc models.Machine) error {
	m.lastCreated = mc
	return m.createErr
}
func (m *mockMachines) ListMachines(ctx context.Context) ([]models.Machine, error) {
	return m.listResp, m.listErr
}
func (m *mockMachines) GetMachine(ctx context.Context, id string) (*models.Machine, error) {
	m.lastGetID = id
	return m.getResp, m.getErr
}
func (m *mockMachines) DeleteMachine(ctx context.Context, id string) error {
	m.lastDelID = id
	return m.deleteErr
}

type mockTracking struct {
	statusErr   error
	failureErr  error
	logsResp    []models.StatusLog
	logsErr     error
	failsResp   []models.FailureLog
	failsErr    error
	lastStatus  models.StatusLog
	lastFailure models.FailureLog
	lastQuery   service.RecordQuery
}

func (m *mockTracking) RecordStatus(ctx context.Context, l models.StatusLog) error {
	m.lastStatus = l
	return m.statusErr
}
func (m *mockTracking) RecordFailure(ctx context.Context, f models.FailureLog) error {
	m.lastFailure = f
	return m.failureErr
}
func (m *mockTracking) StatusLogs(ctx context.Context, q service.RecordQuery) ([]models.StatusLog, error) {
	m.lastQuery = q
	return m.logsResp, m.logsErr
}
func (m *mockTracking) FailureLogs(ctx context.Context, q service.RecordQuery) ([]models.FailureLog, error) {
	m.lastQuery = q
	return m.failsResp, m.failsErr
}

type mockMetrics struct {
	reportResp   service.MachineReport
	reportErr    error
	overviewResp service.FleetOverview
	overviewErr  error

	lastReportID  string
	lastQuery     service.RecordQuery
	lastOEEParams service.OEEParams
}

func (m *mockMetrics) MachineReport(ctx context.Context, machineID string, q service.RecordQuery, p service.OEEParams) (service.MachineReport, error) {
	m.lastReportID = machineID
	m.lastQuery = q
	m.lastOEEParams = p
	return m.reportResp, m.reportErr
}
func (m *mockMetrics) FleetOverview(ctx context.Context, q service.RecordQuery) (service.FleetOverview, error) {
	m.lastQuery = q
	return m.overviewResp, m.overviewErr
}

type mockSeeder struct {
	resp       service.SeedSummary
	err        error
	lastParams service.SeedParams
}

func (m *mockSeeder) Seed(ctx context.Context, p service.SeedParams) (service.SeedSummary, error) {
	m.lastParams = p
	return m.resp, m.err
}

// ---- Test helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
