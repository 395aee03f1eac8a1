package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"machine_efficiency/internal/models"
	"machine_efficiency/internal/repository"
)

var (
	ErrInvalidStatus     = errors.New("invalid status: must be one of RUNNING, IDLE, MAINTENANCE, FAILED, OFFLINE")
	ErrNegativeDuration  = errors.New("duration_minutes must be >= 0")
	ErrNegativeCount     = errors.New("production_count must be >= 0")
	ErrNegativeDowntime  = errors.New("downtime_minutes must be >= 0")
	ErrInvalidTimeRange  = errors.New("invalid time range: from must be <= to")
	ErrFailureTypeNeeded = errors.New("failure_type is required")
)

// TrackingService records status and failure entries and serves filtered
// reads. Writes are validated here so bad numbers never reach the
// metrics layer.
type TrackingService struct {
	machineRepo repository.MachineRepo
	logRepo     repository.LogRepo
	failureRepo repository.FailureRepo
}

func NewTrackingService(machineRepo repository.MachineRepo, logRepo repository.LogRepo, failureRepo repository.FailureRepo) *TrackingService {
	return &TrackingService{
		machineRepo: machineRepo,
		logRepo:     logRepo,
		failureRepo: failureRepo,
	}
}

// RecordStatus validates and appends a status log entry.
func (s *TrackingService) RecordStatus(ctx context.Context, l models.StatusLog) error {
	l.MachineID = strings.TrimSpace(l.MachineID)
	l.Status = strings.ToUpper(strings.TrimSpace(l.Status))

	if !models.ValidStatus(l.Status) {
		return ErrInvalidStatus
	}
	if l.DurationMinutes < 0 {
		return ErrNegativeDuration
	}
	if l.ProductionCount < 0 {
		return ErrNegativeCount
	}
	if err := s.requireMachine(ctx, l.MachineID); err != nil {
		return err
	}
	return s.logRepo.Append(ctx, l)
}

// RecordFailure validates and appends a failure entry.
func (s *TrackingService) RecordFailure(ctx context.Context, f models.FailureLog) error {
	f.MachineID = strings.TrimSpace(f.MachineID)
	f.FailureType = strings.TrimSpace(f.FailureType)

	if f.FailureType == "" {
		return ErrFailureTypeNeeded
	}
	if f.DowntimeMinutes < 0 {
		return ErrNegativeDowntime
	}
	if err := s.requireMachine(ctx, f.MachineID); err != nil {
		return err
	}
	return s.failureRepo.Append(ctx, f)
}

func (s *TrackingService) StatusLogs(ctx context.Context, q RecordQuery) ([]models.StatusLog, error) {
	filter, err := normalizeQuery(q)
	if err != nil {
		return nil, err
	}
	return s.logRepo.List(ctx, filter)
}

func (s *TrackingService) FailureLogs(ctx context.Context, q RecordQuery) ([]models.FailureLog, error) {
	filter, err := normalizeQuery(q)
	if err != nil {
		return nil, err
	}
	return s.failureRepo.List(ctx, filter)
}

func (s *TrackingService) requireMachine(ctx context.Context, machineID string) error {
	if machineID == "" {
		return ErrMachineIDRequired
	}
	m, err := s.machineRepo.GetByID(ctx, machineID)
	if err != nil {
		return err
	}
	if m == nil {
		return ErrMachineNotFound
	}
	return nil
}

// normalizeQuery converts a RecordQuery into a repository filter,
// normalizing times to UTC and validating the range.
func normalizeQuery(q RecordQuery) (repository.RecordFilter, error) {
	from := toUTC(q.From)
	to := toUTC(q.To)

	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return repository.RecordFilter{}, ErrInvalidTimeRange
	}

	return repository.RecordFilter{
		MachineID: strings.TrimSpace(q.MachineID),
		From:      from,
		To:        to,
	}, nil
}

// toUTC normalizes non-zero time to UTC, preserving zero values.
func toUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}
