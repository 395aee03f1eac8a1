package service

import (
	"context"
	"errors"
	"strings"

	"machine_efficiency/internal/models"
	"machine_efficiency/internal/repository"
)

// Domain errors shared across services. Handlers map these to 4xx codes.
var (
	ErrMachineIDRequired   = errors.New("machine_id is required")
	ErrMachineNameRequired = errors.New("machine_name is required")
	ErrMachineNotFound     = errors.New("machine not found")
)

type MachineService struct {
	machineRepo repository.MachineRepo
}

func NewMachineService(machineRepo repository.MachineRepo) *MachineService {
	return &MachineService{machineRepo: machineRepo}
}

// CreateMachine validates and upserts a machine record.
func (s *MachineService) CreateMachine(ctx context.Context, m models.Machine) error {
	m.MachineID = strings.TrimSpace(m.MachineID)
	m.MachineName = strings.TrimSpace(m.MachineName)

	if m.MachineID == "" {
		return ErrMachineIDRequired
	}
	if m.MachineName == "" {
		return ErrMachineNameRequired
	}
	return s.machineRepo.Save(ctx, m)
}

func (s *MachineService) ListMachines(ctx context.Context) ([]models.Machine, error) {
	return s.machineRepo.List(ctx)
}

// GetMachine returns the machine or ErrMachineNotFound.
func (s *MachineService) GetMachine(ctx context.Context, machineID string) (*models.Machine, error) {
	m, err := s.machineRepo.GetByID(ctx, strings.TrimSpace(machineID))
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrMachineNotFound
	}
	return m, nil
}

// DeleteMachine removes a machine and its records. Deleting an unknown
// machine returns ErrMachineNotFound.
func (s *MachineService) DeleteMachine(ctx context.Context, machineID string) error {
	machineID = strings.TrimSpace(machineID)
	m, err := s.machineRepo.GetByID(ctx, machineID)
	if err != nil {
		return err
	}
	if m == nil {
		return ErrMachineNotFound
	}
	return s.machineRepo.Delete(ctx, machineID)
}
