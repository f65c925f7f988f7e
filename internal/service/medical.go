package service

import (
	"context"
	"errors"

	"github.com/zoohub/zookeeper-hub/internal/core"
	"github.com/zoohub/zookeeper-hub/internal/domain/model"
)

// MedicalServiceOptions groups dependencies for MedicalService.
type MedicalServiceOptions struct {
	Medicals core.MedicalLogRepository
	Animals  core.AnimalRepository
}

// MedicalService orchestrates medical log recording and review.
type MedicalService struct {
	medicals core.MedicalLogRepository
	animals  core.AnimalRepository
}

// NewMedicalService constructs a new MedicalService.
func NewMedicalService(opts MedicalServiceOptions) *MedicalService {
	return &MedicalService{medicals: opts.Medicals, animals: opts.Animals}
}

// Create validates and records a medical log, stamped with the vet who
// recorded it. The animal must exist.
func (s *MedicalService) Create(ctx context.Context, req *model.CreateMedicalLogRequest, vetID string) (*model.MedicalLog, error) {
	if vetID == "" {
		return nil, errors.New("vet ID is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.animals.GetByID(ctx, req.AnimalID); err != nil {
		return nil, err
	}
	return s.medicals.Create(ctx, req, vetID)
}

// List returns medical logs, newest visit first.
func (s *MedicalService) List(ctx context.Context, opts model.MedicalLogsListOptions) ([]*model.MedicalLog, error) {
	if opts.Limit <= 0 {
		opts.Limit = 50
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	return s.medicals.List(ctx, opts)
}
