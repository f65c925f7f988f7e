package service

import (
	"context"

	"github.com/zoohub/zookeeper-hub/internal/core"
	"github.com/zoohub/zookeeper-hub/internal/domain/model"
)

// AnimalServiceOptions groups dependencies for AnimalService.
type AnimalServiceOptions struct {
	Animals core.AnimalRepository
}

// AnimalService orchestrates animal record CRUD.
type AnimalService struct {
	animals core.AnimalRepository
}

// NewAnimalService constructs a new AnimalService.
func NewAnimalService(opts AnimalServiceOptions) *AnimalService {
	return &AnimalService{animals: opts.Animals}
}

// Create validates and creates an animal record.
func (s *AnimalService) Create(ctx context.Context, req *model.CreateAnimalRequest) (*model.Animal, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.animals.Create(ctx, req)
}

// GetByID retrieves an animal by ID.
func (s *AnimalService) GetByID(ctx context.Context, id string) (*model.Animal, error) {
	return s.animals.GetByID(ctx, id)
}

// List returns a page of animals.
func (s *AnimalService) List(ctx context.Context, opts model.AnimalsListOptions) ([]*model.Animal, error) {
	return s.animals.List(ctx, normalizeAnimalListOptions(opts))
}

// Update applies a partial update to an animal record.
func (s *AnimalService) Update(ctx context.Context, id string, req model.UpdateAnimalRequest) (*model.Animal, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.animals.Update(ctx, id, req)
}

// Delete removes an animal record. It reports whether a record existed.
func (s *AnimalService) Delete(ctx context.Context, id string) (bool, error) {
	return s.animals.Delete(ctx, id)
}

func normalizeAnimalListOptions(opts model.AnimalsListOptions) model.AnimalsListOptions {
	if opts.Limit <= 0 {
		opts.Limit = 50
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	if opts.Sort == "" {
		opts.Sort = "created_at"
	}
	if opts.Dir == "" {
		opts.Dir = "desc"
	}
	return opts
}
