// Package core provides the business logic contracts for the ZooKeeper Hub
// service layer.
package core

import (
	"context"

	"github.com/zoohub/zookeeper-hub/internal/domain/model"
)

// This file contains repository interface definitions (ports in hexagonal architecture).
// These interfaces define the contracts between the service layer and data layer.
// Service implementations should depend on these interfaces, not concrete implementations.

// UserRepository defines the interface for staff user data operations.
// It doubles as the role-record collection: the auth subsystem resolves a
// signed-in identity's role through GetByID.
type UserRepository interface {
	Create(ctx context.Context, req *model.CreateStaffUserRequest, passwordHash string) (*model.StaffUser, error)
	GetByID(ctx context.Context, id string) (*model.StaffUser, error)
	GetByEmail(ctx context.Context, email string) (*model.StaffUser, error)
	List(ctx context.Context, opts model.UsersListOptions) ([]*model.StaffUser, error)
	UpdateRole(ctx context.Context, id string, role string) (*model.StaffUser, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// AnimalRepository defines the interface for animal data operations.
type AnimalRepository interface {
	Create(ctx context.Context, req *model.CreateAnimalRequest) (*model.Animal, error)
	GetByID(ctx context.Context, id string) (*model.Animal, error)
	List(ctx context.Context, opts model.AnimalsListOptions) ([]*model.Animal, error)
	Update(ctx context.Context, id string, req model.UpdateAnimalRequest) (*model.Animal, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// FeedingLogRepository defines the interface for feeding log data operations.
type FeedingLogRepository interface {
	Create(ctx context.Context, req *model.CreateFeedingLogRequest, keeperID string) (*model.FeedingLog, error)
	List(ctx context.Context, opts model.FeedingLogsListOptions) ([]*model.FeedingLog, error)
}

// MedicalLogRepository defines the interface for medical log data operations.
type MedicalLogRepository interface {
	Create(ctx context.Context, req *model.CreateMedicalLogRequest, vetID string) (*model.MedicalLog, error)
	List(ctx context.Context, opts model.MedicalLogsListOptions) ([]*model.MedicalLog, error)
}
