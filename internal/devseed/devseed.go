// Package devseed populates a development database with staff accounts,
// animals, and a few activity logs so the UI has something to show.
package devseed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/zoohub/zookeeper-hub/internal/adapters/authroles"
	"github.com/zoohub/zookeeper-hub/internal/data"
	domainauth "github.com/zoohub/zookeeper-hub/internal/domain/auth"
	"github.com/zoohub/zookeeper-hub/internal/domain/model"
	"github.com/zoohub/zookeeper-hub/internal/service"
)

// Services bundles the dependencies needed for development seeding.
type Services struct {
	DB       *sql.DB
	userRepo *data.UserRepo
	users    *service.UserService
	animals  *service.AnimalService
	feeding  *service.FeedingService
	medical  *service.MedicalService
}

// NewServices constructs all required services for seeding using the provided DB.
func NewServices(db *sql.DB) (Services, error) {
	userRepo := data.NewUserRepo(db)
	animalRepo := data.NewAnimalRepo(db)
	feedingRepo := data.NewFeedingLogRepo(db)
	medicalRepo := data.NewMedicalLogRepo(db)

	users, err := service.NewUserService(service.UserServiceOptions{
		Users: userRepo,
		HashPassword: func(password string) (string, error) {
			hash, hashErr := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if hashErr != nil {
				return "", fmt.Errorf("hash password: %w", hashErr)
			}
			return string(hash), nil
		},
		NormalizeRole: func(raw string) domainauth.Role {
			return authroles.Normalize(raw, authroles.DefaultAliases)
		},
	})
	if err != nil {
		return Services{}, fmt.Errorf("build user service: %w", err)
	}

	return Services{
		DB:       db,
		userRepo: userRepo,
		users:    users,
		animals:  service.NewAnimalService(service.AnimalServiceOptions{Animals: animalRepo}),
		feeding:  service.NewFeedingService(service.FeedingServiceOptions{Feedings: feedingRepo}),
		medical: service.NewMedicalService(service.MedicalServiceOptions{
			Medicals: medicalRepo,
			Animals:  animalRepo,
		}),
	}, nil
}

// CreateStaffUser creates a staff account through the user service,
// hashing the password with the same settings the app uses.
func (s Services) CreateStaffUser(ctx context.Context, req *model.CreateStaffUserRequest) (*model.StaffUser, error) {
	return s.users.Create(ctx, req)
}

// SetStaffRole assigns or clears the role on an existing staff account.
func (s Services) SetStaffRole(ctx context.Context, id, role string) (*model.StaffUser, error) {
	return s.users.UpdateRole(ctx, id, role)
}

// Run executes the full development seeding workflow against the provided DB.
func Run(ctx context.Context, svcs Services, logger *slog.Logger) error {
	failures := 0
	staff := seedStaff(ctx, svcs, logger, &failures)
	animals := seedAnimals(ctx, svcs.animals, logger, &failures)
	seedActivityLogs(ctx, svcs, staff, animals, logger, &failures)

	if failures > 0 {
		return fmt.Errorf("%d seed errors; check logs", failures)
	}
	return nil
}

func defaultStaff() []*model.CreateStaffUserRequest {
	return []*model.CreateStaffUserRequest{
		{Email: "admin@zoohub.local", FirstName: "Ada", LastName: "Okafor", Role: domainauth.RoleAdmin, Password: "admin-dev-password"},
		{Email: "keeper@zoohub.local", FirstName: "Jonas", LastName: "Lindqvist", Role: domainauth.RoleZookeeper, Password: "keeper-dev-password"},
		{Email: "vet@zoohub.local", FirstName: "Mirela", LastName: "Stancu", Role: domainauth.RoleVet, Password: "vet-dev-password"},
		{Email: "research@zoohub.local", FirstName: "Tomoko", LastName: "Ishida", Role: domainauth.RoleResearcher, Password: "research-dev-password"},
	}
}

func defaultAnimals() []*model.CreateAnimalRequest {
	return []*model.CreateAnimalRequest{
		{Name: "Zuri", Species: "African Elephant", Age: 14, Enclosure: "Savanna North", HealthStatus: "healthy"},
		{Name: "Biko", Species: "Western Lowland Gorilla", Age: 9, Enclosure: "Primate Forest", HealthStatus: "healthy"},
		{Name: "Nadia", Species: "Amur Tiger", Age: 6, Enclosure: "Taiga Ridge", HealthStatus: "under observation"},
		{Name: "Pip", Species: "Humboldt Penguin", Age: 3, Enclosure: "Coastal Cove", HealthStatus: "healthy"},
	}
}

// seedStaff creates the default accounts and returns them keyed by role
// so the activity logs can be stamped with real author IDs.
func seedStaff(
	ctx context.Context,
	svcs Services,
	logger *slog.Logger,
	failures *int,
) map[domainauth.Role]*model.StaffUser {
	staff := make(map[domainauth.Role]*model.StaffUser)

	for _, req := range defaultStaff() {
		user, err := svcs.users.Create(ctx, req)
		if err != nil {
			if errors.Is(err, data.ErrEmailExists) {
				if existing, getErr := svcs.userRepo.GetByEmail(ctx, req.Email); getErr == nil {
					staff[req.Role] = existing
				}
				if logger != nil {
					logger.InfoContext(ctx, "staff user already exists", "email", req.Email)
				}
				continue
			}
			if logger != nil {
				logger.ErrorContext(ctx, "failed to create staff user", "email", req.Email, "error", err)
			}
			*failures++
			continue
		}
		staff[req.Role] = user
		if logger != nil {
			logger.InfoContext(ctx, "created staff user", "email", req.Email, "role", req.Role)
		}
	}

	return staff
}

func seedAnimals(
	ctx context.Context,
	svc *service.AnimalService,
	logger *slog.Logger,
	failures *int,
) []*model.Animal {
	var animals []*model.Animal

	for _, req := range defaultAnimals() {
		if existing := findAnimalByName(ctx, svc, req.Name); existing != nil {
			animals = append(animals, existing)
			if logger != nil {
				logger.InfoContext(ctx, "animal already exists", "name", req.Name)
			}
			continue
		}

		animal, err := svc.Create(ctx, req)
		if err != nil {
			if logger != nil {
				logger.ErrorContext(ctx, "failed to create animal", "name", req.Name, "error", err)
			}
			*failures++
			continue
		}
		animals = append(animals, animal)
		if logger != nil {
			logger.InfoContext(ctx, "created animal", "name", req.Name, "species", req.Species)
		}
	}

	return animals
}

func findAnimalByName(ctx context.Context, svc *service.AnimalService, name string) *model.Animal {
	q := name
	existing, err := svc.List(ctx, model.AnimalsListOptions{Q: &q, Limit: 10})
	if err != nil {
		return nil
	}
	for _, a := range existing {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// seedActivityLogs records one feeding and one medical visit. Logs are
// append-only, so it only writes when the collections are still empty.
func seedActivityLogs(
	ctx context.Context,
	svcs Services,
	staff map[domainauth.Role]*model.StaffUser,
	animals []*model.Animal,
	logger *slog.Logger,
	failures *int,
) {
	if len(animals) == 0 {
		return
	}

	keeper := staff[domainauth.RoleZookeeper]
	vet := staff[domainauth.RoleVet]

	if keeper != nil {
		if empty, err := feedingLogsEmpty(ctx, svcs.feeding); err == nil && empty {
			_, err = svcs.feeding.Create(ctx, &model.CreateFeedingLogRequest{
				AnimalName:  animals[0].Name,
				FoodType:    "acacia browse",
				Quantity:    "40 kg",
				Notes:       "morning feed, good appetite",
				FeedingTime: time.Now().Add(-2 * time.Hour),
			}, keeper.ID)
			if err != nil {
				if logger != nil {
					logger.ErrorContext(ctx, "failed to seed feeding log", "error", err)
				}
				*failures++
			}
		}
	}

	if vet != nil {
		if empty, err := medicalLogsEmpty(ctx, svcs.medical); err == nil && empty {
			_, err = svcs.medical.Create(ctx, &model.CreateMedicalLogRequest{
				AnimalID:         animals[0].ID,
				Date:             time.Now().Add(-24 * time.Hour),
				Diagnosis:        "routine wellness check",
				Treatment:        "none required",
				FollowUpRequired: false,
				Notes:            "annual exam, all vitals normal",
			}, vet.ID)
			if err != nil {
				if logger != nil {
					logger.ErrorContext(ctx, "failed to seed medical log", "error", err)
				}
				*failures++
			}
		}
	}
}

func feedingLogsEmpty(ctx context.Context, svc *service.FeedingService) (bool, error) {
	logs, err := svc.List(ctx, model.FeedingLogsListOptions{Limit: 1})
	if err != nil {
		return false, err
	}
	return len(logs) == 0, nil
}

func medicalLogsEmpty(ctx context.Context, svc *service.MedicalService) (bool, error) {
	logs, err := svc.List(ctx, model.MedicalLogsListOptions{Limit: 1})
	if err != nil {
		return false, err
	}
	return len(logs) == 0, nil
}
