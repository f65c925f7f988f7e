package bootstrap

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/zoohub/zookeeper-hub/config"
	"github.com/zoohub/zookeeper-hub/internal/adapters/authroles"
	"github.com/zoohub/zookeeper-hub/internal/adapters/sessionbus"
	"github.com/zoohub/zookeeper-hub/internal/data"
	domainauth "github.com/zoohub/zookeeper-hub/internal/domain/auth"
	"github.com/zoohub/zookeeper-hub/internal/observability/statsd"
	"github.com/zoohub/zookeeper-hub/internal/ports"
	"github.com/zoohub/zookeeper-hub/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Auth     *service.AuthService
	Animals  *service.AnimalService
	Feeding  *service.FeedingService
	Medical  *service.MedicalService
	Users    *service.UserService
	Research *service.ResearchService

	SessionBus  *sessionbus.Bus
	RoleRecords ports.RoleRecords
	Cache       *data.RedisCacheRepo

	Observability ObservabilityContainer
}

// ObservabilityContainer groups shared observability dependencies.
type ObservabilityContainer struct {
	MetricsSink   *statsd.Client
	MetricsConfig config.ObservabilityMetricsConfig
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// serviceRepositories groups data adapters backing service ports.
type serviceRepositories struct {
	UserRepo       *data.UserRepo
	AnimalRepo     *data.AnimalRepo
	FeedingLogRepo *data.FeedingLogRepo
	MedicalLogRepo *data.MedicalLogRepo
	CacheRepo      *data.RedisCacheRepo
}

// buildRepositories builds repositories backing service ports; no business rules here.
func buildRepositories(db *sql.DB, redisClient redis.UniversalClient) *serviceRepositories {
	return &serviceRepositories{
		UserRepo:       data.NewUserRepo(db),
		AnimalRepo:     data.NewAnimalRepo(db),
		FeedingLogRepo: data.NewFeedingLogRepo(db),
		MedicalLogRepo: data.NewMedicalLogRepo(db),
		CacheRepo:      data.NewRedisCacheRepo(redisClient),
	}
}

// buildObservability configures the metrics sink.
func buildObservability(logger *slog.Logger, cfg config.ObservabilityConfig) ObservabilityContainer {
	obsLogger := logger
	if obsLogger == nil {
		obsLogger = slog.Default()
	}

	var metricsSink *statsd.Client
	if cfg.Metrics.IsEnabled() {
		client, err := statsd.NewClient(statsd.Config{
			Enabled: true,
			Address: cfg.Metrics.StatsdAddress,
			Prefix:  cfg.Metrics.Prefix,
			Logger:  obsLogger,
		})
		if err != nil {
			obsLogger.Error("failed to initialise statsd client", "error", err)
		} else {
			metricsSink = client
		}
	}

	return ObservabilityContainer{
		MetricsSink:   metricsSink,
		MetricsConfig: cfg.Metrics,
	}
}

// NewServices creates all application services with their dependencies.
func NewServices(deps *ServiceDeps) (*ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return nil, errors.New("service deps with config are required")
	}
	if deps.DB == nil {
		return nil, errors.New("database connection is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	repos := buildRepositories(deps.DB, deps.RedisClient)
	bus := sessionbus.New()

	authSvc, err := BuildAuthService(AuthConfig{
		Auth:        deps.Config.Auth,
		Users:       repos.UserRepo,
		RedisClient: deps.RedisClient,
		Events:      bus,
		Logger:      logger,
	})
	if err != nil {
		return nil, err
	}

	userSvc, err := service.NewUserService(service.UserServiceOptions{
		Users: repos.UserRepo,
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
		return nil, fmt.Errorf("build user service: %w", err)
	}

	return &ServiceContainer{
		Auth:    authSvc,
		Animals: service.NewAnimalService(service.AnimalServiceOptions{Animals: repos.AnimalRepo}),
		Feeding: service.NewFeedingService(service.FeedingServiceOptions{Feedings: repos.FeedingLogRepo}),
		Medical: service.NewMedicalService(service.MedicalServiceOptions{
			Medicals: repos.MedicalLogRepo,
			Animals:  repos.AnimalRepo,
		}),
		Users: userSvc,
		Research: service.NewResearchService(service.ResearchServiceOptions{
			Animals:  repos.AnimalRepo,
			Feedings: repos.FeedingLogRepo,
			Medicals: repos.MedicalLogRepo,
			Cache:    repos.CacheRepo,
		}),
		SessionBus:    bus,
		RoleRecords:   BuildRoleRecords(deps.Config.Auth, repos.UserRepo),
		Cache:         repos.CacheRepo,
		Observability: buildObservability(logger, deps.Config.Observability),
	}, nil
}

// Close releases resources held by the container.
func (c *ServiceContainer) Close() {
	if c == nil {
		return
	}
	if c.SessionBus != nil {
		c.SessionBus.Close()
	}
	if c.Observability.MetricsSink != nil {
		_ = c.Observability.MetricsSink.Close()
	}
}
