package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/zoohub/zookeeper-hub/config"
	"github.com/zoohub/zookeeper-hub/internal/adapters/authroles"
	"github.com/zoohub/zookeeper-hub/internal/adapters/credauth"
	"github.com/zoohub/zookeeper-hub/internal/adapters/devauth"
	"github.com/zoohub/zookeeper-hub/internal/adapters/oidc"
	redisadapter "github.com/zoohub/zookeeper-hub/internal/adapters/redis"
	"github.com/zoohub/zookeeper-hub/internal/core"
	domainauth "github.com/zoohub/zookeeper-hub/internal/domain/auth"
	"github.com/zoohub/zookeeper-hub/internal/ports"
	"github.com/zoohub/zookeeper-hub/internal/service"
)

const sessionKeyPrefix = "zoohub:session:"

// AuthConfig contains configuration for the auth service.
type AuthConfig struct {
	Auth        config.AuthConfig
	Users       core.UserRepository
	RedisClient redis.UniversalClient
	Events      ports.SessionEvents
	Logger      *slog.Logger
}

// BuildAuthService creates an auth service based on the configured auth
// mode. Every page in the app sits behind the session guard, so a
// misconfigured auth mode is a startup error rather than a degraded mode.
func BuildAuthService(cfg AuthConfig) (*service.AuthService, error) {
	if cfg.RedisClient == nil {
		return nil, fmt.Errorf("auth mode %q requires a redis client for session storage", cfg.Auth.Mode)
	}
	if cfg.Users == nil {
		return nil, fmt.Errorf("auth mode %q requires the users repository", cfg.Auth.Mode)
	}

	sessionStore := redisadapter.NewSessionStoreWithPrefix(cfg.RedisClient, sessionKeyPrefix)
	roleRecords := BuildRoleRecords(cfg.Auth, cfg.Users)

	opts := service.AuthServiceOptions{
		Sessions: sessionStore,
		Roles:    roleRecords,
		Events:   cfg.Events,
		Logger:   cfg.Logger,
	}

	switch cfg.Auth.Mode {
	case config.AuthModeCredentials:
		verifier, err := credauth.NewVerifier(credauth.Options{
			Users:           cfg.Users,
			SessionDuration: cfg.Auth.SessionDuration,
		})
		if err != nil {
			return nil, fmt.Errorf("build credential verifier: %w", err)
		}
		opts.Credentials = verifier

	case config.AuthModeOIDC:
		o := cfg.Auth.OIDC
		if o.DiscoveryURL == "" || o.ClientID == "" || o.ClientSecret == "" {
			return nil, fmt.Errorf("auth mode oidc requires OIDC_DISCOVERY_URL, OIDC_CLIENT_ID, and OIDC_CLIENT_SECRET")
		}
		prov, err := oidc.NewProvider(oidc.ProviderConfig{
			ClientID:     o.ClientID,
			ClientSecret: o.ClientSecret,
			RedirectURL:  o.RedirectURL,
			Scope:        o.Scope,
			DiscoveryURL: o.DiscoveryURL,
			LogoutURL:    o.LogoutURL,
		})
		if err != nil {
			return nil, fmt.Errorf("build OIDC provider: %w", err)
		}
		opts.Provider = prov

	case config.AuthModeMock:
		prov, err := devauth.NewProvider(devauth.Config{
			UserID:          cfg.Auth.DevAuth.UserID,
			Email:           cfg.Auth.DevAuth.Email,
			FirstName:       cfg.Auth.DevAuth.FirstName,
			LastName:        cfg.Auth.DevAuth.LastName,
			SessionDuration: cfg.Auth.SessionDuration,
		})
		if err != nil {
			return nil, fmt.Errorf("build dev auth provider: %w", err)
		}
		opts.Provider = prov
		opts.Credentials = prov

	default:
		return nil, fmt.Errorf("unsupported auth mode: %q", cfg.Auth.Mode)
	}

	svc, err := service.NewAuthService(opts)
	if err != nil {
		return nil, fmt.Errorf("build auth service: %w", err)
	}
	return svc, nil
}

// BuildRoleRecords picks the role-record resolver for the configured auth
// mode. The mock dev identity does not live in the users table, so its
// role is pinned from config instead of resolved from records.
//
//nolint:ireturn // resolver selection depends on runtime config.
func BuildRoleRecords(cfg config.AuthConfig, users core.UserRepository) ports.RoleRecords {
	if cfg.Mode == config.AuthModeMock {
		return staticRoleRecords{
			role: authroles.Normalize(cfg.DevAuth.Role, authroles.DefaultAliases),
		}
	}
	return authroles.NewRecordResolver(users)
}

// staticRoleRecords answers every lookup with one fixed role. Used only
// by the mock auth mode.
type staticRoleRecords struct {
	role domainauth.Role
}

func (s staticRoleRecords) GetRole(context.Context, string) (domainauth.Role, error) {
	return s.role, nil
}
