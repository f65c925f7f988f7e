package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"
	"errors"

	domainauth "github.com/zoohub/zookeeper-hub/internal/domain/auth"
)

// ErrInvalidCredentials is returned by Authenticator.SignIn when the
// email/secret pair does not check out. It is surfaced to the login page
// and never affects auth state.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrRoleRecordNotFound is returned by RoleRecords.GetRole when no role
// record exists for the identity. Callers treat the role as unassigned.
var ErrRoleRecordNotFound = errors.New("role record not found")

// CredentialVerifier checks an email/secret pair against the identity
// backend and returns the authenticated identity. Session minting, role
// resolution, and state propagation are the service layer's job.
type CredentialVerifier interface {
	Verify(ctx context.Context, email, secret string) (domainauth.Identity, error)
}

// BeginInput carries inputs for initiating a redirect-flow auth exchange.
type BeginInput struct {
	RedirectURL string
}

// ExchangeInput groups parameters for the code/token exchange.
type ExchangeInput struct {
	Code  string
	State string
	Nonce string
}

// AuthProvider initiates and completes a redirect-based authentication flow
// against an IdP (the oidc auth mode).
type AuthProvider interface {
	// Begin starts the login flow and returns the provider auth URL, an opaque state, and a nonce.
	Begin(ctx context.Context, in BeginInput) (authURL, state, nonce string, err error)

	// Exchange completes the login flow, verifying state and nonce, and returns the authenticated identity.
	Exchange(ctx context.Context, in ExchangeInput) (domainauth.Identity, error)
}

// SessionStore persists and retrieves user sessions.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}

// RoleRecords resolves the authorization role recorded for an identity.
// Returns ErrRoleRecordNotFound when no record exists.
type RoleRecords interface {
	GetRole(ctx context.Context, userID string) (domainauth.Role, error)
}

// SessionEvents is the session-change notification surface, keyed by
// session ID so one browser's stream never carries another's sign-ins.
// Publish announces a change to the named session (nil on sign-out).
// Subscribe returns a channel scoped to one session that first delivers
// that session's current state and then every subsequent change, plus an
// idempotent cancel function. Events carry monotonically increasing
// sequence numbers so consumers can discard results of superseded events.
type SessionEvents interface {
	Publish(ctx context.Context, sessionID string, session *domainauth.Session)
	Subscribe(sessionID string) (<-chan domainauth.SessionEvent, func())
}
