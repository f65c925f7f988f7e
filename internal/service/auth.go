package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/zoohub/zookeeper-hub/internal/domain/auth"
	"github.com/zoohub/zookeeper-hub/internal/ports"
)

// ErrSessionExpired is returned by GetSession once a session has passed
// its expiry. The expired record is deleted as a side effect.
var ErrSessionExpired = errors.New("session expired")

// AuthServiceOptions groups dependencies for AuthService. Provider and
// Credentials are each optional, matching the configured auth mode; at
// least one must be set. Events is optional.
type AuthServiceOptions struct {
	Provider    ports.AuthProvider
	Credentials ports.CredentialVerifier
	Sessions    ports.SessionStore
	Roles       ports.RoleRecords
	Events      ports.SessionEvents
	Logger      *slog.Logger
}

// AuthService orchestrates authentication flows: identity verification,
// role-record resolution, session persistence, and session-change
// notification.
type AuthService struct {
	provider    ports.AuthProvider
	credentials ports.CredentialVerifier
	sessions    ports.SessionStore
	roles       ports.RoleRecords
	events      ports.SessionEvents
	logger      *slog.Logger
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) (*AuthService, error) {
	if opts.Sessions == nil {
		return nil, errors.New("auth service: Sessions is required")
	}
	if opts.Roles == nil {
		return nil, errors.New("auth service: Roles is required")
	}
	if opts.Provider == nil && opts.Credentials == nil {
		return nil, errors.New("auth service: at least one of Provider or Credentials is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		provider:    opts.Provider,
		credentials: opts.Credentials,
		sessions:    opts.Sessions,
		roles:       opts.Roles,
		events:      opts.Events,
		logger:      logger,
	}, nil
}

// SignInWithCredentials verifies an email/password pair, resolves the
// user's role record, persists a session, and announces the change.
// Invalid credentials surface as ports.ErrInvalidCredentials.
func (s *AuthService) SignInWithCredentials(ctx context.Context, email, password string) (*domainauth.Session, error) {
	if s.credentials == nil {
		return nil, errors.New("credential sign-in is not enabled")
	}

	identity, err := s.credentials.Verify(ctx, email, password)
	if err != nil {
		if errors.Is(err, ports.ErrInvalidCredentials) {
			return nil, err
		}
		return nil, fmt.Errorf("verify credentials: %w", err)
	}

	return s.establishSession(ctx, identity)
}

// BeginLoginResult contains the result of beginning a redirect login flow.
type BeginLoginResult struct {
	AuthURL string
	State   string
	Nonce   string
}

// BeginLogin initiates a redirect-flow authentication and returns the
// provider auth URL with state and nonce.
func (s *AuthService) BeginLogin(ctx context.Context, redirectURL string) (*BeginLoginResult, error) {
	if s.provider == nil {
		return nil, errors.New("redirect-flow sign-in is not enabled")
	}
	if redirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}

	authURL, state, nonce, err := s.provider.Begin(ctx, ports.BeginInput{RedirectURL: redirectURL})
	if err != nil {
		return nil, fmt.Errorf("begin auth flow: %w", err)
	}

	return &BeginLoginResult{AuthURL: authURL, State: state, Nonce: nonce}, nil
}

// CompleteLoginInput groups parameters for completing a redirect login flow.
type CompleteLoginInput struct {
	Code  string
	State string
	Nonce string
}

// CompleteLogin exchanges the authorization code for an identity, resolves
// the role record, persists a session, and announces the change.
func (s *AuthService) CompleteLogin(ctx context.Context, input CompleteLoginInput) (*domainauth.Session, error) {
	if s.provider == nil {
		return nil, errors.New("redirect-flow sign-in is not enabled")
	}
	if input.Code == "" {
		return nil, errors.New("authorization code is required")
	}
	if input.State == "" {
		return nil, errors.New("state parameter is required")
	}
	if input.Nonce == "" {
		return nil, errors.New("nonce parameter is required")
	}

	identity, err := s.provider.Exchange(ctx, ports.ExchangeInput{
		Code:  input.Code,
		State: input.State,
		Nonce: input.Nonce,
	})
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}

	return s.establishSession(ctx, identity)
}

// establishSession mints a session for a verified identity. The role
// record is resolved here so the session carries a role snapshot; a
// missing record leaves the role unassigned rather than failing sign-in.
func (s *AuthService) establishSession(ctx context.Context, identity domainauth.Identity) (*domainauth.Session, error) {
	role, err := s.resolveRole(ctx, identity.UserID)
	if err != nil {
		return nil, err
	}

	session := domainauth.Session{
		ID:        uuid.NewString(),
		UserID:    identity.UserID,
		FirstName: identity.FirstName,
		LastName:  identity.LastName,
		Email:     identity.Email,
		Role:      role,
		ExpiresAt: identity.ExpiresAt,
	}

	if saveErr := s.sessions.Save(ctx, session); saveErr != nil {
		return nil, fmt.Errorf("save session: %w", saveErr)
	}

	s.publish(ctx, session.ID, &session)
	return &session, nil
}

// GetSession retrieves a session by ID. Expired sessions are deleted and
// reported as ErrSessionExpired. The role is re-resolved on every read so
// an admin's role change takes effect without re-login.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if sessionID == "" {
		return nil, errors.New("session ID is required")
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if session.Expired(time.Now()) {
		if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
			return nil, errors.Join(ErrSessionExpired, fmt.Errorf("delete session: %w", deleteErr))
		}
		return nil, ErrSessionExpired
	}

	// A role backend failure must not knock a signed-in user out of the
	// UI; fail open to an unassigned role and let the guard decide.
	role, err := s.resolveRole(ctx, session.UserID)
	if err != nil {
		s.logger.WarnContext(ctx, "role lookup failed, continuing unassigned",
			slog.String("user_id", session.UserID),
			slog.Any("error", err),
		)
		role = domainauth.RoleUnassigned
	}
	session.Role = role

	return &session, nil
}

// Logout removes a session and announces the sign-out. A missing or empty
// session ID is a no-op.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	s.publish(ctx, sessionID, nil)
	return nil
}

// resolveRole looks up the role record for a user. A missing record means
// the user is authenticated but unassigned; only infrastructure failures
// propagate.
func (s *AuthService) resolveRole(ctx context.Context, userID string) (domainauth.Role, error) {
	role, err := s.roles.GetRole(ctx, userID)
	if err != nil {
		if errors.Is(err, ports.ErrRoleRecordNotFound) {
			return domainauth.RoleUnassigned, nil
		}
		return domainauth.RoleUnassigned, fmt.Errorf("resolve role: %w", err)
	}
	return role, nil
}

func (s *AuthService) publish(ctx context.Context, sessionID string, session *domainauth.Session) {
	if s.events == nil {
		return
	}
	s.events.Publish(ctx, sessionID, session)
}
