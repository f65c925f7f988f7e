package devauth

// Package devauth provides a fixed-identity auth backend for local
// development (the mock auth mode). It implements both the redirect-flow
// AuthProvider and the credential Verifier so either login surface works
// without an IdP or a seeded users table.

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	domainauth "github.com/zoohub/zookeeper-hub/internal/domain/auth"
	"github.com/zoohub/zookeeper-hub/internal/ports"
)

// Config controls the dev auth provider behavior.
// UserID and Email are required.
type Config struct {
	UserID          string
	Email           string
	FirstName       string
	LastName        string
	SessionDuration time.Duration // default 8h when zero
}

// Provider implements ports.AuthProvider and ports.CredentialVerifier for
// local development. Begin short-circuits the OAuth flow by redirecting
// back to our own callback with locally generated state and nonce; Verify
// accepts any secret and returns the configured identity.
type Provider struct {
	cfg Config
}

// NewProvider constructs a dev auth provider from Config.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.UserID == "" {
		return nil, errors.New("dev auth: UserID is required")
	}
	if cfg.Email == "" {
		return nil, errors.New("dev auth: Email is required")
	}
	if cfg.SessionDuration == 0 {
		cfg.SessionDuration = 8 * time.Hour
	}
	return &Provider{cfg: cfg}, nil
}

// Begin returns a local callback URL and cryptographically secure state and nonce.
func (p *Provider) Begin(_ context.Context, _ ports.BeginInput) (string, string, string, error) {
	state, err := randomString(24)
	if err != nil {
		return "", "", "", fmt.Errorf("generate state: %w", err)
	}
	nonce, err := randomString(24)
	if err != nil {
		return "", "", "", fmt.Errorf("generate nonce: %w", err)
	}
	// Our standard handler expects GET /auth/callback?code=...&state=...
	authURL := "/auth/callback?code=dev&state=" + state
	return authURL, state, nonce, nil
}

// Exchange ignores the provided code/state/nonce (validation handled by
// handler) and returns the dev identity with a fresh expiry.
func (p *Provider) Exchange(_ context.Context, _ ports.ExchangeInput) (domainauth.Identity, error) {
	return p.identity(), nil
}

// Verify ignores the secret and returns the dev identity. The email still
// has to match the configured one so the login form behaves believably.
func (p *Provider) Verify(_ context.Context, email, _ string) (domainauth.Identity, error) {
	if email != p.cfg.Email {
		return domainauth.Identity{}, ports.ErrInvalidCredentials
	}
	return p.identity(), nil
}

func (p *Provider) identity() domainauth.Identity {
	return domainauth.Identity{
		UserID:    p.cfg.UserID,
		FirstName: p.cfg.FirstName,
		LastName:  p.cfg.LastName,
		Email:     p.cfg.Email,
		ExpiresAt: time.Now().Add(p.cfg.SessionDuration),
	}
}

func randomString(n int) (string, error) {
	if n <= 0 {
		return "", nil
	}
	// Enough random bytes to yield at least n base64 URL characters.
	bLen := (n*3 + 3) / 4
	b := make([]byte, bLen)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	s := base64.RawURLEncoding.EncodeToString(b)
	for len(s) < n {
		extra := make([]byte, 1)
		if _, err := rand.Read(extra); err != nil {
			return "", err
		}
		s += base64.RawURLEncoding.EncodeToString(extra)
	}
	return s[:n], nil
}
