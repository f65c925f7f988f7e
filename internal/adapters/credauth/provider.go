package credauth

// Package credauth verifies email/password credentials against the staff
// users table. It is the identity backend for the credentials auth mode.

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/zoohub/zookeeper-hub/internal/core"
	"github.com/zoohub/zookeeper-hub/internal/data"
	domainauth "github.com/zoohub/zookeeper-hub/internal/domain/auth"
	"github.com/zoohub/zookeeper-hub/internal/ports"
)

const defaultSessionDuration = 8 * time.Hour

// Options configures a Verifier.
type Options struct {
	Users           core.UserRepository
	SessionDuration time.Duration // default 8h when zero
}

// Verifier implements ports.CredentialVerifier over the users repository.
// Password hashes are bcrypt; a constant-time compare happens inside
// bcrypt.CompareHashAndPassword.
type Verifier struct {
	users           core.UserRepository
	sessionDuration time.Duration
}

// NewVerifier constructs a Verifier from Options.
func NewVerifier(opts Options) (*Verifier, error) {
	if opts.Users == nil {
		return nil, errors.New("credauth: Users repository is required")
	}
	dur := opts.SessionDuration
	if dur == 0 {
		dur = defaultSessionDuration
	}
	return &Verifier{users: opts.Users, sessionDuration: dur}, nil
}

// Verify checks the email/secret pair and returns the authenticated
// identity. Unknown emails and wrong passwords both surface as
// ports.ErrInvalidCredentials so the login page cannot be used to probe
// which addresses exist.
func (v *Verifier) Verify(ctx context.Context, email, secret string) (domainauth.Identity, error) {
	if email == "" || secret == "" {
		return domainauth.Identity{}, ports.ErrInvalidCredentials
	}

	user, err := v.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, data.ErrUserNotFound) {
			return domainauth.Identity{}, ports.ErrInvalidCredentials
		}
		return domainauth.Identity{}, fmt.Errorf("lookup user: %w", err)
	}

	if user.PasswordHash == "" {
		// SSO-only account, no local credential to check.
		return domainauth.Identity{}, ports.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(secret)); err != nil {
		return domainauth.Identity{}, ports.ErrInvalidCredentials
	}

	return domainauth.Identity{
		UserID:    user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		ExpiresAt: time.Now().Add(v.sessionDuration),
	}, nil
}

// HashPassword produces a bcrypt hash for storage in the users table.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
