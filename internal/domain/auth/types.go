package auth

// Package auth contains domain-level types for authentication, sessions,
// and role-gated page access. It is pure and free of framework/adapter
// concerns.

import "time"

// Role represents an application's authorization role.
// Keep string form for easy persistence and cookies.
// Valid values are defined as constants below.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleZookeeper  Role = "zookeeper"
	RoleVet        Role = "vet"
	RoleResearcher Role = "researcher"

	// RoleUnassigned is the zero value: an authenticated user with no role
	// record. Such a user passes authentication but fails every non-empty
	// allow list.
	RoleUnassigned Role = ""
)

// Valid reports whether r is one of the closed set of assigned roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleZookeeper, RoleVet, RoleResearcher:
		return true
	case RoleUnassigned:
		return false
	}
	return false
}

// Identity represents the authenticated principal returned by an identity
// provider. Adapters map provider-specific claims into this shape.
type Identity struct {
	UserID    string // stable user identifier (e.g., sub or row id)
	FirstName string
	LastName  string
	Email     string
	ExpiresAt time.Time // absolute expiry from the provider
}

// Session is the server-side record we persist for an authenticated user.
// ID is an opaque session identifier (e.g., random URL-safe string).
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session has passed its expiry.
func (s Session) Expired(now time.Time) bool { return now.After(s.ExpiresAt) }

// AuthState is the single derived view combining session presence and the
// resolved role. Resolving is true from store initialization until the first
// session-change event, including its role lookup, has been fully processed.
//
// Invariant: Session == nil implies Role == RoleUnassigned.
type AuthState struct {
	Session   *Session
	Role      Role
	Resolving bool
}

// SessionEvent is one session-change notification for a single session.
// SessionID names the session the event concerns; Session is nil when that
// session has ended or never existed. Seq increases monotonically per
// publisher so late-arriving role lookups can be discarded.
type SessionEvent struct {
	SessionID string
	Session   *Session
	Seq       uint64
}
