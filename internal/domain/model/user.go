//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"net/mail"
	"strings"
	"time"

	domainauth "github.com/zoohub/zookeeper-hub/internal/domain/auth"
)

const minPasswordLen = 10

// StaffUser is one row in the users collection: the role record for an
// identity plus the credential hash for the local credentials provider.
// PasswordHash never leaves the data layer in API responses.
type StaffUser struct {
	ID           string          `json:"id"         db:"id"`
	Email        string          `json:"email"      db:"email"`
	FirstName    string          `json:"first_name" db:"first_name"`
	LastName     string          `json:"last_name"  db:"last_name"`
	Role         domainauth.Role `json:"role"       db:"role"`
	PasswordHash string          `json:"-"          db:"password_hash"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
}

// CreateStaffUserRequest represents parameters to create a StaffUser.
// Password is hashed by the service before it reaches the repository.
type CreateStaffUserRequest struct {
	Email     string          `json:"email"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Role      domainauth.Role `json:"role"`
	Password  string          `json:"password"`
}

// UsersListOptions controls paging for listing staff users.
type UsersListOptions struct {
	Limit  int
	Offset int
	Q      *string // substring match on email (ILIKE)
}

// Validate validates CreateStaffUserRequest.
func (r *CreateStaffUserRequest) Validate() error {
	email := strings.TrimSpace(r.Email)
	if email == "" {
		return errors.New("email is required and cannot be empty")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return errors.New("email must be a valid address")
	}
	if len(r.Password) < minPasswordLen {
		return errors.New("password must be at least 10 characters")
	}
	if r.Role != domainauth.RoleUnassigned && !r.Role.Valid() {
		return errors.New("role must be one of: admin, zookeeper, vet, researcher")
	}
	return nil
}
