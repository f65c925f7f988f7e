package service

import (
	"context"
	"errors"
	"strings"

	"github.com/zoohub/zookeeper-hub/internal/core"
	domainauth "github.com/zoohub/zookeeper-hub/internal/domain/auth"
	"github.com/zoohub/zookeeper-hub/internal/domain/model"
)

// ErrSelfDelete is returned when an admin tries to delete their own
// account.
var ErrSelfDelete = errors.New("cannot delete your own account")

// ErrUnknownRole is returned when a role assignment does not resolve to
// the canonical role set.
var ErrUnknownRole = errors.New("unknown role")

// UserServiceOptions groups dependencies for UserService.
type UserServiceOptions struct {
	Users core.UserRepository
	// HashPassword turns a plaintext password into its stored hash.
	HashPassword func(password string) (string, error)
	// NormalizeRole maps raw role spellings (including legacy aliases)
	// onto the canonical set. Optional; defaults to the closed set only.
	NormalizeRole func(raw string) domainauth.Role
}

// UserService manages staff accounts and their role records.
type UserService struct {
	users         core.UserRepository
	hashPassword  func(string) (string, error)
	normalizeRole func(string) domainauth.Role
}

// NewUserService constructs a new UserService.
func NewUserService(opts UserServiceOptions) (*UserService, error) {
	if opts.Users == nil {
		return nil, errors.New("user service: Users is required")
	}
	if opts.HashPassword == nil {
		return nil, errors.New("user service: HashPassword is required")
	}
	normalize := opts.NormalizeRole
	if normalize == nil {
		normalize = func(raw string) domainauth.Role {
			r := domainauth.Role(strings.ToLower(strings.TrimSpace(raw)))
			if r.Valid() {
				return r
			}
			return domainauth.RoleUnassigned
		}
	}
	return &UserService{
		users:         opts.Users,
		hashPassword:  opts.HashPassword,
		normalizeRole: normalize,
	}, nil
}

// Create normalizes the role, validates the request, hashes the
// password, and creates the staff account. Normalization runs first so
// legacy spellings pass validation.
func (s *UserService) Create(ctx context.Context, req *model.CreateStaffUserRequest) (*model.StaffUser, error) {
	if req.Role != domainauth.RoleUnassigned {
		role := s.normalizeRole(string(req.Role))
		if role == domainauth.RoleUnassigned {
			return nil, ErrUnknownRole
		}
		req.Role = role
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	return s.users.Create(ctx, req, hash)
}

// GetByID retrieves a staff account by ID.
func (s *UserService) GetByID(ctx context.Context, id string) (*model.StaffUser, error) {
	return s.users.GetByID(ctx, id)
}

// List returns a page of staff accounts.
func (s *UserService) List(ctx context.Context, opts model.UsersListOptions) ([]*model.StaffUser, error) {
	if opts.Limit <= 0 {
		opts.Limit = 50
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	return s.users.List(ctx, opts)
}

// UpdateRole assigns a role to a staff account. Legacy spellings are
// normalized; anything outside the canonical set is rejected. An empty
// role clears the assignment.
func (s *UserService) UpdateRole(ctx context.Context, id, rawRole string) (*model.StaffUser, error) {
	role := domainauth.RoleUnassigned
	if strings.TrimSpace(rawRole) != "" {
		role = s.normalizeRole(rawRole)
		if role == domainauth.RoleUnassigned {
			return nil, ErrUnknownRole
		}
	}
	return s.users.UpdateRole(ctx, id, string(role))
}

// Delete removes a staff account. Admins cannot delete themselves, which
// keeps at least the acting admin able to repair role records.
func (s *UserService) Delete(ctx context.Context, id, actorID string) (bool, error) {
	if id == actorID {
		return false, ErrSelfDelete
	}
	return s.users.Delete(ctx, id)
}
