package authroles

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zoohub/zookeeper-hub/internal/data"
	domainauth "github.com/zoohub/zookeeper-hub/internal/domain/auth"
	"github.com/zoohub/zookeeper-hub/internal/domain/model"
	"github.com/zoohub/zookeeper-hub/internal/ports"
)

type stubUsers struct {
	user *model.StaffUser
	err  error
}

func (s *stubUsers) Create(context.Context, *model.CreateStaffUserRequest, string) (*model.StaffUser, error) {
	return nil, errors.New("not implemented")
}
func (s *stubUsers) GetByID(context.Context, string) (*model.StaffUser, error) { return s.user, s.err }
func (s *stubUsers) GetByEmail(context.Context, string) (*model.StaffUser, error) {
	return s.user, s.err
}
func (s *stubUsers) List(context.Context, model.UsersListOptions) ([]*model.StaffUser, error) {
	return nil, errors.New("not implemented")
}
func (s *stubUsers) UpdateRole(context.Context, string, string) (*model.StaffUser, error) {
	return nil, errors.New("not implemented")
}
func (s *stubUsers) Delete(context.Context, string) (bool, error) {
	return false, errors.New("not implemented")
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, domainauth.RoleAdmin, Normalize("admin", DefaultAliases))
	assert.Equal(t, domainauth.RoleVet, Normalize(" Vet ", DefaultAliases))
	assert.Equal(t, domainauth.RoleZookeeper, Normalize("keeper", DefaultAliases))
	assert.Equal(t, domainauth.RoleVet, Normalize("Veterinarian", DefaultAliases))
	assert.Equal(t, domainauth.RoleUnassigned, Normalize("director", DefaultAliases))
	assert.Equal(t, domainauth.RoleUnassigned, Normalize("", DefaultAliases))
	assert.Equal(t, domainauth.RoleUnassigned, Normalize("keeper", nil))
}

func TestRecordResolver_GetRole(t *testing.T) {
	r := NewRecordResolver(&stubUsers{user: &model.StaffUser{ID: "u1", Role: "keeper"}})
	role, err := r.GetRole(context.Background(), "u1")
	assert.NoError(t, err)
	assert.Equal(t, domainauth.RoleZookeeper, role)
}

func TestRecordResolver_GetRole_NotFound(t *testing.T) {
	r := NewRecordResolver(&stubUsers{err: data.ErrUserNotFound})
	role, err := r.GetRole(context.Background(), "missing")
	assert.ErrorIs(t, err, ports.ErrRoleRecordNotFound)
	assert.Equal(t, domainauth.RoleUnassigned, role)
}

func TestRecordResolver_GetRole_LookupFailure(t *testing.T) {
	boom := errors.New("connection refused")
	r := NewRecordResolver(&stubUsers{err: boom})
	role, err := r.GetRole(context.Background(), "u1")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ports.ErrRoleRecordNotFound)
	assert.Equal(t, domainauth.RoleUnassigned, role)
}
