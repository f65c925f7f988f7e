// Package authroles resolves authorization roles from staff role records.
package authroles

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/zoohub/zookeeper-hub/internal/core"
	"github.com/zoohub/zookeeper-hub/internal/data"
	domainauth "github.com/zoohub/zookeeper-hub/internal/domain/auth"
	"github.com/zoohub/zookeeper-hub/internal/ports"
)

// DefaultAliases maps legacy role spellings seen in older records to the
// canonical set. The spellings drifted over time ("keeper" vs "zookeeper",
// "vet" vs "veterinarian"); records are normalized on read rather than
// migrated in place.
var DefaultAliases = map[string]domainauth.Role{
	"keeper":       domainauth.RoleZookeeper,
	"veterinarian": domainauth.RoleVet,
}

// Normalize maps a raw role string to a canonical Role. Unknown values
// resolve to RoleUnassigned.
func Normalize(raw string, aliases map[string]domainauth.Role) domainauth.Role {
	v := strings.ToLower(strings.TrimSpace(raw))
	if r := domainauth.Role(v); r.Valid() {
		return r
	}
	if aliases != nil {
		if r, ok := aliases[v]; ok {
			return r
		}
	}
	return domainauth.RoleUnassigned
}

// RecordResolver implements ports.RoleRecords against the users collection.
type RecordResolver struct {
	Users   core.UserRepository
	Aliases map[string]domainauth.Role
}

var _ ports.RoleRecords = (*RecordResolver)(nil)

// NewRecordResolver builds a resolver with the default alias table.
func NewRecordResolver(users core.UserRepository) *RecordResolver {
	return &RecordResolver{Users: users, Aliases: DefaultAliases}
}

// GetRole looks up the role record for userID. A missing record yields
// ports.ErrRoleRecordNotFound; any other failure is passed through for the
// caller to treat as a lookup failure (fail open to unassigned).
func (r *RecordResolver) GetRole(ctx context.Context, userID string) (domainauth.Role, error) {
	user, err := r.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, data.ErrUserNotFound) {
			return domainauth.RoleUnassigned, ports.ErrRoleRecordNotFound
		}
		return domainauth.RoleUnassigned, fmt.Errorf("get role record: %w", err)
	}
	return Normalize(string(user.Role), r.Aliases), nil
}
