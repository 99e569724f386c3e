package rbac

import (
	"sort"
	"strings"

	"github.com/buildtrack/buildtrack/internal/auth"
)

// RoleSet is an allow-list of roles for one class of endpoints.
type RoleSet struct {
	name  string
	roles map[auth.Role]struct{}
}

// NewRoleSet builds a named allow-list. Unknown roles are ignored.
func NewRoleSet(name string, roles ...auth.Role) RoleSet {
	set := RoleSet{name: name, roles: make(map[auth.Role]struct{}, len(roles))}
	for _, r := range roles {
		if r.Valid() {
			set.roles[r] = struct{}{}
		}
	}
	return set
}

// Named allow-lists used by the routers.
var (
	AdminOnly  = NewRoleSet("admin-only", auth.RoleAdmin, auth.RoleRootAdmin)
	Staff      = NewRoleSet("staff", auth.RoleEmployee, auth.RoleAdmin, auth.RoleRootAdmin)
	Everyone   = NewRoleSet("everyone", auth.RoleCEO, auth.RoleEmployee, auth.RoleManager, auth.RoleAdmin, auth.RoleRootAdmin)
	Managers   = NewRoleSet("managers", auth.RoleManager, auth.RoleAdmin, auth.RoleRootAdmin)
	Leadership = NewRoleSet("leadership", auth.RoleCEO, auth.RoleManager, auth.RoleAdmin, auth.RoleRootAdmin)
)

// Union returns a set allowing any role allowed by at least one input set.
// It is the only way to combine gates; routes never stack RequireRoles.
func Union(sets ...RoleSet) RoleSet {
	names := make([]string, 0, len(sets))
	out := RoleSet{roles: make(map[auth.Role]struct{})}
	for _, s := range sets {
		names = append(names, s.name)
		for r := range s.roles {
			out.roles[r] = struct{}{}
		}
	}
	out.name = strings.Join(names, "|")
	return out
}

// Allows reports whether role is in the set. RoleNone is never allowed.
func (s RoleSet) Allows(role auth.Role) bool {
	_, ok := s.roles[role]
	return ok
}

// Name identifies the set in logs.
func (s RoleSet) Name() string {
	return s.name
}

// Roles returns the members in a stable order.
func (s RoleSet) Roles() []auth.Role {
	out := make([]auth.Role, 0, len(s.roles))
	for r := range s.roles {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
