package auth

import (
	"context"

	"github.com/google/uuid"
)

// Role is one of the fixed roles carried in an identity.
type Role string

const (
	RoleNone      Role = ""
	RoleRootAdmin Role = "RootAdmin"
	RoleAdmin     Role = "Admin"
	RoleCEO       Role = "CEO"
	RoleManager   Role = "Manager"
	RoleEmployee  Role = "Employee"
)

// Roles lists every known role, most privileged first.
func Roles() []Role {
	return []Role{RoleRootAdmin, RoleAdmin, RoleCEO, RoleManager, RoleEmployee}
}

// ParseRole maps s to a known role; anything else becomes RoleNone.
func ParseRole(s string) Role {
	for _, r := range Roles() {
		if string(r) == s {
			return r
		}
	}
	return RoleNone
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return ParseRole(string(r)) != RoleNone
}

// IsAdmin reports whether r bypasses project-level access checks.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin || r == RoleRootAdmin
}

// Identity is the authenticated caller for one request.
type Identity struct {
	UserID uuid.UUID `json:"userId"`
	Role   Role      `json:"role"`
}

type identityContextKey struct{}

// ContextWithIdentity stores the identity in ctx.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// IdentityFromContext returns the identity attached by the authentication gate.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityContextKey{}).(Identity)
	return id, ok
}
