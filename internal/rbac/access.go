package rbac

import (
	"context"

	"github.com/google/uuid"

	"github.com/buildtrack/buildtrack/internal/auth"
	"github.com/buildtrack/buildtrack/internal/shared"
)

// MembershipStore answers ownership and relation questions about projects.
type MembershipStore interface {
	ProjectOwner(ctx context.Context, projectID uuid.UUID) (uuid.UUID, error)
	HasRelation(ctx context.Context, userID, projectID uuid.UUID) (bool, error)
}

// Authorizer is the project access check consumed by services.
type Authorizer interface {
	Authorize(ctx context.Context, id auth.Identity, projectID uuid.UUID) error
}

// ProjectAccess decides whether an identity may modify a project's records.
type ProjectAccess struct {
	store MembershipStore
}

// NewProjectAccess constructs a ProjectAccess.
func NewProjectAccess(store MembershipStore) *ProjectAccess {
	return &ProjectAccess{store: store}
}

// Authorize returns nil when id may write to projectID: admins always may,
// everyone else must own the project or be related to it.
func (a *ProjectAccess) Authorize(ctx context.Context, id auth.Identity, projectID uuid.UUID) error {
	owner, err := a.store.ProjectOwner(ctx, projectID)
	if err != nil {
		return shared.AsError(err, "failed to load project")
	}
	if id.Role.IsAdmin() || owner == id.UserID {
		return nil
	}
	related, err := a.store.HasRelation(ctx, id.UserID, projectID)
	if err != nil {
		return shared.AsError(err, "failed to check project relation")
	}
	if !related {
		return shared.Forbidden("you do not have access to this project")
	}
	return nil
}

var _ Authorizer = (*ProjectAccess)(nil)
