package roles

import (
	"context"

	"github.com/google/uuid"

	"github.com/buildtrack/buildtrack/internal/shared"
)

// RepositoryPort defines data access methods for roles.
type RepositoryPort interface {
	List(ctx context.Context) ([]Role, error)
	Get(ctx context.Context, id uuid.UUID) (Role, error)
	NameTaken(ctx context.Context, name string, except uuid.UUID) (bool, error)
	Create(ctx context.Context, role Role) (Role, error)
	Update(ctx context.Context, role Role) (Role, error)
	CountUsers(ctx context.Context, id uuid.UUID) (int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service handles role business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// List returns all roles.
func (s *Service) List(ctx context.Context) ([]Role, error) {
	roles, err := s.repo.List(ctx)
	return roles, shared.AsError(err, "failed to list roles")
}

// Get returns one role.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Role, error) {
	role, err := s.repo.Get(ctx, id)
	return role, shared.AsError(err, "failed to load role")
}

// Create adds a role with a unique name.
func (s *Service) Create(ctx context.Context, in CreateInput) (Role, error) {
	if err := s.ensureNameFree(ctx, in.Name, uuid.Nil); err != nil {
		return Role{}, err
	}
	role, err := s.repo.Create(ctx, Role{ID: uuid.New(), Name: in.Name, Description: in.Description})
	return role, shared.AsError(err, "failed to create role")
}

// Update merges the provided fields into an existing role.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (Role, error) {
	role, err := s.Get(ctx, id)
	if err != nil {
		return Role{}, err
	}
	if in.Name != nil && *in.Name != role.Name {
		if err := s.ensureNameFree(ctx, *in.Name, id); err != nil {
			return Role{}, err
		}
		role.Name = *in.Name
	}
	if in.Description != nil {
		role.Description = *in.Description
	}
	updated, err := s.repo.Update(ctx, role)
	return updated, shared.AsError(err, "failed to update role")
}

// Delete removes a role nobody holds.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) (Role, error) {
	role, err := s.Get(ctx, id)
	if err != nil {
		return Role{}, err
	}
	n, err := s.repo.CountUsers(ctx, id)
	if err != nil {
		return Role{}, shared.AsError(err, "failed to count role users")
	}
	if n > 0 {
		return Role{}, shared.Conflict("role %s is assigned to %d user(s)", role.Name, n)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return Role{}, shared.AsError(err, "failed to delete role")
	}
	return role, nil
}

func (s *Service) ensureNameFree(ctx context.Context, name string, except uuid.UUID) error {
	taken, err := s.repo.NameTaken(ctx, name, except)
	if err != nil {
		return shared.AsError(err, "failed to check role name")
	}
	if taken {
		return shared.Conflict("role %s already exists", name)
	}
	return nil
}
