package projects

import (
	"context"

	"github.com/google/uuid"

	"github.com/buildtrack/buildtrack/internal/auth"
	"github.com/buildtrack/buildtrack/internal/rbac"
	"github.com/buildtrack/buildtrack/internal/shared"
)

// RepositoryPort defines data access methods for projects.
type RepositoryPort interface {
	List(ctx context.Context) ([]Project, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]Project, error)
	Get(ctx context.Context, id uuid.UUID) (Project, error)
	NameTaken(ctx context.Context, name string, except uuid.UUID) (bool, error)
	UserExists(ctx context.Context, id uuid.UUID) (bool, error)
	CategoryExists(ctx context.Context, id uuid.UUID) (bool, error)
	Create(ctx context.Context, p Project) (Project, error)
	Update(ctx context.Context, p Project) (Project, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service handles project business logic.
type Service struct {
	repo   RepositoryPort
	access rbac.Authorizer
	cache  shared.Invalidator
}

// NewService builds Service instance. cache may be nil.
func NewService(repo RepositoryPort, access rbac.Authorizer, cache shared.Invalidator) *Service {
	return &Service{repo: repo, access: access, cache: cache}
}

// List returns every project.
func (s *Service) List(ctx context.Context) ([]Project, error) {
	out, err := s.repo.List(ctx)
	return out, shared.AsError(err, "failed to list projects")
}

// ListMine returns projects the caller owns or is related to.
func (s *Service) ListMine(ctx context.Context, id auth.Identity) ([]Project, error) {
	out, err := s.repo.ListForUser(ctx, id.UserID)
	return out, shared.AsError(err, "failed to list projects")
}

// Get returns one project.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Project, error) {
	p, err := s.repo.Get(ctx, id)
	return p, shared.AsError(err, "failed to load project")
}

// Create adds a project. Only admins may create a project on behalf of
// another owner.
func (s *Service) Create(ctx context.Context, caller auth.Identity, in CreateInput) (Project, error) {
	owner := caller.UserID
	if in.OwnerID != nil && *in.OwnerID != "" {
		parsed, err := shared.ParseID("owner_id", *in.OwnerID)
		if err != nil {
			return Project{}, err
		}
		owner = parsed
	}
	if owner != caller.UserID && !caller.Role.IsAdmin() {
		return Project{}, shared.Forbidden("only administrators can create projects for other users")
	}
	category, err := shared.ParseOptionalID("category_id", in.CategoryID)
	if err != nil {
		return Project{}, err
	}
	status := in.Status
	if status == "" {
		status = StatusPlanned
	}
	p := Project{
		ID:          uuid.New(),
		Name:        in.Name,
		Description: in.Description,
		Location:    in.Location,
		CategoryID:  category,
		OwnerID:     owner,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Budget:      in.Budget,
		Status:      status,
	}
	if err := s.check(ctx, p, Project{}); err != nil {
		return Project{}, err
	}
	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return Project{}, shared.AsError(err, "failed to create project")
	}
	shared.Bump(ctx, s.cache)
	return created, nil
}

// Update merges the provided fields after the caller passes the access check.
func (s *Service) Update(ctx context.Context, caller auth.Identity, id uuid.UUID, in UpdateInput) (Project, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return Project{}, err
	}
	if err := s.access.Authorize(ctx, caller, id); err != nil {
		return Project{}, err
	}
	next := current
	if in.Name != nil {
		next.Name = *in.Name
	}
	if in.Description != nil {
		next.Description = *in.Description
	}
	if in.Location != nil {
		next.Location = *in.Location
	}
	if in.CategoryID != nil {
		if next.CategoryID, err = shared.ParseOptionalID("category_id", in.CategoryID); err != nil {
			return Project{}, err
		}
	}
	if in.OwnerID != nil {
		owner, err := shared.ParseID("owner_id", *in.OwnerID)
		if err != nil {
			return Project{}, err
		}
		if owner != current.OwnerID && !caller.Role.IsAdmin() {
			return Project{}, shared.Forbidden("only administrators can transfer project ownership")
		}
		next.OwnerID = owner
	}
	if in.StartDate != nil {
		next.StartDate = *in.StartDate
	}
	if in.EndDate != nil {
		next.EndDate = *in.EndDate
	}
	if in.Budget != nil {
		next.Budget = *in.Budget
	}
	if in.Status != nil {
		next.Status = *in.Status
	}
	if err := s.check(ctx, next, current); err != nil {
		return Project{}, err
	}
	updated, err := s.repo.Update(ctx, next)
	if err != nil {
		return Project{}, shared.AsError(err, "failed to update project")
	}
	shared.Bump(ctx, s.cache)
	return updated, nil
}

// Delete removes a project together with its tasks, subtasks, progress,
// resources, plans and relations.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) (Project, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return Project{}, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return Project{}, shared.AsError(err, "failed to delete project")
	}
	shared.Bump(ctx, s.cache)
	return p, nil
}

// check validates p, revalidating only what changed relative to prev.
func (s *Service) check(ctx context.Context, p, prev Project) error {
	if err := shared.CheckDateRange(p.StartDate, p.EndDate); err != nil {
		return err
	}
	if p.Name != prev.Name {
		taken, err := s.repo.NameTaken(ctx, p.Name, p.ID)
		if err != nil {
			return shared.AsError(err, "failed to check project name")
		}
		if taken {
			return shared.Conflict("project %s already exists", p.Name)
		}
	}
	if p.OwnerID != prev.OwnerID {
		ok, err := s.repo.UserExists(ctx, p.OwnerID)
		if err != nil {
			return shared.AsError(err, "failed to check owner")
		}
		if !ok {
			return shared.NotFound("owner")
		}
	}
	if p.CategoryID != nil && (prev.CategoryID == nil || *prev.CategoryID != *p.CategoryID) {
		ok, err := s.repo.CategoryExists(ctx, *p.CategoryID)
		if err != nil {
			return shared.AsError(err, "failed to check category")
		}
		if !ok {
			return shared.NotFound("category")
		}
	}
	return nil
}
