package resources

import (
	"context"

	"github.com/google/uuid"

	"github.com/buildtrack/buildtrack/internal/auth"
	"github.com/buildtrack/buildtrack/internal/rbac"
	"github.com/buildtrack/buildtrack/internal/shared"
)

// RepositoryPort defines data access methods for resources.
type RepositoryPort interface {
	List(ctx context.Context) ([]Resource, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]Resource, error)
	Get(ctx context.Context, id uuid.UUID) (Resource, error)
	Create(ctx context.Context, res Resource) (Resource, error)
	Update(ctx context.Context, res Resource) (Resource, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service handles resource business logic.
type Service struct {
	repo   RepositoryPort
	access rbac.Authorizer
	cache  shared.Invalidator
}

// NewService builds Service instance. cache may be nil.
func NewService(repo RepositoryPort, access rbac.Authorizer, cache shared.Invalidator) *Service {
	return &Service{repo: repo, access: access, cache: cache}
}

// List returns every resource.
func (s *Service) List(ctx context.Context) ([]Resource, error) {
	out, err := s.repo.List(ctx)
	return out, shared.AsError(err, "failed to list resources")
}

// ListByProject returns the resources of one project.
func (s *Service) ListByProject(ctx context.Context, projectID uuid.UUID) ([]Resource, error) {
	out, err := s.repo.ListByProject(ctx, projectID)
	return out, shared.AsError(err, "failed to list resources")
}

// Get returns one resource.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Resource, error) {
	res, err := s.repo.Get(ctx, id)
	return res, shared.AsError(err, "failed to load resource")
}

// Create allocates a resource to a project.
func (s *Service) Create(ctx context.Context, caller auth.Identity, in CreateInput) (Resource, error) {
	projectID, err := shared.ParseID("project_id", in.ProjectID)
	if err != nil {
		return Resource{}, err
	}
	if err := s.access.Authorize(ctx, caller, projectID); err != nil {
		return Resource{}, err
	}
	created, err := s.repo.Create(ctx, Resource{
		ID:        uuid.New(),
		ProjectID: projectID,
		Name:      in.Name,
		Kind:      in.Kind,
		Quantity:  in.Quantity,
		Unit:      in.Unit,
		UnitCost:  in.UnitCost,
	})
	if err != nil {
		return Resource{}, shared.AsError(err, "failed to create resource")
	}
	shared.Bump(ctx, s.cache)
	return created, nil
}

// Update merges the provided fields into an existing resource.
func (s *Service) Update(ctx context.Context, caller auth.Identity, id uuid.UUID, in UpdateInput) (Resource, error) {
	res, err := s.Get(ctx, id)
	if err != nil {
		return Resource{}, err
	}
	if err := s.access.Authorize(ctx, caller, res.ProjectID); err != nil {
		return Resource{}, err
	}
	if in.Name != nil {
		res.Name = *in.Name
	}
	if in.Kind != nil {
		res.Kind = *in.Kind
	}
	if in.Quantity != nil {
		res.Quantity = *in.Quantity
	}
	if in.Unit != nil {
		res.Unit = *in.Unit
	}
	if in.UnitCost != nil {
		res.UnitCost = *in.UnitCost
	}
	updated, err := s.repo.Update(ctx, res)
	if err != nil {
		return Resource{}, shared.AsError(err, "failed to update resource")
	}
	shared.Bump(ctx, s.cache)
	return updated, nil
}

// Delete removes a resource.
func (s *Service) Delete(ctx context.Context, caller auth.Identity, id uuid.UUID) (Resource, error) {
	res, err := s.Get(ctx, id)
	if err != nil {
		return Resource{}, err
	}
	if err := s.access.Authorize(ctx, caller, res.ProjectID); err != nil {
		return Resource{}, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return Resource{}, shared.AsError(err, "failed to delete resource")
	}
	shared.Bump(ctx, s.cache)
	return res, nil
}
