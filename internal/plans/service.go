package plans

import (
	"context"

	"github.com/google/uuid"

	"github.com/buildtrack/buildtrack/internal/auth"
	"github.com/buildtrack/buildtrack/internal/rbac"
	"github.com/buildtrack/buildtrack/internal/shared"
)

// RepositoryPort defines data access methods for plans.
type RepositoryPort interface {
	List(ctx context.Context) ([]Plan, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]Plan, error)
	Get(ctx context.Context, id uuid.UUID) (Plan, error)
	PeriodTaken(ctx context.Context, projectID uuid.UUID, period shared.Date, except uuid.UUID) (bool, error)
	Create(ctx context.Context, p Plan) (Plan, error)
	Update(ctx context.Context, p Plan) (Plan, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service handles plan business logic.
type Service struct {
	repo   RepositoryPort
	access rbac.Authorizer
	cache  shared.Invalidator
}

// NewService builds Service instance. cache may be nil.
func NewService(repo RepositoryPort, access rbac.Authorizer, cache shared.Invalidator) *Service {
	return &Service{repo: repo, access: access, cache: cache}
}

// List returns every plan.
func (s *Service) List(ctx context.Context) ([]Plan, error) {
	out, err := s.repo.List(ctx)
	return out, shared.AsError(err, "failed to list plans")
}

// ListByProject returns the plans of one project.
func (s *Service) ListByProject(ctx context.Context, projectID uuid.UUID) ([]Plan, error) {
	out, err := s.repo.ListByProject(ctx, projectID)
	return out, shared.AsError(err, "failed to list plans")
}

// Get returns one plan.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Plan, error) {
	p, err := s.repo.Get(ctx, id)
	return p, shared.AsError(err, "failed to load plan")
}

// Create schedules planned value for a project period. Each period appears
// at most once per project.
func (s *Service) Create(ctx context.Context, caller auth.Identity, in CreateInput) (Plan, error) {
	projectID, err := shared.ParseID("project_id", in.ProjectID)
	if err != nil {
		return Plan{}, err
	}
	if err := s.access.Authorize(ctx, caller, projectID); err != nil {
		return Plan{}, err
	}
	p := Plan{ID: uuid.New(), ProjectID: projectID, Period: in.Period, PlannedValue: in.PlannedValue, Notes: in.Notes}
	if err := s.ensurePeriodFree(ctx, p); err != nil {
		return Plan{}, err
	}
	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return Plan{}, shared.AsError(err, "failed to create plan")
	}
	shared.Bump(ctx, s.cache)
	return created, nil
}

// Update merges the provided fields into an existing plan.
func (s *Service) Update(ctx context.Context, caller auth.Identity, id uuid.UUID, in UpdateInput) (Plan, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return Plan{}, err
	}
	if err := s.access.Authorize(ctx, caller, p.ProjectID); err != nil {
		return Plan{}, err
	}
	if in.Period != nil && !in.Period.Equal(p.Period.Time) {
		p.Period = *in.Period
		if err := s.ensurePeriodFree(ctx, p); err != nil {
			return Plan{}, err
		}
	}
	if in.PlannedValue != nil {
		p.PlannedValue = *in.PlannedValue
	}
	if in.Notes != nil {
		p.Notes = *in.Notes
	}
	updated, err := s.repo.Update(ctx, p)
	if err != nil {
		return Plan{}, shared.AsError(err, "failed to update plan")
	}
	shared.Bump(ctx, s.cache)
	return updated, nil
}

// Delete removes a plan.
func (s *Service) Delete(ctx context.Context, caller auth.Identity, id uuid.UUID) (Plan, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return Plan{}, err
	}
	if err := s.access.Authorize(ctx, caller, p.ProjectID); err != nil {
		return Plan{}, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return Plan{}, shared.AsError(err, "failed to delete plan")
	}
	shared.Bump(ctx, s.cache)
	return p, nil
}

func (s *Service) ensurePeriodFree(ctx context.Context, p Plan) error {
	taken, err := s.repo.PeriodTaken(ctx, p.ProjectID, p.Period, p.ID)
	if err != nil {
		return shared.AsError(err, "failed to check plan period")
	}
	if taken {
		return shared.Conflict("a plan for %s already exists in this project", p.Period)
	}
	return nil
}
