package tasks

import (
	"context"

	"github.com/google/uuid"

	"github.com/buildtrack/buildtrack/internal/auth"
	"github.com/buildtrack/buildtrack/internal/rbac"
	"github.com/buildtrack/buildtrack/internal/shared"
)

// RepositoryPort defines data access methods for tasks.
type RepositoryPort interface {
	List(ctx context.Context) ([]Task, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]Task, error)
	Get(ctx context.Context, id uuid.UUID) (Task, error)
	UserExists(ctx context.Context, id uuid.UUID) (bool, error)
	Create(ctx context.Context, t Task) (Task, error)
	Update(ctx context.Context, t Task) (Task, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service handles task business logic.
type Service struct {
	repo   RepositoryPort
	access rbac.Authorizer
	cache  shared.Invalidator
}

// NewService builds Service instance. cache may be nil.
func NewService(repo RepositoryPort, access rbac.Authorizer, cache shared.Invalidator) *Service {
	return &Service{repo: repo, access: access, cache: cache}
}

// List returns every task.
func (s *Service) List(ctx context.Context) ([]Task, error) {
	out, err := s.repo.List(ctx)
	return out, shared.AsError(err, "failed to list tasks")
}

// ListByProject returns the tasks of one project.
func (s *Service) ListByProject(ctx context.Context, projectID uuid.UUID) ([]Task, error) {
	out, err := s.repo.ListByProject(ctx, projectID)
	return out, shared.AsError(err, "failed to list tasks")
}

// Get returns one task.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Task, error) {
	t, err := s.repo.Get(ctx, id)
	return t, shared.AsError(err, "failed to load task")
}

// Create adds a task to a project the caller may modify.
func (s *Service) Create(ctx context.Context, caller auth.Identity, in CreateInput) (Task, error) {
	projectID, err := shared.ParseID("project_id", in.ProjectID)
	if err != nil {
		return Task{}, err
	}
	if err := s.access.Authorize(ctx, caller, projectID); err != nil {
		return Task{}, err
	}
	assignee, err := shared.ParseOptionalID("assignee_id", in.AssigneeID)
	if err != nil {
		return Task{}, err
	}
	t := Task{
		ID:          uuid.New(),
		ProjectID:   projectID,
		Name:        in.Name,
		Description: in.Description,
		AssigneeID:  assignee,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Status:      in.Status,
		Weight:      1,
	}
	if t.Status == "" {
		t.Status = StatusTodo
	}
	if in.Weight != nil {
		t.Weight = *in.Weight
	}
	if err := s.check(ctx, t, Task{}); err != nil {
		return Task{}, err
	}
	created, err := s.repo.Create(ctx, t)
	if err != nil {
		return Task{}, shared.AsError(err, "failed to create task")
	}
	shared.Bump(ctx, s.cache)
	return created, nil
}

// Update merges the provided fields into an existing task.
func (s *Service) Update(ctx context.Context, caller auth.Identity, id uuid.UUID, in UpdateInput) (Task, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return Task{}, err
	}
	if err := s.access.Authorize(ctx, caller, current.ProjectID); err != nil {
		return Task{}, err
	}
	next := current
	if in.Name != nil {
		next.Name = *in.Name
	}
	if in.Description != nil {
		next.Description = *in.Description
	}
	if in.AssigneeID != nil {
		if next.AssigneeID, err = shared.ParseOptionalID("assignee_id", in.AssigneeID); err != nil {
			return Task{}, err
		}
	}
	if in.StartDate != nil {
		next.StartDate = *in.StartDate
	}
	if in.EndDate != nil {
		next.EndDate = *in.EndDate
	}
	if in.Status != nil {
		next.Status = *in.Status
	}
	if in.Weight != nil {
		next.Weight = *in.Weight
	}
	if err := s.check(ctx, next, current); err != nil {
		return Task{}, err
	}
	updated, err := s.repo.Update(ctx, next)
	if err != nil {
		return Task{}, shared.AsError(err, "failed to update task")
	}
	shared.Bump(ctx, s.cache)
	return updated, nil
}

// Delete removes a task with its subtasks and progress.
func (s *Service) Delete(ctx context.Context, caller auth.Identity, id uuid.UUID) (Task, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return Task{}, err
	}
	if err := s.access.Authorize(ctx, caller, t.ProjectID); err != nil {
		return Task{}, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return Task{}, shared.AsError(err, "failed to delete task")
	}
	shared.Bump(ctx, s.cache)
	return t, nil
}

func (s *Service) check(ctx context.Context, t, prev Task) error {
	if err := shared.CheckDateRange(t.StartDate, t.EndDate); err != nil {
		return err
	}
	if t.AssigneeID != nil && (prev.AssigneeID == nil || *prev.AssigneeID != *t.AssigneeID) {
		ok, err := s.repo.UserExists(ctx, *t.AssigneeID)
		if err != nil {
			return shared.AsError(err, "failed to check assignee")
		}
		if !ok {
			return shared.NotFound("assignee")
		}
	}
	return nil
}
