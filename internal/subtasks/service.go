package subtasks

import (
	"context"

	"github.com/google/uuid"

	"github.com/buildtrack/buildtrack/internal/auth"
	"github.com/buildtrack/buildtrack/internal/rbac"
	"github.com/buildtrack/buildtrack/internal/shared"
)

// RepositoryPort defines data access methods for subtasks.
type RepositoryPort interface {
	List(ctx context.Context) ([]Subtask, error)
	ListByTask(ctx context.Context, taskID uuid.UUID) ([]Subtask, error)
	Get(ctx context.Context, id uuid.UUID) (Subtask, error)
	TaskProject(ctx context.Context, taskID uuid.UUID) (uuid.UUID, error)
	Create(ctx context.Context, s Subtask) (Subtask, error)
	Update(ctx context.Context, s Subtask) (Subtask, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service handles subtask business logic.
type Service struct {
	repo   RepositoryPort
	access rbac.Authorizer
	cache  shared.Invalidator
}

// NewService builds Service instance. cache may be nil.
func NewService(repo RepositoryPort, access rbac.Authorizer, cache shared.Invalidator) *Service {
	return &Service{repo: repo, access: access, cache: cache}
}

// List returns every subtask.
func (s *Service) List(ctx context.Context) ([]Subtask, error) {
	out, err := s.repo.List(ctx)
	return out, shared.AsError(err, "failed to list subtasks")
}

// ListByTask returns the subtasks of one task.
func (s *Service) ListByTask(ctx context.Context, taskID uuid.UUID) ([]Subtask, error) {
	out, err := s.repo.ListByTask(ctx, taskID)
	return out, shared.AsError(err, "failed to list subtasks")
}

// Get returns one subtask.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Subtask, error) {
	st, err := s.repo.Get(ctx, id)
	return st, shared.AsError(err, "failed to load subtask")
}

// Create adds a subtask to an existing task.
func (s *Service) Create(ctx context.Context, caller auth.Identity, in CreateInput) (Subtask, error) {
	taskID, err := shared.ParseID("task_id", in.TaskID)
	if err != nil {
		return Subtask{}, err
	}
	if err := s.authorize(ctx, caller, taskID); err != nil {
		return Subtask{}, err
	}
	st := Subtask{
		ID:          uuid.New(),
		TaskID:      taskID,
		Name:        in.Name,
		Description: in.Description,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Status:      in.Status,
	}
	if st.Status == "" {
		st.Status = "todo"
	}
	if err := shared.CheckDateRange(st.StartDate, st.EndDate); err != nil {
		return Subtask{}, err
	}
	created, err := s.repo.Create(ctx, st)
	if err != nil {
		return Subtask{}, shared.AsError(err, "failed to create subtask")
	}
	shared.Bump(ctx, s.cache)
	return created, nil
}

// Update merges the provided fields into an existing subtask.
func (s *Service) Update(ctx context.Context, caller auth.Identity, id uuid.UUID, in UpdateInput) (Subtask, error) {
	st, err := s.Get(ctx, id)
	if err != nil {
		return Subtask{}, err
	}
	if err := s.authorize(ctx, caller, st.TaskID); err != nil {
		return Subtask{}, err
	}
	if in.Name != nil {
		st.Name = *in.Name
	}
	if in.Description != nil {
		st.Description = *in.Description
	}
	if in.StartDate != nil {
		st.StartDate = *in.StartDate
	}
	if in.EndDate != nil {
		st.EndDate = *in.EndDate
	}
	if in.Status != nil {
		st.Status = *in.Status
	}
	if err := shared.CheckDateRange(st.StartDate, st.EndDate); err != nil {
		return Subtask{}, err
	}
	updated, err := s.repo.Update(ctx, st)
	if err != nil {
		return Subtask{}, shared.AsError(err, "failed to update subtask")
	}
	shared.Bump(ctx, s.cache)
	return updated, nil
}

// Delete removes a subtask and its progress.
func (s *Service) Delete(ctx context.Context, caller auth.Identity, id uuid.UUID) (Subtask, error) {
	st, err := s.Get(ctx, id)
	if err != nil {
		return Subtask{}, err
	}
	if err := s.authorize(ctx, caller, st.TaskID); err != nil {
		return Subtask{}, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return Subtask{}, shared.AsError(err, "failed to delete subtask")
	}
	shared.Bump(ctx, s.cache)
	return st, nil
}

func (s *Service) authorize(ctx context.Context, caller auth.Identity, taskID uuid.UUID) error {
	projectID, err := s.repo.TaskProject(ctx, taskID)
	if err != nil {
		return shared.AsError(err, "failed to load task")
	}
	return s.access.Authorize(ctx, caller, projectID)
}
