package progress

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/buildtrack/buildtrack/internal/auth"
	"github.com/buildtrack/buildtrack/internal/rbac"
	"github.com/buildtrack/buildtrack/internal/shared"
)

// RepositoryPort defines data access methods for progress records.
type RepositoryPort interface {
	List(ctx context.Context) ([]Progress, error)
	ListByTask(ctx context.Context, taskID uuid.UUID) ([]Progress, error)
	ListBySubtask(ctx context.Context, subtaskID uuid.UUID) ([]Progress, error)
	Get(ctx context.Context, id uuid.UUID) (Progress, error)
	TaskProject(ctx context.Context, taskID uuid.UUID) (uuid.UUID, error)
	SubtaskParent(ctx context.Context, subtaskID uuid.UUID) (taskID, projectID uuid.UUID, err error)
	Create(ctx context.Context, p Progress) (Progress, error)
	Update(ctx context.Context, p Progress) (Progress, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service handles progress business logic.
type Service struct {
	repo   RepositoryPort
	access rbac.Authorizer
	cache  shared.Invalidator
	now    func() time.Time
}

// NewService builds Service instance. cache may be nil.
func NewService(repo RepositoryPort, access rbac.Authorizer, cache shared.Invalidator) *Service {
	return &Service{repo: repo, access: access, cache: cache, now: time.Now}
}

// List returns every progress record.
func (s *Service) List(ctx context.Context) ([]Progress, error) {
	out, err := s.repo.List(ctx)
	return out, shared.AsError(err, "failed to list progress")
}

// ListByTask returns the records filed against a task.
func (s *Service) ListByTask(ctx context.Context, taskID uuid.UUID) ([]Progress, error) {
	out, err := s.repo.ListByTask(ctx, taskID)
	return out, shared.AsError(err, "failed to list progress")
}

// ListBySubtask returns the records filed against a subtask.
func (s *Service) ListBySubtask(ctx context.Context, subtaskID uuid.UUID) ([]Progress, error) {
	out, err := s.repo.ListBySubtask(ctx, subtaskID)
	return out, shared.AsError(err, "failed to list progress")
}

// Get returns one record.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Progress, error) {
	p, err := s.repo.Get(ctx, id)
	return p, shared.AsError(err, "failed to load progress")
}

// Create files a progress report as the caller.
func (s *Service) Create(ctx context.Context, caller auth.Identity, in CreateInput) (Progress, error) {
	taskID, err := shared.ParseOptionalID("task_id", &in.TaskID)
	if err != nil {
		return Progress{}, err
	}
	subtaskID, err := shared.ParseOptionalID("subtask_id", &in.SubtaskID)
	if err != nil {
		return Progress{}, err
	}
	p := Progress{
		ID:         uuid.New(),
		TaskID:     taskID,
		SubtaskID:  subtaskID,
		Percentage: in.Percentage,
		ActualCost: in.ActualCost,
		ReportDate: in.ReportDate,
		Notes:      in.Notes,
	}
	if caller.UserID != uuid.Nil {
		reporter := caller.UserID
		p.ReportedBy = &reporter
	}
	if p.ReportDate.IsZero() {
		p.ReportDate = shared.Today(s.now())
	}
	if err := s.authorize(ctx, caller, p); err != nil {
		return Progress{}, err
	}
	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return Progress{}, shared.AsError(err, "failed to create progress")
	}
	shared.Bump(ctx, s.cache)
	return created, nil
}

// Update merges the provided fields into an existing record.
func (s *Service) Update(ctx context.Context, caller auth.Identity, id uuid.UUID, in UpdateInput) (Progress, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return Progress{}, err
	}
	if err := s.authorize(ctx, caller, p); err != nil {
		return Progress{}, err
	}
	if in.Percentage != nil {
		p.Percentage = *in.Percentage
	}
	if in.ActualCost != nil {
		p.ActualCost = *in.ActualCost
	}
	if in.ReportDate != nil && !in.ReportDate.IsZero() {
		p.ReportDate = *in.ReportDate
	}
	if in.Notes != nil {
		p.Notes = *in.Notes
	}
	updated, err := s.repo.Update(ctx, p)
	if err != nil {
		return Progress{}, shared.AsError(err, "failed to update progress")
	}
	shared.Bump(ctx, s.cache)
	return updated, nil
}

// Delete removes a record.
func (s *Service) Delete(ctx context.Context, caller auth.Identity, id uuid.UUID) (Progress, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return Progress{}, err
	}
	if err := s.authorize(ctx, caller, p); err != nil {
		return Progress{}, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return Progress{}, shared.AsError(err, "failed to delete progress")
	}
	shared.Bump(ctx, s.cache)
	return p, nil
}

// authorize resolves the owning project of p and runs the access check. When
// both ids are set the subtask must belong to the task.
func (s *Service) authorize(ctx context.Context, caller auth.Identity, p Progress) error {
	var projectID uuid.UUID
	switch {
	case p.SubtaskID != nil:
		parentTask, parentProject, err := s.repo.SubtaskParent(ctx, *p.SubtaskID)
		if err != nil {
			return shared.AsError(err, "failed to load subtask")
		}
		if p.TaskID != nil && *p.TaskID != parentTask {
			return shared.Invalid("subtask does not belong to task")
		}
		projectID = parentProject
	case p.TaskID != nil:
		id, err := s.repo.TaskProject(ctx, *p.TaskID)
		if err != nil {
			return shared.AsError(err, "failed to load task")
		}
		projectID = id
	default:
		return shared.Invalid("task_id or subtask_id is required")
	}
	return s.access.Authorize(ctx, caller, projectID)
}
