package relations

import (
	"context"

	"github.com/google/uuid"

	"github.com/buildtrack/buildtrack/internal/shared"
)

// RepositoryPort defines data access methods for relations.
type RepositoryPort interface {
	List(ctx context.Context) ([]Relation, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]Relation, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Relation, error)
	Get(ctx context.Context, id uuid.UUID) (Relation, error)
	Exists(ctx context.Context, userID, projectID uuid.UUID) (bool, error)
	UserExists(ctx context.Context, id uuid.UUID) (bool, error)
	ProjectExists(ctx context.Context, id uuid.UUID) (bool, error)
	Create(ctx context.Context, rel Relation) (Relation, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service handles relation business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// List returns every relation.
func (s *Service) List(ctx context.Context) ([]Relation, error) {
	out, err := s.repo.List(ctx)
	return out, shared.AsError(err, "failed to list relations")
}

// ListByProject returns the members of a project.
func (s *Service) ListByProject(ctx context.Context, projectID uuid.UUID) ([]Relation, error) {
	out, err := s.repo.ListByProject(ctx, projectID)
	return out, shared.AsError(err, "failed to list relations")
}

// ListByUser returns the relations of a user.
func (s *Service) ListByUser(ctx context.Context, userID uuid.UUID) ([]Relation, error) {
	out, err := s.repo.ListByUser(ctx, userID)
	return out, shared.AsError(err, "failed to list relations")
}

// Create links a user to a project once.
func (s *Service) Create(ctx context.Context, in CreateInput) (Relation, error) {
	userID, err := shared.ParseID("user_id", in.UserID)
	if err != nil {
		return Relation{}, err
	}
	projectID, err := shared.ParseID("project_id", in.ProjectID)
	if err != nil {
		return Relation{}, err
	}
	if err := s.ensure(ctx, s.repo.UserExists, userID, "user"); err != nil {
		return Relation{}, err
	}
	if err := s.ensure(ctx, s.repo.ProjectExists, projectID, "project"); err != nil {
		return Relation{}, err
	}
	linked, err := s.repo.Exists(ctx, userID, projectID)
	if err != nil {
		return Relation{}, shared.AsError(err, "failed to check relation")
	}
	if linked {
		return Relation{}, shared.Conflict("user is already related to this project")
	}
	rel, err := s.repo.Create(ctx, Relation{ID: uuid.New(), UserID: userID, ProjectID: projectID})
	return rel, shared.AsError(err, "failed to create relation")
}

// Delete removes a relation.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) (Relation, error) {
	rel, err := s.repo.Get(ctx, id)
	if err != nil {
		return Relation{}, shared.AsError(err, "failed to load relation")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return Relation{}, shared.AsError(err, "failed to delete relation")
	}
	return rel, nil
}

func (s *Service) ensure(ctx context.Context, exists func(context.Context, uuid.UUID) (bool, error), id uuid.UUID, entity string) error {
	ok, err := exists(ctx, id)
	if err != nil {
		return shared.AsError(err, "failed to check "+entity)
	}
	if !ok {
		return shared.NotFound(entity)
	}
	return nil
}
