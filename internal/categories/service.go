package categories

import (
	"context"

	"github.com/google/uuid"

	"github.com/buildtrack/buildtrack/internal/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]Category, error) {
	out, err := s.repo.List(ctx)
	return out, shared.AsError(err, "failed to list categories")
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (Category, error) {
	c, err := s.repo.Get(ctx, id)
	return c, shared.AsError(err, "failed to load category")
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Category, error) {
	name := normalizeName(in.Name)
	if err := s.ensureNameFree(ctx, name, uuid.Nil); err != nil {
		return Category{}, err
	}
	c, err := s.repo.Create(ctx, Category{ID: uuid.New(), Name: name, Description: in.Description})
	return c, shared.AsError(err, "failed to create category")
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (Category, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return Category{}, err
	}
	if in.Name != nil {
		name := normalizeName(*in.Name)
		if name != c.Name {
			if err := s.ensureNameFree(ctx, name, id); err != nil {
				return Category{}, err
			}
			c.Name = name
		}
	}
	if in.Description != nil {
		c.Description = *in.Description
	}
	updated, err := s.repo.Update(ctx, c)
	return updated, shared.AsError(err, "failed to update category")
}

// Delete removes the category; projects using it keep existing uncategorised.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) (Category, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return Category{}, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return Category{}, shared.AsError(err, "failed to delete category")
	}
	return c, nil
}

func (s *Service) ensureNameFree(ctx context.Context, name string, except uuid.UUID) error {
	taken, err := s.repo.NameTaken(ctx, name, except)
	if err != nil {
		return shared.AsError(err, "failed to check category name")
	}
	if taken {
		return shared.Conflict("category %s already exists", name)
	}
	return nil
}
