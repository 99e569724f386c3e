package relations

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildtrack/buildtrack/internal/shared"
)

type memRepo struct {
	items    map[uuid.UUID]Relation
	users    map[uuid.UUID]bool
	projects map[uuid.UUID]bool
}

func (m *memRepo) filter(keep func(Relation) bool) []Relation {
	out := []Relation{}
	for _, rel := range m.items {
		if keep(rel) {
			out = append(out, rel)
		}
	}
	return out
}

func (m *memRepo) List(ctx context.Context) ([]Relation, error) {
	return m.filter(func(Relation) bool { return true }), nil
}

func (m *memRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]Relation, error) {
	return m.filter(func(r Relation) bool { return r.ProjectID == projectID }), nil
}

func (m *memRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]Relation, error) {
	return m.filter(func(r Relation) bool { return r.UserID == userID }), nil
}

func (m *memRepo) Get(ctx context.Context, id uuid.UUID) (Relation, error) {
	rel, ok := m.items[id]
	if !ok {
		return Relation{}, shared.NotFound("relation")
	}
	return rel, nil
}

func (m *memRepo) Exists(ctx context.Context, userID, projectID uuid.UUID) (bool, error) {
	return len(m.filter(func(r Relation) bool { return r.UserID == userID && r.ProjectID == projectID })) > 0, nil
}

func (m *memRepo) UserExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return m.users[id], nil
}

func (m *memRepo) ProjectExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return m.projects[id], nil
}

func (m *memRepo) Create(ctx context.Context, rel Relation) (Relation, error) {
	m.items[rel.ID] = rel
	return rel, nil
}

func (m *memRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.items, id)
	return nil
}

func TestRelationService(t *testing.T) {
	user, project := uuid.New(), uuid.New()
	repo := &memRepo{
		items:    map[uuid.UUID]Relation{},
		users:    map[uuid.UUID]bool{user: true},
		projects: map[uuid.UUID]bool{project: true},
	}
	svc := NewService(repo)
	ctx := context.Background()

	rel, err := svc.Create(ctx, CreateInput{UserID: user.String(), ProjectID: project.String()})
	require.NoError(t, err)
	assert.Equal(t, user, rel.UserID)

	_, err = svc.Create(ctx, CreateInput{UserID: user.String(), ProjectID: project.String()})
	assert.ErrorIs(t, err, shared.ErrConflict)

	_, err = svc.Create(ctx, CreateInput{UserID: uuid.NewString(), ProjectID: project.String()})
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = svc.Create(ctx, CreateInput{UserID: user.String(), ProjectID: uuid.NewString()})
	assert.ErrorIs(t, err, shared.ErrNotFound)

	byUser, err := svc.ListByUser(ctx, user)
	require.NoError(t, err)
	assert.Len(t, byUser, 1)

	_, err = svc.Delete(ctx, rel.ID)
	require.NoError(t, err)
	_, err = svc.Delete(ctx, rel.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
