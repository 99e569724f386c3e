package projects

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildtrack/buildtrack/internal/auth"
	"github.com/buildtrack/buildtrack/internal/rbac"
	"github.com/buildtrack/buildtrack/internal/shared"
)

type memRepo struct {
	projects   map[uuid.UUID]Project
	users      map[uuid.UUID]bool
	categories map[uuid.UUID]bool
	relations  map[uuid.UUID][]uuid.UUID
	deleted    []uuid.UUID
}

func newMemRepo() *memRepo {
	return &memRepo{
		projects:   map[uuid.UUID]Project{},
		users:      map[uuid.UUID]bool{},
		categories: map[uuid.UUID]bool{},
		relations:  map[uuid.UUID][]uuid.UUID{},
	}
}

func (m *memRepo) List(ctx context.Context) ([]Project, error) {
	out := []Project{}
	for _, p := range m.projects {
		out = append(out, p)
	}
	return out, nil
}

func (m *memRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]Project, error) {
	out := []Project{}
	for _, p := range m.projects {
		if p.OwnerID == userID {
			out = append(out, p)
			continue
		}
		for _, u := range m.relations[p.ID] {
			if u == userID {
				out = append(out, p)
				break
			}
		}
	}
	return out, nil
}

func (m *memRepo) Get(ctx context.Context, id uuid.UUID) (Project, error) {
	p, ok := m.projects[id]
	if !ok {
		return Project{}, shared.NotFound("project")
	}
	return p, nil
}

func (m *memRepo) NameTaken(ctx context.Context, name string, except uuid.UUID) (bool, error) {
	for id, p := range m.projects {
		if p.Name == name && id != except {
			return true, nil
		}
	}
	return false, nil
}

func (m *memRepo) UserExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return m.users[id], nil
}

func (m *memRepo) CategoryExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return m.categories[id], nil
}

func (m *memRepo) Create(ctx context.Context, p Project) (Project, error) {
	p.CreatedAt, p.UpdatedAt = time.Now(), time.Now()
	m.projects[p.ID] = p
	return p, nil
}

func (m *memRepo) Update(ctx context.Context, p Project) (Project, error) {
	p.UpdatedAt = time.Now()
	m.projects[p.ID] = p
	return p, nil
}

func (m *memRepo) Delete(ctx context.Context, id uuid.UUID) error {
	m.deleted = append(m.deleted, id)
	delete(m.projects, id)
	return nil
}

// ProjectOwner and HasRelation let the repo back a real rbac.ProjectAccess.
func (m *memRepo) ProjectOwner(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	p, err := m.Get(ctx, id)
	return p.OwnerID, err
}

func (m *memRepo) HasRelation(ctx context.Context, userID, projectID uuid.UUID) (bool, error) {
	for _, u := range m.relations[projectID] {
		if u == userID {
			return true, nil
		}
	}
	return false, nil
}

type countingCache struct{ bumps int }

func (c *countingCache) Bump(context.Context) error {
	c.bumps++
	return nil
}

func date(s string) shared.Date {
	d, err := shared.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func newService() (*Service, *memRepo, *countingCache) {
	repo := newMemRepo()
	cache := &countingCache{}
	return NewService(repo, rbac.NewProjectAccess(repo), cache), repo, cache
}

func validInput(name string) CreateInput {
	return CreateInput{Name: name, StartDate: date("2024-01-01"), EndDate: date("2024-12-31"), Budget: 1_000_000}
}

func TestCreateDefaultsOwnerToCaller(t *testing.T) {
	svc, repo, cache := newService()
	manager := auth.Identity{UserID: uuid.New(), Role: auth.RoleManager}
	repo.users[manager.UserID] = true

	p, err := svc.Create(context.Background(), manager, validInput("Bridge A"))
	require.NoError(t, err)
	assert.Equal(t, manager.UserID, p.OwnerID)
	assert.Equal(t, StatusPlanned, p.Status)
	assert.Equal(t, 1, cache.bumps)

	_, err = svc.Create(context.Background(), manager, validInput("Bridge A"))
	assert.ErrorIs(t, err, shared.ErrConflict)
}

func TestManagerCannotCreateForSomeoneElse(t *testing.T) {
	svc, repo, _ := newService()
	manager := auth.Identity{UserID: uuid.New(), Role: auth.RoleManager}
	other := uuid.New()
	repo.users[manager.UserID], repo.users[other] = true, true

	in := validInput("Tower")
	owner := other.String()
	in.OwnerID = &owner
	_, err := svc.Create(context.Background(), manager, in)
	assert.ErrorIs(t, err, shared.ErrForbidden)

	admin := auth.Identity{UserID: uuid.New(), Role: auth.RoleAdmin}
	p, err := svc.Create(context.Background(), admin, in)
	require.NoError(t, err)
	assert.Equal(t, other, p.OwnerID)
}

func TestCreateChecksReferencesAndDates(t *testing.T) {
	svc, repo, _ := newService()
	admin := auth.Identity{UserID: uuid.New(), Role: auth.RoleAdmin}
	repo.users[admin.UserID] = true

	in := validInput("Dam")
	in.EndDate = date("2023-06-01")
	_, err := svc.Create(context.Background(), admin, in)
	assert.ErrorIs(t, err, shared.ErrValidation)

	in = validInput("Dam")
	cat := uuid.NewString()
	in.CategoryID = &cat
	_, err = svc.Create(context.Background(), admin, in)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	in = validInput("Dam")
	ghost := uuid.NewString()
	in.OwnerID = &ghost
	_, err = svc.Create(context.Background(), admin, in)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestUpdateRequiresProjectAccess(t *testing.T) {
	svc, repo, _ := newService()
	owner := auth.Identity{UserID: uuid.New(), Role: auth.RoleManager}
	stranger := auth.Identity{UserID: uuid.New(), Role: auth.RoleManager}
	member := auth.Identity{UserID: uuid.New(), Role: auth.RoleManager}
	repo.users[owner.UserID] = true

	p, err := svc.Create(context.Background(), owner, validInput("Harbour"))
	require.NoError(t, err)
	repo.relations[p.ID] = []uuid.UUID{member.UserID}

	budget := 2_500_000.0
	_, err = svc.Update(context.Background(), stranger, p.ID, UpdateInput{Budget: &budget})
	assert.ErrorIs(t, err, shared.ErrForbidden)

	updated, err := svc.Update(context.Background(), member, p.ID, UpdateInput{Budget: &budget})
	require.NoError(t, err)
	assert.Equal(t, budget, updated.Budget)

	newOwner := member.UserID.String()
	_, err = svc.Update(context.Background(), owner, p.ID, UpdateInput{OwnerID: &newOwner})
	assert.ErrorIs(t, err, shared.ErrForbidden)

	end := date("2023-01-01")
	_, err = svc.Update(context.Background(), owner, p.ID, UpdateInput{EndDate: &end})
	assert.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.Update(context.Background(), owner, uuid.New(), UpdateInput{Budget: &budget})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestListMineAndDelete(t *testing.T) {
	svc, repo, cache := newService()
	alice := auth.Identity{UserID: uuid.New(), Role: auth.RoleManager}
	bob := auth.Identity{UserID: uuid.New(), Role: auth.RoleEmployee}
	repo.users[alice.UserID] = true

	a, err := svc.Create(context.Background(), alice, validInput("Alpha"))
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), alice, validInput("Beta"))
	require.NoError(t, err)
	repo.relations[a.ID] = []uuid.UUID{bob.UserID}

	mine, err := svc.ListMine(context.Background(), bob)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Alpha", mine[0].Name)

	mine, err = svc.ListMine(context.Background(), alice)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	_, err = svc.Delete(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{a.ID}, repo.deleted)
	assert.Equal(t, 3, cache.bumps)
}
