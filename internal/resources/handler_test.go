package resources

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildtrack/buildtrack/internal/auth"
	"github.com/buildtrack/buildtrack/internal/platform/httpx"
	"github.com/buildtrack/buildtrack/internal/rbac"
	"github.com/buildtrack/buildtrack/internal/shared"
	bttest "github.com/buildtrack/buildtrack/testing"
)

type memRepo struct {
	items map[uuid.UUID]Resource
}

func (m *memRepo) List(ctx context.Context) ([]Resource, error) {
	out := []Resource{}
	for _, r := range m.items {
		out = append(out, r)
	}
	return out, nil
}

func (m *memRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]Resource, error) {
	out := []Resource{}
	for _, r := range m.items {
		if r.ProjectID == projectID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memRepo) Get(ctx context.Context, id uuid.UUID) (Resource, error) {
	r, ok := m.items[id]
	if !ok {
		return Resource{}, shared.NotFound("resource")
	}
	return r, nil
}

func (m *memRepo) Create(ctx context.Context, r Resource) (Resource, error) {
	r.computeTotal()
	m.items[r.ID] = r
	return r, nil
}

func (m *memRepo) Update(ctx context.Context, r Resource) (Resource, error) {
	r.computeTotal()
	m.items[r.ID] = r
	return r, nil
}

func (m *memRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.items, id)
	return nil
}

type allowProjects map[uuid.UUID]bool

func (a allowProjects) Authorize(ctx context.Context, id auth.Identity, projectID uuid.UUID) error {
	if !a[projectID] {
		return shared.Forbidden("you do not have access to this project")
	}
	return nil
}

func TestResourceEndpoints(t *testing.T) {
	project := uuid.New()
	repo := &memRepo{items: map[uuid.UUID]Resource{}}
	cache := &countingCache{}
	svc := NewService(repo, allowProjects{project: true}, cache)
	h := NewHandler(nil, svc, httpx.NewValidator(), rbac.Middleware{})
	router := chi.NewRouter()
	router.Route("/resource", h.MountRoutes)
	manager := bttest.As(auth.RoleManager)

	env := bttest.Do(t, router, &manager, http.MethodPost, "/resource/create",
		`{"project_id":"`+project.String()+`","name":"Cement","kind":"material","quantity":40,"unit":"bag","unit_cost":12.5}`)
	require.Equal(t, http.StatusCreated, env.StatusCode, env.Message)
	var created Resource
	env.Decode(t, &created)
	assert.Equal(t, 500.0, created.TotalCost)

	env = bttest.Do(t, router, &manager, http.MethodPost, "/resource/create",
		`{"project_id":"`+project.String()+`","name":"Crane","kind":"vehicle"}`)
	assert.Equal(t, http.StatusBadRequest, env.StatusCode)

	env = bttest.Do(t, router, &manager, http.MethodPost, "/resource/create",
		`{"project_id":"`+uuid.NewString()+`","name":"Crane","kind":"equipment"}`)
	assert.Equal(t, http.StatusForbidden, env.StatusCode)

	env = bttest.Do(t, router, &manager, http.MethodPut, "/resource/update/"+created.ID.String(), `{"quantity":10}`)
	require.Equal(t, http.StatusOK, env.StatusCode)
	var updated Resource
	env.Decode(t, &updated)
	assert.Equal(t, 125.0, updated.TotalCost)

	ceo := bttest.As(auth.RoleCEO)
	env = bttest.Do(t, router, &ceo, http.MethodGet, "/resource/getbyproject/"+project.String(), "")
	require.Equal(t, http.StatusOK, env.StatusCode)
	var list []Resource
	env.Decode(t, &list)
	assert.Len(t, list, 1)

	env = bttest.Do(t, router, &ceo, http.MethodDelete, "/resource/delete/"+created.ID.String(), "")
	assert.Equal(t, http.StatusUnauthorized, env.StatusCode)

	env = bttest.Do(t, router, &manager, http.MethodDelete, "/resource/delete/"+created.ID.String(), "")
	assert.Equal(t, http.StatusOK, env.StatusCode)
	assert.Equal(t, 3, cache.bumps)
}

type countingCache struct{ bumps int }

func (c *countingCache) Bump(context.Context) error {
	c.bumps++
	return nil
}
