package roles_test

import (
	"context"
	"net/http"
	"sort"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildtrack/buildtrack/internal/auth"
	"github.com/buildtrack/buildtrack/internal/platform/httpx"
	"github.com/buildtrack/buildtrack/internal/rbac"
	"github.com/buildtrack/buildtrack/internal/roles"
	"github.com/buildtrack/buildtrack/internal/shared"
	bttest "github.com/buildtrack/buildtrack/testing"
)

type memRepo struct {
	roles map[uuid.UUID]roles.Role
	users map[uuid.UUID]int
}

func newMemRepo() *memRepo {
	return &memRepo{roles: map[uuid.UUID]roles.Role{}, users: map[uuid.UUID]int{}}
}

func (m *memRepo) List(ctx context.Context) ([]roles.Role, error) {
	out := make([]roles.Role, 0, len(m.roles))
	for _, r := range m.roles {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memRepo) Get(ctx context.Context, id uuid.UUID) (roles.Role, error) {
	r, ok := m.roles[id]
	if !ok {
		return roles.Role{}, shared.NotFound("role")
	}
	return r, nil
}

func (m *memRepo) NameTaken(ctx context.Context, name string, except uuid.UUID) (bool, error) {
	for id, r := range m.roles {
		if r.Name == name && id != except {
			return true, nil
		}
	}
	return false, nil
}

func (m *memRepo) Create(ctx context.Context, role roles.Role) (roles.Role, error) {
	role.CreatedAt, role.UpdatedAt = time.Now(), time.Now()
	m.roles[role.ID] = role
	return role, nil
}

func (m *memRepo) Update(ctx context.Context, role roles.Role) (roles.Role, error) {
	role.UpdatedAt = time.Now()
	m.roles[role.ID] = role
	return role, nil
}

func (m *memRepo) CountUsers(ctx context.Context, id uuid.UUID) (int, error) {
	return m.users[id], nil
}

func (m *memRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.roles, id)
	return nil
}

func newRouter(repo *memRepo) http.Handler {
	h := roles.NewHandler(nil, roles.NewService(repo), httpx.NewValidator(), rbac.Middleware{})
	r := chi.NewRouter()
	r.Route("/role", h.MountRoutes)
	return r
}

func TestRoleLifecycle(t *testing.T) {
	repo := newMemRepo()
	router := newRouter(repo)
	admin := bttest.As(auth.RoleAdmin)

	env := bttest.Do(t, router, &admin, http.MethodPost, "/role/create", `{"name":"Manager","description":"site managers"}`)
	require.Equal(t, http.StatusCreated, env.StatusCode)
	var created roles.Role
	env.Decode(t, &created)
	assert.Equal(t, "Manager", created.Name)
	assert.NotEqual(t, uuid.Nil, created.ID)

	env = bttest.Do(t, router, &admin, http.MethodPost, "/role/create", `{"name":"Manager"}`)
	assert.Equal(t, http.StatusBadRequest, env.StatusCode)
	assert.Contains(t, env.Message, "already exists")

	env = bttest.Do(t, router, &admin, http.MethodPut, "/role/update/"+created.ID.String(), `{"description":"field leads"}`)
	require.Equal(t, http.StatusOK, env.StatusCode)
	var updated roles.Role
	env.Decode(t, &updated)
	assert.Equal(t, "Manager", updated.Name)
	assert.Equal(t, "field leads", updated.Description)

	env = bttest.Do(t, router, &admin, http.MethodGet, "/role/get", "")
	var all []roles.Role
	env.Decode(t, &all)
	assert.Len(t, all, 1)

	repo.users[created.ID] = 2
	env = bttest.Do(t, router, &admin, http.MethodDelete, "/role/delete/"+created.ID.String(), "")
	assert.Equal(t, http.StatusBadRequest, env.StatusCode)

	repo.users[created.ID] = 0
	env = bttest.Do(t, router, &admin, http.MethodDelete, "/role/delete/"+created.ID.String(), "")
	assert.Equal(t, http.StatusOK, env.StatusCode)

	env = bttest.Do(t, router, &admin, http.MethodGet, "/role/get/"+created.ID.String(), "")
	assert.Equal(t, http.StatusNotFound, env.StatusCode)
}

func TestRoleRoutesRejectNonAdmins(t *testing.T) {
	router := newRouter(newMemRepo())
	for _, role := range []auth.Role{auth.RoleCEO, auth.RoleManager, auth.RoleEmployee} {
		id := bttest.As(role)
		env := bttest.Do(t, router, &id, http.MethodGet, "/role/get", "")
		assert.Equal(t, http.StatusUnauthorized, env.StatusCode, role)
		assert.Equal(t, "Unauthorized", env.Message)
	}
}

func TestRoleCreateValidation(t *testing.T) {
	router := newRouter(newMemRepo())
	root := bttest.As(auth.RoleRootAdmin)

	env := bttest.Do(t, router, &root, http.MethodPost, "/role/create", `{"name":"Intern"}`)
	require.Equal(t, http.StatusBadRequest, env.StatusCode)
	assert.Equal(t, "Validation failed", env.Message)
	var fields []httpx.FieldError
	env.Decode(t, &fields)
	require.Len(t, fields, 1)
	assert.Equal(t, "name", fields[0].Field)
	assert.Equal(t, "oneof", fields[0].Rule)

	env = bttest.Do(t, router, &root, http.MethodGet, "/role/get/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, env.StatusCode)
}
