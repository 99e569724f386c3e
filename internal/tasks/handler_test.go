package tasks_test

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
	"github.com/buildtrack/buildtrack/internal/tasks"
	bttest "github.com/buildtrack/buildtrack/testing"
)

type memRepo struct {
	tasks   map[uuid.UUID]tasks.Task
	users   map[uuid.UUID]bool
	deleted []uuid.UUID
}

func (m *memRepo) List(ctx context.Context) ([]tasks.Task, error) {
	out := []tasks.Task{}
	for _, t := range m.tasks {
		out = append(out, t)
	}
	return out, nil
}

func (m *memRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]tasks.Task, error) {
	out := []tasks.Task{}
	for _, t := range m.tasks {
		if t.ProjectID == projectID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memRepo) Get(ctx context.Context, id uuid.UUID) (tasks.Task, error) {
	t, ok := m.tasks[id]
	if !ok {
		return tasks.Task{}, shared.NotFound("task")
	}
	return t, nil
}

func (m *memRepo) UserExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return m.users[id], nil
}

func (m *memRepo) Create(ctx context.Context, t tasks.Task) (tasks.Task, error) {
	m.tasks[t.ID] = t
	return t, nil
}

func (m *memRepo) Update(ctx context.Context, t tasks.Task) (tasks.Task, error) {
	m.tasks[t.ID] = t
	return t, nil
}

func (m *memRepo) Delete(ctx context.Context, id uuid.UUID) error {
	m.deleted = append(m.deleted, id)
	delete(m.tasks, id)
	return nil
}

// ownerOnly allows the owner of each known project and admins.
type ownerOnly map[uuid.UUID]uuid.UUID

func (o ownerOnly) Authorize(ctx context.Context, id auth.Identity, projectID uuid.UUID) error {
	owner, ok := o[projectID]
	if !ok {
		return shared.NotFound("project")
	}
	if id.Role.IsAdmin() || owner == id.UserID {
		return nil
	}
	return shared.Forbidden("you do not have access to this project")
}

func setup() (http.Handler, *memRepo, ownerOnly) {
	repo := &memRepo{tasks: map[uuid.UUID]tasks.Task{}, users: map[uuid.UUID]bool{}}
	access := ownerOnly{}
	h := tasks.NewHandler(nil, tasks.NewService(repo, access, nil), httpx.NewValidator(), rbac.Middleware{})
	r := chi.NewRouter()
	r.Route("/task", h.MountRoutes)
	return r, repo, access
}

func TestTaskCreateAndList(t *testing.T) {
	router, repo, access := setup()
	manager := bttest.As(auth.RoleManager)
	project := uuid.New()
	access[project] = manager.UserID
	assignee := uuid.New()
	repo.users[assignee] = true

	body := `{"project_id":"` + project.String() + `","name":"Pour foundation","assignee_id":"` + assignee.String() + `","start_date":"2024-02-01","end_date":"2024-02-20"}`
	env := bttest.Do(t, router, &manager, http.MethodPost, "/task/create", body)
	require.Equal(t, http.StatusCreated, env.StatusCode, env.Message)
	var created tasks.Task
	env.Decode(t, &created)
	assert.Equal(t, tasks.StatusTodo, created.Status)
	assert.Equal(t, 1.0, created.Weight)
	assert.Equal(t, "2024-02-20", created.EndDate.String())

	employee := bttest.As(auth.RoleEmployee)
	env = bttest.Do(t, router, &employee, http.MethodGet, "/task/getbyproject/"+project.String(), "")
	require.Equal(t, http.StatusOK, env.StatusCode)
	var list []tasks.Task
	env.Decode(t, &list)
	assert.Len(t, list, 1)

	env = bttest.Do(t, router, &employee, http.MethodPost, "/task/create", body)
	assert.Equal(t, http.StatusUnauthorized, env.StatusCode)
}

func TestTaskCreateRejectsForeignProject(t *testing.T) {
	router, _, access := setup()
	owner := bttest.As(auth.RoleManager)
	other := bttest.As(auth.RoleManager)
	project := uuid.New()
	access[project] = owner.UserID

	body := `{"project_id":"` + project.String() + `","name":"Scaffold","start_date":"2024-02-01","end_date":"2024-02-02"}`
	env := bttest.Do(t, router, &other, http.MethodPost, "/task/create", body)
	assert.Equal(t, http.StatusForbidden, env.StatusCode)

	body = `{"project_id":"` + uuid.NewString() + `","name":"Scaffold","start_date":"2024-02-01","end_date":"2024-02-02"}`
	env = bttest.Do(t, router, &owner, http.MethodPost, "/task/create", body)
	assert.Equal(t, http.StatusNotFound, env.StatusCode)
}

func TestTaskValidation(t *testing.T) {
	router, _, access := setup()
	admin := bttest.As(auth.RoleAdmin)
	project := uuid.New()
	access[project] = uuid.New()

	env := bttest.Do(t, router, &admin, http.MethodPost, "/task/create", `{"name":"x"}`)
	require.Equal(t, http.StatusBadRequest, env.StatusCode)
	var fields []httpx.FieldError
	env.Decode(t, &fields)
	got := map[string]string{}
	for _, f := range fields {
		got[f.Field] = f.Rule
	}
	assert.Equal(t, "required", got["project_id"])
	assert.Equal(t, "min", got["name"])
	assert.Equal(t, "required", got["start_date"])

	body := `{"project_id":"` + project.String() + `","name":"Backfill","start_date":"2024-03-10","end_date":"2024-03-01"}`
	env = bttest.Do(t, router, &admin, http.MethodPost, "/task/create", body)
	assert.Equal(t, http.StatusBadRequest, env.StatusCode)
	assert.Equal(t, "end_date must not be before start_date", env.Message)

	body = `{"project_id":"` + project.String() + `","name":"Backfill","assignee_id":"` + uuid.NewString() + `","start_date":"2024-03-01","end_date":"2024-03-02"}`
	env = bttest.Do(t, router, &admin, http.MethodPost, "/task/create", body)
	assert.Equal(t, http.StatusNotFound, env.StatusCode)
}

func TestTaskUpdateAndDelete(t *testing.T) {
	router, repo, access := setup()
	owner := bttest.As(auth.RoleManager)
	project := uuid.New()
	access[project] = owner.UserID
	start, _ := shared.ParseDate("2024-01-01")
	end, _ := shared.ParseDate("2024-01-31")
	task := tasks.Task{ID: uuid.New(), ProjectID: project, Name: "Rebar", StartDate: start, EndDate: end, Status: tasks.StatusTodo, Weight: 1}
	repo.tasks[task.ID] = task

	env := bttest.Do(t, router, &owner, http.MethodPut, "/task/update/"+task.ID.String(), `{"status":"in_progress","weight":3}`)
	require.Equal(t, http.StatusOK, env.StatusCode)
	assert.Equal(t, tasks.StatusInProgress, repo.tasks[task.ID].Status)
	assert.Equal(t, 3.0, repo.tasks[task.ID].Weight)

	env = bttest.Do(t, router, &owner, http.MethodPut, "/task/update/"+task.ID.String(), `{"status":"finished"}`)
	assert.Equal(t, http.StatusBadRequest, env.StatusCode)

	stranger := bttest.As(auth.RoleManager)
	env = bttest.Do(t, router, &stranger, http.MethodDelete, "/task/delete/"+task.ID.String(), "")
	assert.Equal(t, http.StatusForbidden, env.StatusCode)

	env = bttest.Do(t, router, &owner, http.MethodDelete, "/task/delete/"+task.ID.String(), "")
	assert.Equal(t, http.StatusOK, env.StatusCode)
	assert.Equal(t, []uuid.UUID{task.ID}, repo.deleted)

	env = bttest.Do(t, router, &owner, http.MethodDelete, "/task/delete/"+task.ID.String(), "")
	assert.Equal(t, http.StatusNotFound, env.StatusCode)
}
