package dashboard

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildtrack/buildtrack/internal/auth"
	"github.com/buildtrack/buildtrack/internal/rbac"
	"github.com/buildtrack/buildtrack/internal/shared"
	bttest "github.com/buildtrack/buildtrack/testing"
)

type fakeFacts struct {
	calls   atomic.Int32
	gate    chan struct{}
	budget  float64
	project uuid.UUID
}

func (f *fakeFacts) Facts(ctx context.Context, projectID *uuid.UUID, asOf time.Time) ([]ProjectFacts, error) {
	f.calls.Add(1)
	if f.gate != nil {
		<-f.gate
	}
	if projectID != nil && *projectID != f.project {
		return nil, shared.NotFound("project")
	}
	return []ProjectFacts{{
		ProjectID: f.project,
		Name:      "Tower",
		Budget:    f.budget,
		Tasks:     []TaskFact{{Status: "in_progress", Percent: 40, HasProgress: true}},
	}}, nil
}

func newTestService(t *testing.T, repo FactSource) (*Service, *Cache) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	cache := NewCache(client, time.Minute)
	svc := NewService(repo, cache)
	svc.now = func() time.Time { return time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC) }
	return svc, cache
}

func TestSummaryCachesUntilBump(t *testing.T) {
	repo := &fakeFacts{budget: 1000, project: uuid.New()}
	svc, cache := newTestService(t, repo)
	ctx := context.Background()

	first, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-15", first.AsOf.String())
	require.Len(t, first.Projects, 1)
	assert.Equal(t, 400.0, first.Projects[0].EV)

	repo.budget = 2000
	second, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), repo.calls.Load())

	require.NoError(t, cache.Bump(ctx))
	third, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 800.0, third.Projects[0].EV)
	assert.Equal(t, int32(2), repo.calls.Load())
}

func TestSummaryCollapsesConcurrentBuilds(t *testing.T) {
	repo := &fakeFacts{budget: 1000, project: uuid.New(), gate: make(chan struct{})}
	svc, _ := newTestService(t, repo)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Summary(context.Background())
			assert.NoError(t, err)
		}()
	}
	require.Eventually(t, func() bool { return repo.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	close(repo.gate)
	wg.Wait()
	assert.Equal(t, int32(1), repo.calls.Load())
}

func TestProjectMissing(t *testing.T) {
	repo := &fakeFacts{budget: 1000, project: uuid.New()}
	svc, _ := newTestService(t, repo)

	_, err := svc.Project(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)

	view, err := svc.Project(context.Background(), repo.project)
	require.NoError(t, err)
	assert.Equal(t, repo.project, view.ProjectID)
	assert.Equal(t, 40.0, view.PercentComplete)
}

func TestNilCacheComputesDirectly(t *testing.T) {
	repo := &fakeFacts{budget: 100, project: uuid.New()}
	svc := NewService(repo, nil)

	_, err := svc.Summary(context.Background())
	require.NoError(t, err)
	_, err = svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), repo.calls.Load())
}

func TestDashboardRoutesRequireLeadership(t *testing.T) {
	repo := &fakeFacts{budget: 1000, project: uuid.New()}
	svc, _ := newTestService(t, repo)
	r := chi.NewRouter()
	NewHandler(nil, svc, rbac.Middleware{}).MountRoutes(r)

	employee := bttest.As(auth.RoleEmployee)
	env := bttest.Do(t, r, &employee, http.MethodGet, "/summary", "")
	assert.Equal(t, http.StatusUnauthorized, env.StatusCode)

	ceo := bttest.As(auth.RoleCEO)
	env = bttest.Do(t, r, &ceo, http.MethodGet, "/summary", "")
	require.Equal(t, http.StatusOK, env.StatusCode)
	var summary Summary
	env.Decode(t, &summary)
	assert.Equal(t, 1, summary.Totals.Projects)

	env = bttest.Do(t, r, &ceo, http.MethodGet, "/project/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, env.StatusCode)

	env = bttest.Do(t, r, &ceo, http.MethodGet, "/project/nope", "")
	assert.Equal(t, http.StatusBadRequest, env.StatusCode)
}
