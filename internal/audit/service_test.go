package audit

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildtrack/buildtrack/internal/auth"
	"github.com/buildtrack/buildtrack/internal/rbac"
	bttest "github.com/buildtrack/buildtrack/testing"
)

func seeded(n int) *memStore {
	store := &memStore{}
	for i := 0; i < n; i++ {
		store.entries = append(store.entries, Entry{ID: int64(i + 1), Action: "create", Entity: "task"})
	}
	return store
}

func TestTimelinePaging(t *testing.T) {
	svc := NewService(seeded(45))
	ctx := context.Background()

	first, err := svc.Timeline(ctx, Filters{})
	require.NoError(t, err)
	assert.Len(t, first.Rows, 20)
	assert.Equal(t, PagingInfo{Page: 1, PageSize: 20, HasNext: true, NextPage: 2}, first.Paging)

	last, err := svc.Timeline(ctx, Filters{Page: 3})
	require.NoError(t, err)
	assert.Len(t, last.Rows, 5)
	assert.Equal(t, PagingInfo{Page: 3, PageSize: 20, PrevPage: 2}, last.Paging)

	capped, err := svc.Timeline(ctx, Filters{PageSize: 500})
	require.NoError(t, err)
	assert.Equal(t, 45, len(capped.Rows))
	assert.Equal(t, maxPageSize, capped.Paging.PageSize)

	empty, err := svc.Timeline(ctx, Filters{Page: 9})
	require.NoError(t, err)
	assert.NotNil(t, empty.Rows)
	assert.Empty(t, empty.Rows)
}

func TestTimelineRoute(t *testing.T) {
	r := chi.NewRouter()
	NewHandler(nil, NewService(seeded(3)), rbac.Middleware{}).MountRoutes(r)

	manager := bttest.As(auth.RoleManager)
	env := bttest.Do(t, r, &manager, http.MethodGet, "/get", "")
	assert.Equal(t, http.StatusUnauthorized, env.StatusCode)

	admin := bttest.As(auth.RoleAdmin)
	env = bttest.Do(t, r, &admin, http.MethodGet, "/get?page_size=2", "")
	require.Equal(t, http.StatusOK, env.StatusCode)
	var res Result
	env.Decode(t, &res)
	assert.Len(t, res.Rows, 2)
	assert.True(t, res.Paging.HasNext)

	env = bttest.Do(t, r, &admin, http.MethodGet, "/get?page=zero&actor=nope", "")
	assert.Equal(t, http.StatusBadRequest, env.StatusCode)
}
