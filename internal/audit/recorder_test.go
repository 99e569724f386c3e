package audit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildtrack/buildtrack/internal/auth"
	"github.com/buildtrack/buildtrack/internal/platform/httpx"
)

type memStore struct {
	entries []Entry
	err     error
}

func (m *memStore) Record(ctx context.Context, e Entry) error {
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, e)
	return nil
}

func (m *memStore) Window(ctx context.Context, f Filters, offset, limit int) ([]Entry, error) {
	if offset >= len(m.entries) {
		return nil, nil
	}
	end := offset + limit
	if end > len(m.entries) {
		end = len(m.entries)
	}
	return m.entries[offset:end], nil
}

const clonedID = "5d2f1f7e-8a57-4c4e-9d6c-0f3c1b2a4e11"

func newRecorderRouter(store Store, identity auth.Identity, reg prometheus.Registerer) http.Handler {
	rec := NewRecorder(store, nil, reg)
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				next.ServeHTTP(w, r.WithContext(auth.ContextWithIdentity(r.Context(), identity)))
			})
		})
		r.Use(rec.Middleware)
		r.Route("/project", func(r chi.Router) {
			r.Put("/update/{id}", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
			r.Post("/create", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusBadRequest) })
			r.Post("/clone", func(w http.ResponseWriter, r *http.Request) {
				httpx.Created(w, "Project created", map[string]string{"id": clonedID, "name": "Tower B"})
			})
			r.Get("/get", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
		})
	})
	return r
}

func serve(h http.Handler, method, path string) {
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(method, path, nil))
}

func TestRecorderStoresSuccessfulMutations(t *testing.T) {
	store := &memStore{}
	identity := auth.Identity{UserID: uuid.New(), Role: auth.RoleManager}
	h := newRecorderRouter(store, identity, prometheus.NewRegistry())
	projectID := uuid.NewString()

	serve(h, http.MethodPut, "/api/project/update/"+projectID)
	serve(h, http.MethodPost, "/api/project/create")
	serve(h, http.MethodGet, "/api/project/get")

	require.Len(t, store.entries, 1)
	e := store.entries[0]
	assert.Equal(t, "project", e.Entity)
	assert.Equal(t, "update", e.Action)
	assert.Equal(t, projectID, e.EntityID)
	require.NotNil(t, e.ActorID)
	assert.Equal(t, identity.UserID, *e.ActorID)
	assert.Equal(t, "Manager", e.Meta["role"])
	assert.Equal(t, http.StatusOK, e.Meta["status"])
}

func TestRecorderTakesCreatedIDFromResponse(t *testing.T) {
	store := &memStore{}
	h := newRecorderRouter(store, auth.Identity{UserID: uuid.New(), Role: auth.RoleAdmin}, prometheus.NewRegistry())

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/project/clone", nil))

	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Contains(t, rr.Body.String(), "Tower B")
	require.Len(t, store.entries, 1)
	assert.Equal(t, "clone", store.entries[0].Action)
	assert.Equal(t, clonedID, store.entries[0].EntityID)
}

func TestCreatedID(t *testing.T) {
	assert.Equal(t, "abc", createdID([]byte(`{"success":true,"responseObject":{"id":"abc"}}`)))
	assert.Empty(t, createdID([]byte(`{"responseObject":[{"id":"abc"}]}`)))
	assert.Empty(t, createdID([]byte(`not json`)))
	assert.Empty(t, createdID(nil))
}

func TestRecorderCountsFailedWrites(t *testing.T) {
	store := &memStore{err: errors.New("db down")}
	rec := NewRecorder(store, nil, prometheus.NewRegistry())
	h := rec.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/api/task/delete/1", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.failures))
}

func TestClassify(t *testing.T) {
	cases := []struct {
		pattern, path  string
		entity, action string
	}{
		{"/api/project/update/{id}", "", "project", "update"},
		{"/relations/create", "", "relations", "create"},
		{"", "/api/plan/delete/abc", "delete", "abc"},
		{"/", "", "unknown", "unknown"},
		{"/healthz", "", "healthz", "unknown"},
	}
	for _, tc := range cases {
		entity, action := classify(tc.pattern, tc.path)
		assert.Equal(t, tc.entity, entity, tc.pattern)
		assert.Equal(t, tc.action, action, tc.pattern)
	}
}
