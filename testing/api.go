package testing

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	stdtesting "testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/buildtrack/buildtrack/internal/auth"
)

// Envelope mirrors the response body with a raw payload for typed decoding.
type Envelope struct {
	Success        bool            `json:"success"`
	Message        string          `json:"message"`
	ResponseObject json.RawMessage `json:"responseObject"`
	StatusCode     int             `json:"statusCode"`
}

// Decode unmarshals the payload into dst.
func (e Envelope) Decode(t stdtesting.TB, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(e.ResponseObject, dst))
}

// As returns a fresh identity holding role.
func As(role auth.Role) auth.Identity {
	return auth.Identity{UserID: uuid.New(), Role: role}
}

// Do sends a request through h as id (anonymous when id is nil) and decodes
// the envelope. The HTTP status must match the envelope status code.
func Do(t stdtesting.TB, h http.Handler, id *auth.Identity, method, path, body string) Envelope {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if id != nil {
		req = req.WithContext(auth.ContextWithIdentity(req.Context(), *id))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	require.Equal(t, rec.Code, env.StatusCode)
	return env
}
