package httpx

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type namedInput struct {
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"omitempty,bcryptlen"`
}

func decodeBody(t *testing.T, body string) (namedInput, []FieldError) {
	t.Helper()
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	return Decode[namedInput](NewValidator(), httptest.NewRecorder(), r)
}

func TestDecodeRejectsTrailingData(t *testing.T) {
	for _, body := range []string{`{"name":"x"} garbage`, `{"name":"x"}{"name":"y"}`} {
		_, fields := decodeBody(t, body)
		require.Len(t, fields, 1, body)
		assert.Equal(t, "body", fields[0].Field)
		assert.Equal(t, "json", fields[0].Rule)
	}

	in, fields := decodeBody(t, "{\"name\":\"x\"}\n  ")
	assert.Empty(t, fields)
	assert.Equal(t, "x", in.Name)
}

func TestDecodeBodyErrors(t *testing.T) {
	_, fields := decodeBody(t, "")
	require.Len(t, fields, 1)
	assert.Equal(t, "required", fields[0].Rule)

	_, fields = decodeBody(t, `{"name":"x","extra":1}`)
	require.Len(t, fields, 1)
	assert.Equal(t, "json", fields[0].Rule)
}

func TestBcryptLenCountsBytes(t *testing.T) {
	v := NewValidator()
	assert.Empty(t, v.Struct(namedInput{Name: "a", Password: strings.Repeat("a", 72)}))

	fields := v.Struct(namedInput{Name: "a", Password: strings.Repeat("é", 37)})
	require.Len(t, fields, 1)
	assert.Equal(t, "password", fields[0].Field)
	assert.Equal(t, "bcryptlen", fields[0].Rule)
	assert.Equal(t, "password must be at most 72 bytes", fields[0].Message)
}
