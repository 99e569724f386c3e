package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCodec(t *testing.T, now func() time.Time) *TokenCodec {
	t.Helper()
	codec, err := NewTokenCodec("test-secret", WithClock(now))
	require.NoError(t, err)
	return codec
}

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	codec := newCodec(t, func() time.Time { return now })
	userID := uuid.New()

	token, expiresAt, err := codec.Issue(userID, RoleManager)
	require.NoError(t, err)
	assert.Equal(t, now.Add(8*time.Hour), expiresAt)

	id, err := codec.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, userID, id.UserID)
	assert.Equal(t, RoleManager, id.Role)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	clock := now
	codec := newCodec(t, func() time.Time { return clock })

	token, _, err := codec.Issue(uuid.New(), RoleAdmin)
	require.NoError(t, err)

	clock = now.Add(8*time.Hour + time.Second)
	_, err = codec.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	codec := newCodec(t, time.Now)
	token, _, err := codec.Issue(uuid.New(), RoleEmployee)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = codec.Verify(tampered)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsOtherSecretAndGarbage(t *testing.T) {
	codec := newCodec(t, time.Now)
	other, err := NewTokenCodec("another-secret")
	require.NoError(t, err)
	token, _, err := other.Issue(uuid.New(), RoleCEO)
	require.NoError(t, err)

	for _, candidate := range []string{token, "", "not-a-jwt", "a.b.c"} {
		_, err := codec.Verify(candidate)
		assert.ErrorIs(t, err, ErrInvalidToken, candidate)
	}
}

func TestVerifyRejectsNoneAlgorithm(t *testing.T) {
	codec := newCodec(t, time.Now)
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, claims{
		Role: string(RoleRootAdmin),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "buildtrack",
			Subject:   uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = codec.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyUnknownRoleBecomesNone(t *testing.T) {
	codec := newCodec(t, time.Now)
	token, _, err := codec.Issue(uuid.New(), Role("Janitor"))
	require.NoError(t, err)

	id, err := codec.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, RoleNone, id.Role)
	assert.False(t, id.Role.Valid())
}

func TestNewTokenCodecRequiresSecret(t *testing.T) {
	_, err := NewTokenCodec("  ")
	assert.Error(t, err)
}

func TestWithTTL(t *testing.T) {
	codec, err := NewTokenCodec("s", WithTTL(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, time.Hour, codec.TTL())
}
